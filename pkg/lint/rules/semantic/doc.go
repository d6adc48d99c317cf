// Package semantic provides LLM-assisted (L3) rules. They report
// high-recall candidates that pkg/validate is expected to confirm or reject.
package semantic
