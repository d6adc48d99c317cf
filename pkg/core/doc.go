// Package core defines the shared language of the kousei proofreading engine.
//
// This package contains:
//   - Findings (Issue, Fix) and their Severity
//   - Morphological tokens as produced by a tokenizer
//   - Rule metadata and per-rule configuration (RuleConfig, RuleConfigPatch)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
