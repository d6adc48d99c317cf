// Package rules provides the built-in lint rules for Japanese prose.
//
// Rules are organized by category:
//   - grammar: non-standard conjugations and counter words (L1, L2)
//   - style: wording, brackets, sentence length and repetition (L1, L2)
//   - notation: document-wide spelling consistency (document tier)
//   - semantic: homophone candidates for LLM confirmation (L3)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/kousei/pkg/lint/rules"
//
// Individual rule categories can also be imported:
//
//	import _ "github.com/leapstack-labs/kousei/pkg/lint/rules/grammar"
package rules
