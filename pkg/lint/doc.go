// Package lint provides the rule contract and the Runner that executes rules
// against Japanese text.
//
// The package defines types that are used across the system. Rule
// implementations live in pkg/lint/rules to keep dictionaries out of the
// engine.
//
// # Rule tiers
//
// Every rule reports a level:
//   - L1 (core.LevelText): raw text only, run through Rule.Lint
//   - L2 (core.LevelMorphological): needs tokens, run through Rule.LintWithTokens
//   - L3 (core.LevelLLM): token-based candidates meant to be confirmed by
//     pkg/validate
//
// Rules implementing DocumentRule run once per document through
// Rule.LintDocument and only from Runner.LintDocument.
//
// # Rule Registration
//
// Built-in rules register themselves from init() when their package is
// imported:
//
//	import _ "github.com/leapstack-labs/kousei/pkg/lint/rules"
//
//	runner := lint.NewRunner(
//		lint.WithRules(lint.All()...),
//		lint.WithTokenizer(tokenizer.NewKagome()),
//	)
//
// # Configuration
//
// The effective configuration of a rule is layered, lowest first: the rule
// default, the correction mode's patch, the severity suggested by the first
// active guideline (unless a severity is already pinned), and finally the
// patches given to Runner.SetConfig.
//
//	runner.SetMode(guideline.ModeNovel)
//	runner.SetConfig("sentence-length", core.RuleConfigPatch{
//		Options: map[string]any{"max_length": 80},
//	})
//
// # Creating Custom Rules
//
// Use RuleDef for data-driven rules:
//
//	var MyRule = lint.RuleDef{
//		ID:       "my-rule",
//		Name:     "独自ルール",
//		Group:    "style",
//		Level:    core.LevelText,
//		Severity: core.SeverityWarning,
//		Check:    checkMyRule,
//	}
//
//	func init() {
//		lint.RegisterDef(MyRule)
//	}
package lint
