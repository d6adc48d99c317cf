package lint

import (
	"github.com/leapstack-labs/kousei/pkg/core"
)

// =============================================================================
// Rule Interfaces
// =============================================================================

// Rule is the interface all lint rules implement.
//
// A rule carries three capability methods. Each concrete rule meaningfully
// implements only the one matching its tier; the others return empty
// results. Rules are pure functions of their inputs and must not panic on
// empty or malformed text.
type Rule interface {
	// ID returns the unique identifier, e.g., "ra-nuki"
	ID() string

	// Name returns the human-readable name, e.g., "ら抜き言葉"
	Name() string

	// Group returns the category, e.g., "grammar", "notation", "style"
	Group() string

	// Description returns a human-readable description
	Description() string

	// Level returns the detection tier
	Level() core.RuleLevel

	// DefaultConfig returns the configuration used when nothing overrides it
	DefaultConfig() core.RuleConfig

	// ConfigKeys returns the option keys this rule accepts
	ConfigKeys() []string

	// Lint checks raw text (L1 rules).
	Lint(text string, cfg core.RuleConfig) []core.Issue

	// LintWithTokens checks text together with its morphological tokens
	// (L2 and L3 rules).
	LintWithTokens(text string, tokens []core.Token, cfg core.RuleConfig) []core.Issue

	// LintDocument checks all paragraphs of a document at once (document
	// tier rules).
	LintDocument(paragraphs []string, cfg core.RuleConfig) []core.ParagraphIssues
}

// DocumentRule is implemented by rules that run once per document rather
// than once per paragraph.
type DocumentRule interface {
	Rule
	DocumentTier() bool
}

// IsDocumentRule reports whether r belongs to the document tier.
func IsDocumentRule(r Rule) bool {
	d, ok := r.(DocumentRule)
	return ok && d.DocumentTier()
}

// BaseRule supplies empty capability methods. Concrete rules embed it and
// override the one method that matches their tier.
type BaseRule struct{}

// Lint returns no issues.
func (BaseRule) Lint(string, core.RuleConfig) []core.Issue { return nil }

// LintWithTokens returns no issues.
func (BaseRule) LintWithTokens(string, []core.Token, core.RuleConfig) []core.Issue { return nil }

// LintDocument returns no issues.
func (BaseRule) LintDocument([]string, core.RuleConfig) []core.ParagraphIssues { return nil }

// ConfigKeys returns no option keys.
func (BaseRule) ConfigKeys() []string { return nil }

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	def := r.DefaultConfig()
	info := core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		Level:           r.Level(),
		DefaultSeverity: def.Severity,
		ConfigKeys:      r.ConfigKeys(),
		Document:        IsDocumentRule(r),
		DocURL:          DocURL(r.ID()),
	}
	if d, ok := r.(interface{ Unwrap() RuleDef }); ok {
		inner := d.Unwrap()
		info.Rationale = inner.Rationale
		info.BadExample = inner.BadExample
		info.GoodExample = inner.GoodExample
		if inner.DocURL != "" {
			info.DocURL = inner.DocURL
		}
	}
	return info
}

// =============================================================================
// Wrapped RuleDef
// =============================================================================

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	BaseRule
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string            { return w.def.ID }
func (w *wrappedRuleDef) Name() string          { return w.def.Name }
func (w *wrappedRuleDef) Group() string         { return w.def.Group }
func (w *wrappedRuleDef) Description() string   { return w.def.Description }
func (w *wrappedRuleDef) Level() core.RuleLevel { return w.def.Level }
func (w *wrappedRuleDef) ConfigKeys() []string  { return w.def.ConfigKeys }
func (w *wrappedRuleDef) DocumentTier() bool    { return w.def.CheckDocument != nil }

func (w *wrappedRuleDef) DefaultConfig() core.RuleConfig {
	return w.def.DefaultConfig()
}

func (w *wrappedRuleDef) Lint(text string, cfg core.RuleConfig) []core.Issue {
	if w.def.Check == nil {
		return nil
	}
	return w.def.Check(text, cfg)
}

func (w *wrappedRuleDef) LintWithTokens(text string, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
	if w.def.CheckTokens == nil {
		return nil
	}
	return w.def.CheckTokens(text, tokens, cfg)
}

func (w *wrappedRuleDef) LintDocument(paragraphs []string, cfg core.RuleConfig) []core.ParagraphIssues {
	if w.def.CheckDocument == nil || len(paragraphs) == 0 {
		return nil
	}
	return w.def.CheckDocument(paragraphs, cfg)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
