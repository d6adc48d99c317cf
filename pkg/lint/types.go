package lint

import (
	"context"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// =============================================================================
// Tokenizer
// =============================================================================

// Tokenizer supplies morphological tokens for a text. Implementations are
// expected to be idempotent and safe for concurrent use.
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]core.Token, error)
}

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the check function parameters.
// Exactly one of Check, CheckTokens or CheckDocument is normally set.
type RuleDef struct {
	ID           string         // Unique identifier, e.g., "ra-nuki"
	Name         string         // Human-readable name, e.g., "ら抜き言葉"
	Group        string         // Category, e.g., "grammar", "notation", "style"
	Description  string         // Human-readable description
	Level        core.RuleLevel // Detection tier
	Severity     core.Severity  // Default severity
	SkipDialogue bool           // Default for RuleConfig.SkipDialogue
	Options      map[string]any // Default rule-specific options
	ConfigKeys   []string       // Option keys this rule accepts

	Check         TextCheckFunc
	CheckTokens   TokenCheckFunc
	CheckDocument DocumentCheckFunc

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists
	BadExample  string // Text showing the problem
	GoodExample string // Text showing the corrected form
	DocURL      string // Overrides the hosted documentation link
}

// DefaultConfig returns the enabled configuration described by the def.
func (d RuleDef) DefaultConfig() core.RuleConfig {
	return core.RuleConfig{
		Enabled:      true,
		Severity:     d.Severity,
		SkipDialogue: d.SkipDialogue,
		Options:      d.Options,
	}.Clone()
}

// TextCheckFunc checks raw text.
type TextCheckFunc func(text string, cfg core.RuleConfig) []core.Issue

// TokenCheckFunc checks text with its morphological tokens.
type TokenCheckFunc func(text string, tokens []core.Token, cfg core.RuleConfig) []core.Issue

// DocumentCheckFunc checks a whole document, one string per paragraph.
type DocumentCheckFunc func(paragraphs []string, cfg core.RuleConfig) []core.ParagraphIssues

// NewIssue builds an issue for ruleID using the severity from cfg.
func NewIssue(ruleID string, cfg core.RuleConfig, from, to int, message, localized string) core.Issue {
	return core.Issue{
		RuleID:           ruleID,
		Severity:         cfg.Severity,
		Message:          message,
		LocalizedMessage: localized,
		From:             from,
		To:               to,
	}
}
