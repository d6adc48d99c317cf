package core

import (
	"fmt"
	"maps"
	"strings"
)

// =============================================================================
// Rule levels
// =============================================================================

// RuleLevel is the detection tier of a rule.
type RuleLevel int

// Rule levels.
const (
	// LevelText rules only look at raw text (L1).
	LevelText RuleLevel = iota + 1
	// LevelMorphological rules need morphological tokens (L2).
	LevelMorphological
	// LevelLLM rules produce candidates meant for LLM confirmation (L3).
	LevelLLM
)

// String returns the short tier name ("L1", "L2", "L3").
func (l RuleLevel) String() string {
	switch l {
	case LevelText:
		return "L1"
	case LevelMorphological:
		return "L2"
	case LevelLLM:
		return "L3"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l RuleLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *RuleLevel) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "L1":
		*l = LevelText
	case "L2":
		*l = LevelMorphological
	case "L3":
		*l = LevelLLM
	default:
		return fmt.Errorf("unknown rule level %q", string(text))
	}
	return nil
}

// NeedsTokens reports whether the tier consumes morphological tokens.
func (l RuleLevel) NeedsTokens() bool {
	return l == LevelMorphological || l == LevelLLM
}

// =============================================================================
// Rule configuration
// =============================================================================

// RuleConfig is the runtime configuration of a single rule.
type RuleConfig struct {
	Enabled      bool           `json:"enabled"`
	Severity     Severity       `json:"severity"`
	SkipDialogue bool           `json:"skip_dialogue"`     // Suppress issues inside quoted dialogue
	Options      map[string]any `json:"options,omitempty"` // Rule-specific options
}

// Clone returns a copy whose Options map can be modified independently.
func (c RuleConfig) Clone() RuleConfig {
	if c.Options != nil {
		c.Options = maps.Clone(c.Options)
	}
	return c
}

// RuleConfigPatch is a partial RuleConfig. Nil fields are left untouched when
// the patch is applied.
type RuleConfigPatch struct {
	Enabled      *bool          `json:"enabled,omitempty"`
	Severity     *Severity      `json:"severity,omitempty"`
	SkipDialogue *bool          `json:"skip_dialogue,omitempty"`
	Options      map[string]any `json:"options,omitempty"`
}

// Apply merges the patch into cfg and returns the result. Options are merged
// key by key.
func (p RuleConfigPatch) Apply(cfg RuleConfig) RuleConfig {
	out := cfg.Clone()
	if p.Enabled != nil {
		out.Enabled = *p.Enabled
	}
	if p.Severity != nil {
		out.Severity = *p.Severity
	}
	if p.SkipDialogue != nil {
		out.SkipDialogue = *p.SkipDialogue
	}
	if len(p.Options) > 0 {
		if out.Options == nil {
			out.Options = make(map[string]any, len(p.Options))
		}
		maps.Copy(out.Options, p.Options)
	}
	return out
}

// Merge layers next on top of p; fields set in next win.
func (p RuleConfigPatch) Merge(next RuleConfigPatch) RuleConfigPatch {
	out := p
	if next.Enabled != nil {
		out.Enabled = next.Enabled
	}
	if next.Severity != nil {
		out.Severity = next.Severity
	}
	if next.SkipDialogue != nil {
		out.SkipDialogue = next.SkipDialogue
	}
	if len(next.Options) > 0 {
		merged := make(map[string]any, len(p.Options)+len(next.Options))
		maps.Copy(merged, p.Options)
		maps.Copy(merged, next.Options)
		out.Options = merged
	}
	return out
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
