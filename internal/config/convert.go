package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
	"github.com/leapstack-labs/kousei/pkg/llm"
	"github.com/leapstack-labs/kousei/pkg/validate"
)

// Patch converts the settings to a rule config patch.
func (s RuleSettings) Patch() core.RuleConfigPatch {
	p := core.RuleConfigPatch{
		Enabled:      s.Enabled,
		SkipDialogue: s.SkipDialogue,
		Options:      s.Options,
	}
	if sev, ok := core.ParseSeverity(s.Severity); ok && s.Severity != "" {
		p.Severity = &sev
	}
	return p
}

// RulePatches returns the user patches for every configured rule.
func (c *Config) RulePatches() map[string]core.RuleConfigPatch {
	out := make(map[string]core.RuleConfigPatch, len(c.Rules))
	for id, s := range c.Rules {
		out[id] = s.Patch()
	}
	return out
}

// GuidelineIDs returns the configured guidelines, or nil when none are set
// so the mode's default guidelines apply.
func (c *Config) GuidelineIDs() []guideline.ID {
	if len(c.Guidelines) == 0 {
		return nil
	}
	return guideline.ParseIDs(c.Guidelines)
}

// ModeID returns the configured correction mode.
func (c *Config) ModeID() guideline.ModeID {
	return guideline.ModeID(c.Mode)
}

// OpenAIConfig returns the LLM client configuration.
func (c *Config) OpenAIConfig() llm.OpenAIConfig {
	return llm.OpenAIConfig{
		BaseURL:           c.LLM.BaseURL,
		APIKey:            c.LLM.APIKey,
		Model:             c.LLM.Model,
		RequestsPerSecond: c.LLM.RequestsPerSecond,
		Burst:             c.LLM.Burst,
		BatchConcurrency:  c.Validation.Concurrency,
		AvailableTimeout:  c.LLM.AvailableTimeout,
	}
}

// ValidatorConfig returns the candidate validator configuration.
func (c *Config) ValidatorConfig() validate.Config {
	return validate.Config{
		BatchSize:      c.Validation.BatchSize,
		Concurrency:    c.Validation.Concurrency,
		RequestTimeout: c.Validation.RequestTimeout,
		ContextRadius:  c.Validation.ContextRadius,
		FailurePolicy:  validate.FailurePolicy(c.Validation.FailurePolicy),
	}
}

// OpenCache builds the configured verdict cache. It returns a nil cache for
// type "none" and a close function that is always safe to call.
func (c *Config) OpenCache() (validate.Cache, func() error, error) {
	noop := func() error { return nil }
	switch c.Cache.Type {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return validate.NewMemoryCache(c.Cache.TTL, c.Cache.MaxSize), noop, nil
	case "sqlite":
		if c.Cache.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(c.Cache.Path), 0o755); err != nil {
				return nil, noop, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		cache, err := validate.OpenSQLiteCache(c.Cache.Path, c.Cache.TTL)
		if err != nil {
			return nil, noop, err
		}
		return cache, cache.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache type %q", c.Cache.Type)
	}
}
