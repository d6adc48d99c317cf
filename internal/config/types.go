// Package config provides the configuration types shared by the kousei CLI
// and HTTP server, together with discovery of kousei.yaml.
package config

import "time"

// RuleSettings is the user configuration of one rule. Unset fields keep the
// rule's default (or the mode's preset).
type RuleSettings struct {
	Enabled      *bool          `koanf:"enabled" json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Severity     string         `koanf:"severity" json:"severity,omitempty" yaml:"severity,omitempty" validate:"omitempty,severity"`
	SkipDialogue *bool          `koanf:"skip_dialogue" json:"skip_dialogue,omitempty" yaml:"skip_dialogue,omitempty"`
	Options      map[string]any `koanf:"options" json:"options,omitempty" yaml:"options,omitempty"`
}

// LLMConfig configures the OpenAI-compatible backend used for validation.
type LLMConfig struct {
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model" validate:"required"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
	AvailableTimeout  time.Duration `koanf:"available_timeout" validate:"gte=0"`
}

// ValidationConfig configures the candidate validator.
type ValidationConfig struct {
	Enabled        bool          `koanf:"enabled"`
	BatchSize      int           `koanf:"batch_size" validate:"gte=1,lte=50"`
	Concurrency    int           `koanf:"concurrency" validate:"gte=1,lte=64"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	ContextRadius  int           `koanf:"context_radius" validate:"gte=0"`
	FailurePolicy  string        `koanf:"failure_policy" validate:"oneof=keep drop"`
}

// CacheConfig configures the verdict cache.
type CacheConfig struct {
	Type    string        `koanf:"type" validate:"oneof=none memory sqlite"`
	Path    string        `koanf:"path" validate:"required_if=Type sqlite"`
	TTL     time.Duration `koanf:"ttl" validate:"gte=0"`
	MaxSize int           `koanf:"max_size" validate:"gte=0"`
}

// ServerConfig configures `kousei serve`.
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gt=0"`
}

// Config is the full kousei configuration.
type Config struct {
	Mode         string                  `koanf:"mode" validate:"omitempty,mode"`
	Guidelines   []string                `koanf:"guidelines" validate:"dive,guideline"`
	Rules        map[string]RuleSettings `koanf:"rules" validate:"dive"`
	Dictionaries []string                `koanf:"dictionaries"`
	Scripts      []string                `koanf:"scripts"`
	LLM          LLMConfig               `koanf:"llm"`
	Validation   ValidationConfig        `koanf:"validation"`
	Cache        CacheConfig             `koanf:"cache"`
	Server       ServerConfig            `koanf:"server"`
}
