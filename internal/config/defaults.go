package config

import "time"

// Default configuration values.
const (
	DefaultLLMBaseURL      = "http://localhost:11434/v1"
	DefaultLLMModel        = "qwen2.5:7b-instruct"
	DefaultCachePath       = ".kousei/verdicts.db"
	DefaultServerAddr      = ":8080"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultFailurePolicy   = "keep"
	DefaultCacheType       = "memory"
	DefaultBatchSize       = 5
	DefaultConcurrency     = 4
	DefaultContextRadius   = 40
	DefaultRequestTimeout  = 30 * time.Second
	DefaultCacheTTL        = 7 * 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second
)

// Defaults returns the lowest-precedence configuration layer, keyed the way
// koanf flattens kousei.yaml.
func Defaults() map[string]any {
	return map[string]any{
		"llm.base_url":               DefaultLLMBaseURL,
		"llm.model":                  DefaultLLMModel,
		"llm.requests_per_second":    2.0,
		"llm.burst":                  4,
		"llm.available_timeout":      "5s",
		"validation.enabled":         false,
		"validation.batch_size":      DefaultBatchSize,
		"validation.concurrency":     DefaultConcurrency,
		"validation.request_timeout": DefaultRequestTimeout.String(),
		"validation.context_radius":  DefaultContextRadius,
		"validation.failure_policy":  DefaultFailurePolicy,
		"cache.type":                 DefaultCacheType,
		"cache.path":                 DefaultCachePath,
		"cache.ttl":                  DefaultCacheTTL.String(),
		"cache.max_size":             10000,
		"server.addr":                DefaultServerAddr,
		"server.read_timeout":        "15s",
		"server.write_timeout":       "120s",
		"server.shutdown_timeout":    DefaultShutdownTimeout.String(),
		"server.max_body_bytes":      DefaultMaxBodyBytes,
	}
}
