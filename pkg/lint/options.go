package lint

import "github.com/leapstack-labs/kousei/pkg/core"

// Option extracts a typed rule option with a default value.
func Option[T any](cfg core.RuleConfig, key string, defaultVal T) T {
	v, ok := cfg.Options[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// IntOption extracts an int option. Numbers decoded from JSON or YAML arrive
// as float64, int64 or uint64 and are converted.
func IntOption(cfg core.RuleConfig, key string, defaultVal int) int {
	switch n := cfg.Options[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return defaultVal
	}
}

// StringOption extracts a string option.
func StringOption(cfg core.RuleConfig, key string, defaultVal string) string {
	return Option(cfg, key, defaultVal)
}

// BoolOption extracts a bool option.
func BoolOption(cfg core.RuleConfig, key string, defaultVal bool) bool {
	return Option(cfg, key, defaultVal)
}

// StringSliceOption extracts a string slice option, accepting []any as
// produced by generic decoders.
func StringSliceOption(cfg core.RuleConfig, key string, defaultVal []string) []string {
	switch s := cfg.Options[key].(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return defaultVal
	}
}
