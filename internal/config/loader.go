package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "kousei.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "kousei.yml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "KOUSEI_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// sections are the nested keys an environment variable can address, e.g.
// KOUSEI_LLM_API_KEY -> llm.api_key.
var sections = []string{"llm", "validation", "cache", "server"}

// flagKeys maps CLI flag names onto config keys when they differ.
var flagKeys = map[string]string{
	"guideline":    "guidelines",
	"dict":         "dictionaries",
	"script":       "scripts",
	"validate":     "validation.enabled",
	"llm-url":      "llm.base_url",
	"llm-model":    "llm.model",
	"addr":         "server.addr",
	"cache":        "cache.type",
	"cache-path":   "cache.path",
	"concurrency":  "validation.concurrency",
	"batch-size":   "validation.batch_size",
	"failure-mode": "validation.failure_policy",
}

// Loaded is a configuration together with where it came from.
type Loaded struct {
	*Config
	File string // Config file that was read; empty when none was found
	Root string // Directory relative paths are resolved against
}

// Load builds the configuration from, lowest precedence first: defaults,
// the config file, KOUSEI_* environment variables and explicitly set flags.
//
// cfgFile may be empty, in which case kousei.yaml is searched for upward
// from the working directory. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	root, _ := os.Getwd()
	if cfgFile == "" {
		if dir := FindProjectRoot(root); dir != "" {
			cfgFile = findConfigFile(dir)
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		if abs, err := filepath.Abs(cfgFile); err == nil {
			root = filepath.Dir(abs)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return FlagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			// Comma separated strings from the environment decode into
			// list fields such as guidelines.
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.LLM.APIKey = expandEnvVars(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = expandEnvVars(cfg.LLM.BaseURL)
	cfg.Cache.Path = resolvePathRelativeTo(cfg.Cache.Path, root)
	for i, d := range cfg.Dictionaries {
		cfg.Dictionaries[i] = resolvePathRelativeTo(d, root)
	}
	for i, s := range cfg.Scripts {
		cfg.Scripts[i] = resolvePathRelativeTo(s, root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Loaded{Config: &cfg, File: cfgFile, Root: root}, nil
}

// FlagKey returns the config key a CLI flag overrides.
func FlagKey(flag string) string {
	if key, ok := flagKeys[flag]; ok {
		return key
	}
	return strings.ReplaceAll(flag, "-", "_")
}

// EnvVar returns the environment variable that sets key: llm.api_key is
// read from KOUSEI_LLM_API_KEY.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// envKey turns KOUSEI_LLM_API_KEY into llm.api_key and KOUSEI_MODE into mode.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if rest, ok := strings.CutPrefix(key, sec+"_"); ok {
			return sec + "." + rest
		}
	}
	return key
}

// findConfigFile returns the config file in dir, or "" if there is none.
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory containing
// kousei.yaml or kousei.yml. Returns "" if none is found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if findConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns; unknown variables are left as is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}
