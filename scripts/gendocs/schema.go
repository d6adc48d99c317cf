package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/kousei/internal/config"
)

// generateConfigDocs generates the kousei.yaml reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Description string
	Section     string // "general", "llm", "validation", "cache", "server"
}

// getConfigSchema returns the configuration schema definition.
// This mirrors internal/config/types.go; defaults come from config.Defaults.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "mode", Type: "string", Description: "Correction mode: novel, official, blog, sns, academic", Section: "general"},
		{Name: "guidelines", Type: "[]string", Description: "Active guidelines; overrides the mode's guidelines", Section: "general"},
		{Name: "dictionaries", Type: "[]string", Description: "User dictionary files, relative to kousei.yaml", Section: "general"},

		{Name: "llm.base_url", Type: "string", Description: "OpenAI-compatible API base URL", Section: "llm"},
		{Name: "llm.api_key", Type: "string", Description: "API key; `${VAR}` is expanded", Section: "llm"},
		{Name: "llm.model", Type: "string", Description: "Model used for validation", Section: "llm"},
		{Name: "llm.requests_per_second", Type: "float", Description: "Client-side rate limit", Section: "llm"},
		{Name: "llm.burst", Type: "int", Description: "Rate limiter burst", Section: "llm"},
		{Name: "llm.available_timeout", Type: "duration", Description: "Timeout of the availability probe", Section: "llm"},

		{Name: "validation.enabled", Type: "bool", Description: "Confirm candidates with the LLM", Section: "validation"},
		{Name: "validation.batch_size", Type: "int", Description: "Candidates per LLM request (1-50)", Section: "validation"},
		{Name: "validation.concurrency", Type: "int", Description: "Concurrent LLM requests (1-64)", Section: "validation"},
		{Name: "validation.request_timeout", Type: "duration", Description: "Timeout of one LLM request", Section: "validation"},
		{Name: "validation.context_radius", Type: "int", Description: "Characters of context around each candidate", Section: "validation"},
		{Name: "validation.failure_policy", Type: "string", Description: "Candidates of a failed request: keep, drop", Section: "validation"},

		{Name: "cache.type", Type: "string", Description: "Verdict cache: none, memory, sqlite", Section: "cache"},
		{Name: "cache.path", Type: "string", Description: "SQLite cache file, relative to kousei.yaml", Section: "cache"},
		{Name: "cache.ttl", Type: "duration", Description: "How long verdicts are kept", Section: "cache"},
		{Name: "cache.max_size", Type: "int", Description: "Entries kept by the memory cache", Section: "cache"},

		{Name: "server.addr", Type: "string", Description: "Listen address of `kousei serve`", Section: "server"},
		{Name: "server.read_timeout", Type: "duration", Description: "HTTP read timeout", Section: "server"},
		{Name: "server.write_timeout", Type: "duration", Description: "HTTP write timeout", Section: "server"},
		{Name: "server.shutdown_timeout", Type: "duration", Description: "Grace period for in-flight requests", Section: "server"},
		{Name: "server.max_body_bytes", Type: "int", Description: "Largest accepted request body", Section: "server"},
	}
}

var sectionTitles = []struct{ key, title, intro string }{
	{"general", "General", "What to check and how strictly."},
	{"llm", "LLM", "The backend used by candidate validation. Any OpenAI-compatible server works, including local ones."},
	{"validation", "Validation", "How candidates are batched and sent to the LLM."},
	{"cache", "Cache", "Verdicts are cached by rule, matched text and context."},
	{"server", "Server", "Settings of the HTTP API."},
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()
	defaults := config.Defaults()

	w.Frontmatter("Configuration", "kousei configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("kousei is configured via `kousei.yaml`, searched for upward from the working directory. " +
		"Settings are layered, lowest precedence first: defaults, the config file, " +
		InlineCode(config.EnvPrefix+"*") + " environment variables and command-line flags.")

	fields := getConfigSchema()
	for _, sec := range sectionTitles {
		w.Header(2, sec.title)
		w.Paragraph(sec.intro)

		var rows [][]string
		for _, f := range fields {
			if f.Section != sec.key {
				continue
			}
			defVal := "-"
			if v, ok := defaults[f.Name]; ok {
				defVal = InlineCode(fmt.Sprint(v))
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Rules")
	w.Paragraph("Each rule can be configured under `rules.<rule-id>`. Unset fields keep the rule's default or the mode's adjustment.")
	w.Table([]string{"Field", "Type", "Description"}, [][]string{
		{InlineCode("enabled"), "bool", "Run the rule"},
		{InlineCode("severity"), "string", "error, warning or info"},
		{InlineCode("skip_dialogue"), "bool", "Ignore text inside 「」 and 『』"},
		{InlineCode("options"), "map", "Rule-specific options, see the rule reference"},
	})

	w.Header(2, "Dictionaries")
	w.Paragraph("User dictionaries extend the built-in rule dictionaries. Top-level keys:")
	w.BulletList([]string{
		InlineCode("redundant") + ": redundant expressions and their replacement",
		InlineCode("variants") + ": notation variant groups",
		InlineCode("counters") + ": nouns and the counters they take",
		InlineCode("homophones") + ": homophone sets with usage hints",
		InlineCode("replace_defaults") + ": drop the built-in entries instead of extending them",
	})

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", fullExample(defaults))

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// fullExample renders every default as a commented kousei.yaml.
func fullExample(defaults map[string]any) string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# kousei.yaml\nmode: official\nguidelines: [koyobun, okurigana]\ndictionaries: [./dict.yaml]\n\nrules:\n  sentence-length:\n    severity: info\n    options:\n      max_length: 80\n")
	section := ""
	for _, k := range keys {
		parent, leaf, _ := strings.Cut(k, ".")
		if parent != section {
			section = parent
			fmt.Fprintf(&b, "\n%s:\n", parent)
		}
		fmt.Fprintf(&b, "  %s: %v\n", leaf, defaults[k])
	}
	return b.String()
}
