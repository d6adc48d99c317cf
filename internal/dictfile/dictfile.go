// Package dictfile loads user dictionaries from YAML and turns them into
// rules that replace the built-in dictionary rules.
//
// A dictionary file looks like:
//
//	replace_defaults: false
//	counters:
//	  - counter: 人
//	    invalid_nouns: [ハムスター]
//	    suggested: 匹
//	redundant:
//	  - pattern: 各都道府県ごと
//	    replacement: 都道府県ごと
//	variants:
//	  - category: katakana
//	    variants: [プリンター, プリンタ]
//	homophones:
//	  - reading: こうせい
//	    words: [校正, 構成, 更正]
//
// Entries extend the built-in dictionaries unless replace_defaults is set.
package dictfile

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/lint/rules/grammar"
	"github.com/leapstack-labs/kousei/pkg/lint/rules/notation"
	"github.com/leapstack-labs/kousei/pkg/lint/rules/semantic"
	"github.com/leapstack-labs/kousei/pkg/lint/rules/style"
)

// Dictionary is the merged content of one or more dictionary files.
type Dictionary struct {
	ReplaceDefaults bool                        `yaml:"replace_defaults"`
	Counters        []grammar.CounterMismatch   `yaml:"counters"`
	Redundant       []style.RedundantExpression `yaml:"redundant"`
	Variants        []notation.VariantGroup     `yaml:"variants"`
	Homophones      []semantic.HomophoneSet     `yaml:"homophones"`
}

// IsEmpty reports whether the dictionary has no entries.
func (d *Dictionary) IsEmpty() bool {
	return len(d.Counters) == 0 && len(d.Redundant) == 0 && len(d.Variants) == 0 && len(d.Homophones) == 0
}

var knownFields = map[string]bool{
	"replace_defaults": true,
	"counters":         true,
	"redundant":        true,
	"variants":         true,
	"homophones":       true,
}

// ParseError reports a malformed dictionary.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// UnknownFieldError reports a top-level key that is not a dictionary section.
type UnknownFieldError struct {
	File  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown dictionary section %q", e.Field)
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

// Parse decodes and checks a single dictionary.
func Parse(content []byte) (*Dictionary, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	for field := range raw {
		if !knownFields[field] {
			return nil, &UnknownFieldError{Field: field}
		}
	}

	var d Dictionary
	if err := yaml.Unmarshal(content, &d); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to parse dictionary: %v", err)}
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Dictionary) check() error {
	var problems []string
	for i, c := range d.Counters {
		if c.Counter == "" || c.Suggested == "" || len(c.InvalidNouns) == 0 {
			problems = append(problems, fmt.Sprintf("counters[%d]: counter, invalid_nouns and suggested are required", i))
		}
	}
	for i, r := range d.Redundant {
		if r.Pattern == "" {
			problems = append(problems, fmt.Sprintf("redundant[%d]: pattern is required", i))
		}
	}
	for i, v := range d.Variants {
		if len(v.Variants) < 2 {
			problems = append(problems, fmt.Sprintf("variants[%d]: at least two variants are required", i))
		}
		if _, ok := notation.References[v.Category]; !ok && v.Category != "" {
			problems = append(problems, fmt.Sprintf("variants[%d]: unknown category %q", i, v.Category))
		}
	}
	for i, h := range d.Homophones {
		if len(h.Words) < 2 {
			problems = append(problems, fmt.Sprintf("homophones[%d]: at least two words are required", i))
		}
	}
	if len(problems) > 0 {
		return &ParseError{Message: strings.Join(problems, "; ")}
	}
	return nil
}

// Load reads and merges dictionary files in order. replace_defaults in any
// file applies to the merged result.
func Load(paths ...string) (*Dictionary, error) {
	merged := &Dictionary{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary: %w", err)
		}
		d, err := Parse(content)
		if err != nil {
			switch e := err.(type) {
			case *ParseError:
				e.File = path
			case *UnknownFieldError:
				e.File = path
			}
			return nil, err
		}
		merged.ReplaceDefaults = merged.ReplaceDefaults || d.ReplaceDefaults
		merged.Counters = append(merged.Counters, d.Counters...)
		merged.Redundant = append(merged.Redundant, d.Redundant...)
		merged.Variants = append(merged.Variants, d.Variants...)
		merged.Homophones = append(merged.Homophones, d.Homophones...)
	}
	return merged, nil
}

// Rules builds a rule for every dictionary section that has entries. User
// entries are placed before the built-in ones.
func (d *Dictionary) Rules() []lint.Rule {
	var out []lint.Rule
	if len(d.Counters) > 0 {
		out = append(out, lint.WrapRuleDef(grammar.CounterMismatchRule(
			withDefaults(d.ReplaceDefaults, d.Counters, grammar.DefaultCounterMismatches))))
	}
	if len(d.Redundant) > 0 {
		out = append(out, lint.WrapRuleDef(style.RedundantExpressionRule(
			withDefaults(d.ReplaceDefaults, d.Redundant, style.DefaultRedundantExpressions))))
	}
	if len(d.Variants) > 0 {
		out = append(out, lint.WrapRuleDef(notation.ConsistencyRule(
			withDefaults(d.ReplaceDefaults, d.Variants, notation.DefaultVariantGroups))))
	}
	if len(d.Homophones) > 0 {
		out = append(out, lint.WrapRuleDef(semantic.HomophoneRule(
			withDefaults(d.ReplaceDefaults, d.Homophones, semantic.DefaultHomophoneSets))))
	}
	return out
}

func withDefaults[T any](replace bool, user, defaults []T) []T {
	if replace {
		return slices.Clone(user)
	}
	return slices.Concat(user, defaults)
}

// Register loads the files and registers their rules on runner, replacing
// the built-in rules with the same IDs. It returns the IDs it replaced.
func Register(runner *lint.Runner, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	d, err := Load(paths...)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, rule := range d.Rules() {
		runner.RegisterRule(rule)
		ids = append(ids, rule.ID())
	}
	return ids, nil
}
