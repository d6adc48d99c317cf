// Package scriptrule loads user-defined lint rules written in Starlark.
//
// A rule script declares its metadata in a global dict named rule and a
// check function:
//
//	rule = {
//	    "id": "sasete-itadaku",
//	    "name": "させていただく",
//	    "group": "style",
//	    "description": "Flags the overly humble させていただく.",
//	    "severity": "info",
//	}
//
//	def check(text, options):
//	    return [
//	        {"from": f, "to": t, "message": "consider いたします", "replacement": "いたし"}
//	        for f, t in find_all(text, "させていただ")
//	    ]
//
// Defining check_tokens(text, tokens, options) instead makes a morphological
// (L2) rule whose tokens arrive as dicts. All offsets are rune offsets; the
// find_all, rune_len and sentences builtins compute them.
package scriptrule

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
)

// DefaultMaxSteps bounds the work one check call may do.
const DefaultMaxSteps = 1_000_000

// Option configures Load.
type Option func(*loader)

// WithLogger sets the logger used for script output and runtime errors.
func WithLogger(l *slog.Logger) Option {
	return func(ld *loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithMaxSteps overrides DefaultMaxSteps.
func WithMaxSteps(n uint64) Option {
	return func(ld *loader) {
		if n > 0 {
			ld.maxSteps = n
		}
	}
}

type loader struct {
	logger   *slog.Logger
	maxSteps uint64
	pool     *threadPool
}

// Load compiles the rule scripts at paths. A script that fails to load, or
// two scripts declaring the same rule ID, fail the whole load.
func Load(paths []string, opts ...Option) ([]lint.Rule, error) {
	l := &loader{
		logger:   slog.New(slog.DiscardHandler),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.pool = newThreadPool(0)

	rules := make([]lint.Rule, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule script %s: %w", path, err)
		}
		def, err := l.compile(path, src)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.ID]; ok {
			return nil, fmt.Errorf("rule %q is defined in both %s and %s", def.ID, prev, path)
		}
		seen[def.ID] = path
		rules = append(rules, lint.WrapRuleDef(def))
	}
	return rules, nil
}

func (l *loader) compile(path string, src []byte) (lint.RuleDef, error) {
	thread := &starlark.Thread{
		Name:  path,
		Print: l.printer(path),
	}
	thread.SetMaxExecutionSteps(l.maxSteps)

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, src, predeclared())
	if err != nil {
		return lint.RuleDef{}, fmt.Errorf("failed to load rule script %s: %w", path, err)
	}
	// Frozen globals can be shared by concurrent check calls.
	globals.Freeze()

	def, err := parseMeta(globals["rule"])
	if err != nil {
		return lint.RuleDef{}, fmt.Errorf("%s: %w", path, err)
	}

	if def.DocURL == "" {
		def.DocURL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	}

	s := &script{path: path, id: def.ID, loader: l}
	check, hasCheck := globals["check"].(starlark.Callable)
	checkTokens, hasTokens := globals["check_tokens"].(starlark.Callable)
	switch {
	case hasCheck && hasTokens:
		return lint.RuleDef{}, fmt.Errorf("%s: define either check or check_tokens, not both", path)
	case hasCheck:
		def.Level = core.LevelText
		def.Check = func(text string, cfg core.RuleConfig) []core.Issue {
			return s.run(check, text, nil, false, cfg)
		}
	case hasTokens:
		def.Level = core.LevelMorphological
		def.CheckTokens = func(text string, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
			return s.run(checkTokens, text, tokens, true, cfg)
		}
	default:
		return lint.RuleDef{}, fmt.Errorf("%s: no check or check_tokens function", path)
	}
	return def, nil
}

func (l *loader) printer(path string) func(*starlark.Thread, string) {
	return func(_ *starlark.Thread, msg string) {
		l.logger.Debug("rule script output", "file", path, "msg", msg)
	}
}

// parseMeta turns the rule dict into a RuleDef without check functions.
func parseMeta(v starlark.Value) (lint.RuleDef, error) {
	if v == nil {
		return lint.RuleDef{}, errors.New("missing rule dict")
	}
	if _, ok := v.(*starlark.Dict); !ok {
		return lint.RuleDef{}, fmt.Errorf("rule must be a dict, got %s", v.Type())
	}
	raw, err := fromStarlark(v)
	if err != nil {
		return lint.RuleDef{}, fmt.Errorf("rule: %w", err)
	}
	m := raw.(map[string]any)

	str := func(key, def string) string {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
		return def
	}

	def := lint.RuleDef{
		ID:          str("id", ""),
		Group:       str("group", "custom"),
		Description: str("description", ""),
		Severity:    core.SeverityWarning,
		Rationale:   str("rationale", ""),
		BadExample:  str("bad_example", ""),
		GoodExample: str("good_example", ""),
		DocURL:      str("doc_url", ""),
	}
	if def.ID == "" {
		return lint.RuleDef{}, errors.New(`rule["id"] is required`)
	}
	def.Name = str("name", def.ID)

	if s, ok := m["severity"].(string); ok {
		sev, ok := core.ParseSeverity(s)
		if !ok {
			return lint.RuleDef{}, fmt.Errorf("unknown severity %q", s)
		}
		def.Severity = sev
	}
	if b, ok := m["skip_dialogue"].(bool); ok {
		def.SkipDialogue = b
	}
	if opts, ok := m["options"].(map[string]any); ok {
		def.Options = opts
		for k := range opts {
			def.ConfigKeys = append(def.ConfigKeys, k)
		}
	}
	return def, nil
}

// script runs one compiled check function.
type script struct {
	path   string
	id     string
	loader *loader
}

// run calls fn and converts its result to issues. Script errors are logged
// and yield no issues.
func (s *script) run(fn starlark.Callable, text string, tokens []core.Token, withTokens bool, cfg core.RuleConfig) []core.Issue {
	opts, err := optionsDict(cfg.Options)
	if err != nil {
		s.loader.logger.Warn("rule script options not convertible", "rule", s.id, "error", err)
		opts = starlark.NewDict(0)
	}

	args := starlark.Tuple{starlark.String(text)}
	if withTokens {
		args = append(args, tokensToStarlark(tokens))
	}
	args = append(args, opts)

	thread := s.loader.pool.Get(s.path, s.loader)
	result, err := starlark.Call(thread, fn, args, nil)
	if err != nil {
		// A thread that hit the step limit stays cancelled; drop it.
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			err = errors.New(evalErr.Backtrace())
		}
		s.loader.logger.Error("rule script failed", "rule", s.id, "file", s.path, "error", err)
		return nil
	}
	s.loader.pool.Put(thread)

	issues, err := toIssues(result)
	if err != nil {
		s.loader.logger.Error("rule script returned an invalid result", "rule", s.id, "file", s.path, "error", err)
		return nil
	}
	return issues
}

// toIssues converts the list returned by a check function.
func toIssues(v starlark.Value) ([]core.Issue, error) {
	if v == starlark.None {
		return nil, nil
	}
	raw, err := fromStarlark(v)
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("check must return a list, got %s", v.Type())
	}

	issues := make([]core.Issue, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d: want a dict, got %T", i, item)
		}
		from, okFrom := m["from"].(int64)
		to, okTo := m["to"].(int64)
		if !okFrom || !okTo {
			return nil, fmt.Errorf("item %d: from and to must be ints", i)
		}
		if to <= from {
			continue
		}
		is := core.Issue{From: int(from), To: int(to)}
		is.Message, _ = m["message"].(string)
		is.LocalizedMessage, _ = m["localized_message"].(string)
		if repl, ok := m["replacement"].(string); ok {
			label, _ := m["label"].(string)
			is.Fix = &core.Fix{Replacement: repl, Label: label}
		}
		issues = append(issues, is)
	}
	return issues, nil
}
