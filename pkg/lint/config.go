package lint

import (
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
)

// Runner owns a set of rules, their configuration and the guideline state,
// and executes rules against text.
//
// A Runner is safe for concurrent use: configuration writes take the write
// lock and therefore never interleave with a lint pass.
type Runner struct {
	mu sync.RWMutex

	rules       map[string]Rule
	userPatches map[string]core.RuleConfigPatch

	catalog *guideline.Catalog
	ruleMap guideline.RuleMap

	active    []guideline.ID // nil = no restriction
	activeSet bool
	mode      guideline.ModeID

	tokenizer Tokenizer
	logger    *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTokenizer sets the tokenizer used for L2/L3 rules.
func WithTokenizer(t Tokenizer) RunnerOption {
	return func(r *Runner) { r.tokenizer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCatalog replaces the guideline catalog.
func WithCatalog(c *guideline.Catalog) RunnerOption {
	return func(r *Runner) {
		if c != nil {
			r.catalog = c
		}
	}
}

// WithGuidelineMap replaces the rule to guideline mapping.
func WithGuidelineMap(m guideline.RuleMap) RunnerOption {
	return func(r *Runner) { r.ruleMap = m.Clone() }
}

// WithRules registers rules at construction time.
func WithRules(rules ...Rule) RunnerOption {
	return func(r *Runner) {
		for _, rule := range rules {
			r.rules[rule.ID()] = rule
		}
	}
}

// WithMode selects the initial correction mode.
func WithMode(id guideline.ModeID) RunnerOption {
	return func(r *Runner) { r.mode = id }
}

// NewRunner creates a Runner with the default guideline catalog and mapping
// and no rules. Pass WithRules(All()...) for the built-in rules.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		rules:       make(map[string]Rule),
		userPatches: make(map[string]core.RuleConfigPatch),
		catalog:     guideline.DefaultCatalog(),
		ruleMap:     guideline.DefaultRuleMap(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// =============================================================================
// Rules
// =============================================================================

// RegisterRule adds rule, replacing any earlier rule with the same ID.
func (r *Runner) RegisterRule(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
}

// Rules returns the registered rules ordered by ID.
func (r *Runner) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedRules()
}

// Rule returns the rule with the given ID.
func (r *Runner) Rule(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// RuleInfos describes every registered rule, including the guidelines it
// enforces.
func (r *Runner) RuleInfos() []core.RuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := r.sortedRules()
	infos := make([]core.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		info := GetRuleInfo(rule)
		for _, id := range r.ruleMap[rule.ID()] {
			info.Guidelines = append(info.Guidelines, string(id))
		}
		infos = append(infos, info)
	}
	return infos
}

func (r *Runner) sortedRules() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// =============================================================================
// Configuration
// =============================================================================

// SetConfig merges patch into the user configuration of ruleID. Fields left
// nil in patch keep their current value.
func (r *Runner) SetConfig(ruleID string, patch core.RuleConfigPatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userPatches[ruleID] = r.userPatches[ruleID].Merge(patch)
}

// ResetConfig drops all user configuration for ruleID.
func (r *Runner) ResetConfig(ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.userPatches, ruleID)
}

// Config returns the effective configuration of ruleID under the current
// mode and active guidelines.
func (r *Runner) Config(ruleID string) (core.RuleConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[ruleID]
	if !ok {
		return core.RuleConfig{}, false
	}
	return r.resolve(rule, r.currentPass()), true
}

// SetActiveGuidelines restricts rules to those enforcing one of ids. Nil
// removes the restriction. Once called, the mode's default guidelines no
// longer apply.
func (r *Runner) SetActiveGuidelines(ids []guideline.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = slices.Clone(ids)
	r.activeSet = true
}

// ActiveGuidelines returns the guidelines in effect; nil means all.
func (r *Runner) ActiveGuidelines() []guideline.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.currentPass().active)
}

// SetGuidelineMap replaces the rule to guideline mapping.
func (r *Runner) SetGuidelineMap(m guideline.RuleMap) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ruleMap = m.Clone()
}

// SetMode selects a correction mode. Unknown modes are tolerated and behave
// like no mode.
func (r *Runner) SetMode(id guideline.ModeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.catalog.Mode(id); !ok && id != "" {
		r.logger.Debug("unknown correction mode", slog.String("mode", string(id)))
	}
	r.mode = id
}

// Mode returns the current correction mode ID.
func (r *Runner) Mode() guideline.ModeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Catalog returns the guideline catalog.
func (r *Runner) Catalog() *guideline.Catalog {
	return r.catalog
}

// HasMorphologicalRules reports whether any enabled, eligible rule needs
// tokens. Callers use it to skip tokenization entirely.
func (r *Runner) HasMorphologicalRules() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pr := range r.plan(r.currentPass()) {
		if pr.rule.Level().NeedsTokens() && !IsDocumentRule(pr.rule) {
			return true
		}
	}
	return false
}

// =============================================================================
// Pass state
// =============================================================================

// pass captures the guideline state of one lint pass.
type pass struct {
	active  []guideline.ID
	mode    guideline.Mode
	hasMode bool
}

func (r *Runner) currentPass() pass {
	return r.passFor(r.active, r.activeSet, r.mode)
}

func (r *Runner) passFor(active []guideline.ID, explicit bool, modeID guideline.ModeID) pass {
	p := pass{active: active}
	if m, ok := r.catalog.Mode(modeID); ok {
		p.mode, p.hasMode = m, true
		if !explicit {
			p.active = m.Guidelines
		}
	}
	return p
}

// resolve computes the effective configuration of rule. Precedence, lowest
// first: rule default, mode patch, guideline suggested severity, user patch.
// The guideline severity only applies when guidelines are restricted and
// neither the mode nor the user pinned a severity.
func (r *Runner) resolve(rule Rule, p pass) core.RuleConfig {
	id := rule.ID()
	cfg := rule.DefaultConfig()
	pinned := false

	if p.hasMode {
		if patch, ok := p.mode.Patch(id); ok {
			cfg = patch.Apply(cfg)
			pinned = patch.Severity != nil
		}
	}

	user, hasUser := r.userPatches[id]
	if hasUser && user.Severity != nil {
		pinned = true
	}

	if !pinned && p.active != nil {
		if sev, ok := r.catalog.SuggestedSeverity(id, r.ruleMap, p.active); ok {
			cfg.Severity = sev
		}
	}

	if hasUser {
		cfg = user.Apply(cfg)
	}
	return cfg
}

type plannedRule struct {
	rule Rule
	cfg  core.RuleConfig
}

// plan returns the enabled, guideline-eligible rules with their effective
// configuration, ordered by ID.
func (r *Runner) plan(p pass) []plannedRule {
	var out []plannedRule
	for _, rule := range r.sortedRules() {
		cfg := r.resolve(rule, p)
		if !cfg.Enabled {
			continue
		}
		if !r.catalog.Eligible(rule.ID(), r.ruleMap, p.active) {
			continue
		}
		out = append(out, plannedRule{rule: rule, cfg: cfg})
	}
	return out
}
