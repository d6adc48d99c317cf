package lint

import (
	"sort"
	"sync"
)

// globalRegistry holds the built-in rules. Rule packages add to it from
// init() so that importing them is enough to make the rules available.
var globalRegistry = &Registry{
	rules: make(map[string]Rule),
}

// Registry stores rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by ID
}

// Register adds a rule to the global registry, replacing any rule with the
// same ID. Call this from init() functions in rule packages.
func Register(rule Rule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID()] = rule
}

// RegisterDef wraps def and registers it.
func RegisterDef(def RuleDef) {
	Register(WrapRuleDef(def))
}

// All returns all registered rules ordered by ID.
func All() []Rule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]Rule, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (Rule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByGroup returns all rules in a specific group.
func GetByGroup(group string) []Rule {
	var rules []Rule
	for _, rule := range All() {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// IDs returns the IDs of all registered rules, sorted.
func IDs() []string {
	rules := All()
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID()
	}
	return ids
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]Rule)
}
