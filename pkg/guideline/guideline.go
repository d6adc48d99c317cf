// Package guideline describes the style standards rules enforce and the
// correction modes that select among them.
//
// A Catalog holds guidelines in priority order together with the mode
// presets. A RuleMap says which guidelines each rule enforces; rules with no
// entry, or whose entries are all unknown to the catalog, are
// guideline-independent and always eligible.
package guideline

import (
	"slices"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// ID identifies an authoritative style standard.
type ID string

// Known guidelines, in default priority order.
const (
	Koyobun         ID = "koyobun"
	Okurigana       ID = "okurigana"
	Gairaigo        ID = "gairaigo"
	JoyoKanji       ID = "joyo-kanji"
	JTF             ID = "jtf"
	NovelConvention ID = "novel-convention"
)

// Guideline is a named style standard.
type Guideline struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Reference string `json:"reference"`

	// Severities suggests a severity per rule ID for rules enforcing this
	// guideline.
	Severities map[string]core.Severity `json:"severities,omitempty"`
}

// Catalog is the set of known guidelines and modes.
type Catalog struct {
	guidelines []Guideline // priority order
	modes      []Mode
}

// NewCatalog builds a catalog. The order of guidelines is their priority.
func NewCatalog(guidelines []Guideline, modes []Mode) *Catalog {
	return &Catalog{
		guidelines: slices.Clone(guidelines),
		modes:      slices.Clone(modes),
	}
}

// Guidelines returns all guidelines in priority order.
func (c *Catalog) Guidelines() []Guideline {
	return slices.Clone(c.guidelines)
}

// Guideline looks up a guideline by ID.
func (c *Catalog) Guideline(id ID) (Guideline, bool) {
	for _, g := range c.guidelines {
		if g.ID == id {
			return g, true
		}
	}
	return Guideline{}, false
}

// Has reports whether id is a known guideline.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.Guideline(id)
	return ok
}

// IDs returns the IDs of all guidelines in priority order.
func (c *Catalog) IDs() []ID {
	ids := make([]ID, len(c.guidelines))
	for i, g := range c.guidelines {
		ids[i] = g.ID
	}
	return ids
}

// Modes returns all correction modes.
func (c *Catalog) Modes() []Mode {
	return slices.Clone(c.modes)
}

// Mode looks up a correction mode by ID.
func (c *Catalog) Mode(id ModeID) (Mode, bool) {
	for _, m := range c.modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// Eligible reports whether ruleID may run under the active guidelines.
// A nil active list places no restriction.
func (c *Catalog) Eligible(ruleID string, rules RuleMap, active []ID) bool {
	if active == nil {
		return true
	}
	known := c.known(rules[ruleID])
	if len(known) == 0 {
		return true
	}
	for _, id := range known {
		if slices.Contains(active, id) {
			return true
		}
	}
	return false
}

// SuggestedSeverity returns the severity suggested for ruleID by the first
// guideline, in priority order, that both applies to the rule and names a
// severity for it. Priority follows the order of active, or the catalog order
// when active is nil.
func (c *Catalog) SuggestedSeverity(ruleID string, rules RuleMap, active []ID) (core.Severity, bool) {
	order := active
	if order == nil {
		order = c.IDs()
	}
	mapped := rules[ruleID]
	for _, id := range order {
		if len(mapped) > 0 && !slices.Contains(mapped, id) {
			continue
		}
		g, ok := c.Guideline(id)
		if !ok {
			continue
		}
		if sev, ok := g.Severities[ruleID]; ok {
			return sev, true
		}
	}
	return core.SeverityWarning, false
}

// Reference returns the citation text of a guideline, or "".
func (c *Catalog) Reference(id ID) string {
	g, _ := c.Guideline(id)
	return g.Reference
}

func (c *Catalog) known(ids []ID) []ID {
	var out []ID
	for _, id := range ids {
		if c.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// ParseIDs converts strings to guideline IDs, dropping blanks.
func ParseIDs(values []string) []ID {
	if values == nil {
		return nil
	}
	out := make([]ID, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, ID(v))
		}
	}
	return out
}
