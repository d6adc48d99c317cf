// Package scan provides dictionary matching utilities for lint rules.
package scan

import (
	"sort"

	"github.com/leapstack-labs/kousei/pkg/dialogue"
)

// Entry is one dictionary pattern.
type Entry struct {
	Pattern     string
	Replacement string
	Note        string
	Index       int // caller-defined, e.g. variant position in a group
}

// Match is an occurrence of an Entry in a text, as a rune range.
type Match struct {
	Entry
	From int
	To   int
}

type compiled struct {
	entry Entry
	runes []rune
}

// Matcher finds dictionary patterns using a leftmost-longest scan: at each
// position the longest matching pattern claims its runes, so shorter
// patterns overlapping it are not reported.
type Matcher struct {
	byFirst map[rune][]compiled
}

// NewMatcher compiles entries. Empty patterns are ignored.
func NewMatcher(entries []Entry) *Matcher {
	m := &Matcher{byFirst: make(map[rune][]compiled)}
	for _, e := range entries {
		r := []rune(e.Pattern)
		if len(r) == 0 {
			continue
		}
		m.byFirst[r[0]] = append(m.byFirst[r[0]], compiled{entry: e, runes: r})
	}
	for k := range m.byFirst {
		list := m.byFirst[k]
		sort.SliceStable(list, func(i, j int) bool { return len(list[i].runes) > len(list[j].runes) })
	}
	return m
}

// FindAll returns all non-overlapping matches in text order.
func (m *Matcher) FindAll(text string) []Match {
	runes := []rune(text)
	var out []Match
	for i := 0; i < len(runes); {
		matched := false
		for _, c := range m.byFirst[runes[i]] {
			if hasPrefixAt(runes, c.runes, i) {
				out = append(out, Match{Entry: c.entry, From: i, To: i + len(c.runes)})
				i += len(c.runes)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return out
}

// OutsideDialogue drops matches starting inside dialogue.
func OutsideDialogue(text string, matches []Match) []Match {
	if len(matches) == 0 {
		return matches
	}
	mask := dialogue.NewMask(text)
	out := matches[:0]
	for _, m := range matches {
		if !mask.InDialogue(m.From) {
			out = append(out, m)
		}
	}
	return out
}

func hasPrefixAt(haystack, needle []rune, at int) bool {
	if at+len(needle) > len(haystack) {
		return false
	}
	for j, r := range needle {
		if haystack[at+j] != r {
			return false
		}
	}
	return true
}
