// Package textutil holds rune-offset helpers shared by the lint rules.
//
// All offsets produced here count Unicode code points, matching core.Issue
// and core.Token ranges.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether text is empty or whitespace only.
func IsBlank(text string) bool {
	return strings.TrimFunc(text, unicode.IsSpace) == ""
}

// RuneLen returns the number of runes in text.
func RuneLen(text string) int {
	return utf8.RuneCountInString(text)
}

// IndexAll returns the rune offsets of every non-overlapping occurrence of
// needle in haystack, scanning left to right.
func IndexAll(haystack, needle []rune) []int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return nil
	}
	var out []int
	for i := 0; i+len(needle) <= len(haystack); {
		if hasPrefixAt(haystack, needle, i) {
			out = append(out, i)
			i += len(needle)
			continue
		}
		i++
	}
	return out
}

func hasPrefixAt(haystack, needle []rune, at int) bool {
	for j, r := range needle {
		if haystack[at+j] != r {
			return false
		}
	}
	return true
}

// OffsetMap converts byte offsets of a string into rune offsets.
type OffsetMap struct {
	runeAt []int // runeAt[b] is the rune index of the rune starting at or after byte b
}

// NewOffsetMap builds an OffsetMap for text. Invalid UTF-8 bytes count as
// one rune each, the same way a []rune conversion treats them.
func NewOffsetMap(text string) *OffsetMap {
	runeAt := make([]int, len(text)+1)
	idx, next := 0, 0
	for b := range text {
		for ; next < b; next++ {
			runeAt[next] = idx
		}
		runeAt[b] = idx
		idx++
		next = b + 1
	}
	for ; next <= len(text); next++ {
		runeAt[next] = idx
	}
	return &OffsetMap{runeAt: runeAt}
}

// Rune returns the rune offset for byte offset b, clamped to the text.
func (m *OffsetMap) Rune(b int) int {
	if b <= 0 {
		return 0
	}
	if b >= len(m.runeAt) {
		return m.runeAt[len(m.runeAt)-1]
	}
	return m.runeAt[b]
}
