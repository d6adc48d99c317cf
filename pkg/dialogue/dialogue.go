// Package dialogue finds spans of quoted speech in Japanese prose.
//
// A single left-to-right scan tracks nesting of 「」 and 『』. Everything
// between an outermost opening bracket and its matching close is dialogue;
// the outermost bracket glyphs are not. An opening bracket that is never
// closed keeps the rest of the text in dialogue, ending at end-of-text.
package dialogue

import (
	"sort"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// Bracket glyphs.
const (
	SingleOpen  = '「'
	SingleClose = '」'
	DoubleOpen  = '『'
	DoubleClose = '』'
)

// ProblemKind classifies a bracket problem.
type ProblemKind int

// Bracket problems.
const (
	// NestedSingle is a 「」 pair directly inside another 「」 pair.
	NestedSingle ProblemKind = iota + 1
	// EmptyPair is an opening bracket immediately followed by its close.
	EmptyPair
	// UnmatchedOpen is an opening bracket that is never closed.
	UnmatchedOpen
	// UnmatchedClose is a closing bracket with no opening bracket.
	UnmatchedClose
)

// String returns a short identifier for the problem kind.
func (k ProblemKind) String() string {
	switch k {
	case NestedSingle:
		return "nested-single"
	case EmptyPair:
		return "empty-pair"
	case UnmatchedOpen:
		return "unmatched-open"
	case UnmatchedClose:
		return "unmatched-close"
	default:
		return "unknown"
	}
}

// Problem is a bracket problem found during the scan. From and To are rune
// offsets; Fix is set when a mechanical correction exists.
type Problem struct {
	Kind ProblemKind
	From int
	To   int
	Fix  *core.Fix
}

// Span is a half-open rune range of dialogue.
type Span struct {
	Start int
	End   int
}

// Mask is the result of scanning a text for dialogue.
type Mask struct {
	spans    []Span
	problems []Problem
}

type frame struct {
	open rune
	pos  int
}

func closerFor(open rune) rune {
	if open == DoubleOpen {
		return DoubleClose
	}
	return SingleClose
}

// NewMask scans text and returns its dialogue mask.
func NewMask(text string) *Mask {
	runes := []rune(text)
	m := &Mask{}
	var stack []frame
	spanStart := 0

	for i, r := range runes {
		switch r {
		case SingleOpen, DoubleOpen:
			if len(stack) == 0 {
				spanStart = i + 1
			}
			stack = append(stack, frame{open: r, pos: i})

		case SingleClose, DoubleClose:
			match := -1
			for j := len(stack) - 1; j >= 0; j-- {
				if closerFor(stack[j].open) == r {
					match = j
					break
				}
			}
			if match < 0 {
				m.problems = append(m.problems, Problem{Kind: UnmatchedClose, From: i, To: i + 1})
				continue
			}
			// Openers above the match are abandoned by this close.
			for j := len(stack) - 1; j > match; j-- {
				m.problems = append(m.problems, Problem{Kind: UnmatchedOpen, From: stack[j].pos, To: stack[j].pos + 1})
			}
			f := stack[match]
			stack = stack[:match]

			if i == f.pos+1 {
				m.problems = append(m.problems, Problem{Kind: EmptyPair, From: f.pos, To: i + 1})
			}
			if f.open == SingleOpen && len(stack) > 0 && stack[len(stack)-1].open == SingleOpen {
				inner := string(runes[f.pos+1 : i])
				m.problems = append(m.problems, Problem{
					Kind: NestedSingle,
					From: f.pos,
					To:   i + 1,
					Fix: &core.Fix{
						Replacement: string(DoubleOpen) + inner + string(DoubleClose),
						Label:       "『』に置き換える",
					},
				})
			}

			if len(stack) == 0 {
				m.spans = append(m.spans, Span{Start: spanStart, End: i})
			}
		}
	}

	for _, f := range stack {
		m.problems = append(m.problems, Problem{Kind: UnmatchedOpen, From: f.pos, To: f.pos + 1})
	}
	if len(stack) > 0 {
		m.spans = append(m.spans, Span{Start: spanStart, End: len(runes)})
	}

	sort.SliceStable(m.problems, func(a, b int) bool {
		return m.problems[a].From < m.problems[b].From
	})
	return m
}

// InDialogue reports whether the rune at offset lies inside dialogue.
func (m *Mask) InDialogue(offset int) bool {
	if m == nil {
		return false
	}
	i := sort.Search(len(m.spans), func(i int) bool {
		return m.spans[i].End > offset
	})
	return i < len(m.spans) && offset >= m.spans[i].Start
}

// Spans returns the dialogue spans in text order.
func (m *Mask) Spans() []Span {
	return m.spans
}

// Problems returns the bracket problems ordered by position.
func (m *Mask) Problems() []Problem {
	return m.problems
}

// IsInDialogue is a convenience wrapper that scans text and checks offset.
// Rules checking many offsets should build one Mask instead.
func IsInDialogue(text string, offset int) bool {
	return NewMask(text).InDialogue(offset)
}
