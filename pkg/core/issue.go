package core

import "sort"

// =============================================================================
// Issues
// =============================================================================

// ValidationState records what the candidate validator concluded about an issue.
type ValidationState string

// Validation states. The zero value means the issue never went through validation.
const (
	ValidationNone       ValidationState = ""
	ValidationConfirmed  ValidationState = "confirmed"
	ValidationUnverified ValidationState = "unverified"
)

// Issue is a single finding reported by a lint rule.
//
// From and To form a half-open range [From, To) counted in runes (Unicode code
// points) of the text the rule was run against.
type Issue struct {
	RuleID           string          `json:"rule_id"`
	Severity         Severity        `json:"severity"`
	Message          string          `json:"message"`
	LocalizedMessage string          `json:"localized_message,omitempty"`
	From             int             `json:"from"`
	To               int             `json:"to"`
	Reference        string          `json:"reference,omitempty"` // Citation to a style standard
	Fix              *Fix            `json:"fix,omitempty"`
	Validation       ValidationState `json:"validation,omitempty"`
}

// Fix is a suggested replacement for the issue range.
type Fix struct {
	Replacement string `json:"replacement"`
	Label       string `json:"label,omitempty"`
}

// Len returns the number of runes covered by the issue.
func (i Issue) Len() int {
	return i.To - i.From
}

// Contains reports whether offset lies inside the issue range.
func (i Issue) Contains(offset int) bool {
	return offset >= i.From && offset < i.To
}

// Clamp forces the range into [0, n] and keeps From <= To.
func (i *Issue) Clamp(n int) {
	if i.From < 0 {
		i.From = 0
	}
	if i.From > n {
		i.From = n
	}
	if i.To > n {
		i.To = n
	}
	if i.To < i.From {
		i.To = i.From
	}
}

// ParagraphIssues groups the issues of one paragraph of a document.
type ParagraphIssues struct {
	Paragraph int     `json:"paragraph"`
	Issues    []Issue `json:"issues"`
}

// SortIssues orders issues by position, then by rule ID.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		if issues[a].From != issues[b].From {
			return issues[a].From < issues[b].From
		}
		if issues[a].To != issues[b].To {
			return issues[a].To < issues[b].To
		}
		return issues[a].RuleID < issues[b].RuleID
	})
}
