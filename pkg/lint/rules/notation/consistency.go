package notation

import (
	"slices"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/lint/internal/scan"
)

func init() {
	lint.RegisterDef(ConsistencyDef)
}

// ConsistencyDef checks the built-in variant groups.
var ConsistencyDef = ConsistencyRule(DefaultVariantGroups)

// ConsistencyRule builds the notation-consistency rule over groups.
func ConsistencyRule(groups []VariantGroup) lint.RuleDef {
	matchers := make([]*scan.Matcher, len(groups))
	groups = slices.Clone(groups)
	for gi, g := range groups {
		entries := make([]scan.Entry, len(g.Variants))
		for vi, v := range g.Variants {
			entries[vi] = scan.Entry{Pattern: v, Index: vi}
		}
		matchers[gi] = scan.NewMatcher(entries)
	}

	return lint.RuleDef{
		ID:           "notation-consistency",
		Name:         "表記の揺れ",
		Group:        "notation",
		Description:  "The same word should be spelled the same way throughout a document.",
		Level:        core.LevelText,
		Severity:     core.SeverityWarning,
		SkipDialogue: true,
		CheckDocument: func(paragraphs []string, cfg core.RuleConfig) []core.ParagraphIssues {
			return checkConsistency(groups, matchers, paragraphs, cfg)
		},
		BadExample:  "調査を行う。……分析を行なう。",
		GoodExample: "調査を行う。……分析を行う。",
	}
}

type located struct {
	paragraph int
	match     scan.Match
}

func checkConsistency(groups []VariantGroup, matchers []*scan.Matcher, paragraphs []string, cfg core.RuleConfig) []core.ParagraphIssues {
	byParagraph := make(map[int][]core.Issue)

	for gi, g := range groups {
		counts := make([]int, len(g.Variants))
		var found []located
		for pi, para := range paragraphs {
			matches := matchers[gi].FindAll(para)
			if cfg.SkipDialogue {
				matches = scan.OutsideDialogue(para, matches)
			}
			for _, m := range matches {
				counts[m.Index]++
				found = append(found, located{paragraph: pi, match: m})
			}
		}

		majority, ok := majorityVariant(counts)
		if !ok {
			continue
		}
		want := g.Variants[majority]
		for _, loc := range found {
			if loc.match.Index == majority {
				continue
			}
			got := loc.match.Pattern
			iss := lint.NewIssue("notation-consistency", cfg, loc.match.From, loc.match.To,
				"Inconsistent notation: "+got+" (document mostly uses "+want+")",
				"表記が揺れています。文書内では「"+want+"」が多く使われています。")
			iss.Reference = References[g.Category]
			iss.Fix = &core.Fix{Replacement: want, Label: "「" + want + "」に統一"}
			byParagraph[loc.paragraph] = append(byParagraph[loc.paragraph], iss)
		}
	}

	out := make([]core.ParagraphIssues, 0, len(byParagraph))
	for pi := range paragraphs {
		if issues, ok := byParagraph[pi]; ok {
			out = append(out, core.ParagraphIssues{Paragraph: pi, Issues: issues})
		}
	}
	return out
}

// majorityVariant returns the most used variant index. Ties go to the lower
// index. ok is false when fewer than two variants were seen.
func majorityVariant(counts []int) (int, bool) {
	distinct, best := 0, -1
	for i, c := range counts {
		if c == 0 {
			continue
		}
		distinct++
		if best < 0 || c > counts[best] {
			best = i
		}
	}
	return best, distinct >= 2
}
