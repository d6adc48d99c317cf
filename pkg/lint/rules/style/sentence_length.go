package style

import (
	"fmt"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/textutil"
)

func init() {
	lint.RegisterDef(SentenceLength)
}

const defaultMaxSentenceLength = 100

// SentenceLength flags sentences longer than max_length runes.
var SentenceLength = lint.RuleDef{
	ID:          "sentence-length",
	Name:        "長すぎる文",
	Group:       "style",
	Description: "Sentences longer than max_length characters are hard to read.",
	Level:       core.LevelText,
	Severity:    core.SeverityInfo,
	Options:     map[string]any{"max_length": defaultMaxSentenceLength},
	ConfigKeys:  []string{"max_length"},
	Check:       checkSentenceLength,
	Rationale:   "一文が長いと主語と述語の対応が分かりにくくなる。",
}

func checkSentenceLength(text string, cfg core.RuleConfig) []core.Issue {
	limit := lint.IntOption(cfg, "max_length", defaultMaxSentenceLength)
	if limit <= 0 {
		return nil
	}

	var issues []core.Issue
	for _, s := range textutil.SplitSentences(text) {
		n := s.End - s.Start
		if n <= limit {
			continue
		}
		issues = append(issues, lint.NewIssue("sentence-length", cfg, s.Start, s.End,
			fmt.Sprintf("Sentence is %d characters long (limit %d)", n, limit),
			fmt.Sprintf("一文が%d文字あります（上限%d文字）。文を分けることを検討してください。", n, limit)))
	}
	return issues
}
