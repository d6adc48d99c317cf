package style

import (
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/dialogue"
	"github.com/leapstack-labs/kousei/pkg/lint"
)

func init() {
	lint.RegisterDef(DialogueBrackets)
}

// DialogueBrackets reports bracket problems found by the dialogue mask.
var DialogueBrackets = lint.RuleDef{
	ID:          "dialogue-brackets",
	Name:        "かぎ括弧の使い方",
	Group:       "style",
	Description: "Quotes inside quotes use 『』; brackets must be paired and non-empty.",
	Level:       core.LevelText,
	Severity:    core.SeverityWarning,
	Check:       checkDialogueBrackets,
	BadExample:  "「彼は「行く」と言った」",
	GoodExample: "「彼は『行く』と言った」",
}

var bracketMessages = map[dialogue.ProblemKind][2]string{
	dialogue.NestedSingle:   {"Nested 「」 inside 「」; use 『』", "「」の中の引用には『』を使います。"},
	dialogue.EmptyPair:      {"Empty bracket pair", "括弧の中身が空です。"},
	dialogue.UnmatchedOpen:  {"Opening bracket is never closed", "閉じ括弧がありません。"},
	dialogue.UnmatchedClose: {"Closing bracket without an opening bracket", "対応する開き括弧がありません。"},
}

func checkDialogueBrackets(text string, cfg core.RuleConfig) []core.Issue {
	problems := dialogue.NewMask(text).Problems()
	issues := make([]core.Issue, 0, len(problems))
	for _, p := range problems {
		msg := bracketMessages[p.Kind]
		iss := lint.NewIssue("dialogue-brackets", cfg, p.From, p.To, msg[0], msg[1])
		iss.Fix = p.Fix
		issues = append(issues, iss)
	}
	return issues
}
