package style

import (
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/lint/internal/scan"
)

func init() {
	lint.RegisterDef(RedundantExpressionDef)
}

// RedundantExpression is a phrase that states the same meaning twice.
type RedundantExpression struct {
	Pattern     string `yaml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`
	Note        string `yaml:"note,omitempty" json:"note,omitempty"`
}

// DefaultRedundantExpressions is the built-in dictionary.
var DefaultRedundantExpressions = []RedundantExpression{
	{Pattern: "頭痛が痛い", Replacement: "頭が痛い"},
	{Pattern: "馬から落馬", Replacement: "落馬"},
	{Pattern: "後で後悔", Replacement: "後悔"},
	{Pattern: "一番最初", Replacement: "最初"},
	{Pattern: "一番最後", Replacement: "最後"},
	{Pattern: "違和感を感じる", Replacement: "違和感を覚える"},
	{Pattern: "必ず必要", Replacement: "必要"},
	{Pattern: "まだ未定", Replacement: "未定"},
	{Pattern: "元旦の朝", Replacement: "元旦", Note: "元旦は元日の朝"},
	{Pattern: "被害を被る", Replacement: "被害を受ける"},
	{Pattern: "あらかじめ予約", Replacement: "予約"},
	{Pattern: "過半数を超える", Replacement: "過半数を占める"},
	{Pattern: "各国ごと", Replacement: "国ごと"},
	{Pattern: "返事を返す", Replacement: "返事をする"},
	{Pattern: "思いがけないハプニング", Replacement: "ハプニング"},
}

// RedundantExpressionDef checks the built-in dictionary.
var RedundantExpressionDef = RedundantExpressionRule(DefaultRedundantExpressions)

// RedundantExpressionRule builds the redundant-expression rule over dict.
func RedundantExpressionRule(dict []RedundantExpression) lint.RuleDef {
	entries := make([]scan.Entry, 0, len(dict))
	for _, e := range dict {
		entries = append(entries, scan.Entry{Pattern: e.Pattern, Replacement: e.Replacement, Note: e.Note})
	}
	matcher := scan.NewMatcher(entries)

	return lint.RuleDef{
		ID:          "redundant-expression",
		Name:        "重言",
		Group:       "style",
		Description: "Phrases that repeat their own meaning (頭痛が痛い → 頭が痛い).",
		Level:       core.LevelText,
		Severity:    core.SeverityWarning,
		Check: func(text string, cfg core.RuleConfig) []core.Issue {
			var issues []core.Issue
			for _, m := range matcher.FindAll(text) {
				localized := "重言です。「" + m.Replacement + "」で十分です。"
				if m.Note != "" {
					localized += "（" + m.Note + "）"
				}
				iss := lint.NewIssue("redundant-expression", cfg, m.From, m.To,
					"Redundant expression: "+m.Pattern+" can be "+m.Replacement,
					localized)
				iss.Fix = &core.Fix{Replacement: m.Replacement, Label: "「" + m.Replacement + "」に直す"}
				issues = append(issues, iss)
			}
			return issues
		},
		BadExample:  "頭痛が痛いので休みます。",
		GoodExample: "頭が痛いので休みます。",
	}
}
