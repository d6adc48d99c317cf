package grammar

import (
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/lint/internal/scan"
)

func init() {
	lint.RegisterDef(RaNuki)
}

// RaNuki flags ichidan and カ変 potential forms written without ら.
var RaNuki = lint.RuleDef{
	ID:          "ra-nuki",
	Name:        "ら抜き言葉",
	Group:       "grammar",
	Description: "Potential forms of ichidan verbs should keep ら (見れる → 見られる).",
	Level:       core.LevelText,
	Severity:    core.SeverityWarning,
	Check:       checkRaNuki,
	Rationale:   "ら抜き言葉は話し言葉では広く使われるが、書き言葉では誤用とされる。",
	BadExample:  "あの映画は見れる。",
	GoodExample: "あの映画は見られる。",
}

// ichidanStems are stems whose potential form takes られる. Single-kanji
// stems are included only where the bare stem + れる is not itself a word.
var ichidanStems = []string{
	"見", "来", "着", "寝", "出", "居",
	"食べ", "起き", "借り", "考え", "決め", "信じ", "答え", "覚え",
	"逃げ", "投げ", "調べ", "集め", "忘れ", "止め", "比べ", "続け",
	"捨て", "建て", "育て", "生き", "浴び", "降り", "閉じ", "感じ",
	"教え", "伝え", "変え", "受け", "避け", "認め", "求め",
}

// raNukiEndings are the conjugated endings checked after each stem. The
// conditional れば is absent because 見れば is standard.
var raNukiEndings = []string{
	"れる", "れない", "れなかった", "れます", "れません", "れた", "れて",
}

var raNukiMatcher = scan.NewMatcher(raNukiEntries())

func raNukiEntries() []scan.Entry {
	seen := make(map[string]bool)
	var entries []scan.Entry
	for _, stem := range ichidanStems {
		for _, end := range raNukiEndings {
			wrong := stem + end
			if seen[wrong] {
				continue
			}
			seen[wrong] = true
			entries = append(entries, scan.Entry{
				Pattern:     wrong,
				Replacement: stem + "ら" + end,
			})
		}
	}
	return entries
}

func checkRaNuki(text string, cfg core.RuleConfig) []core.Issue {
	var issues []core.Issue
	for _, m := range raNukiMatcher.FindAll(text) {
		iss := lint.NewIssue("ra-nuki", cfg, m.From, m.To,
			"Potential form without ら: use "+m.Replacement,
			"ら抜き言葉です。「"+m.Replacement+"」が標準的な形です。")
		iss.Fix = &core.Fix{Replacement: m.Replacement, Label: "「" + m.Replacement + "」に直す"}
		issues = append(issues, iss)
	}
	return issues
}
