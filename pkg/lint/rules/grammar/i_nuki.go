package grammar

import (
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
)

func init() {
	lint.RegisterDef(INuki)
}

// INuki flags progressive forms that drop い (してる → している).
var INuki = lint.RuleDef{
	ID:          "i-nuki",
	Name:        "い抜き言葉",
	Group:       "grammar",
	Description: "Progressive forms should keep い (してる → している).",
	Level:       core.LevelMorphological,
	Severity:    core.SeverityWarning,
	CheckTokens: checkINuki,
	BadExample:  "今、資料を作ってる。",
	GoodExample: "今、資料を作っている。",
}

func checkINuki(_ string, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
	var issues []core.Issue
	for _, tok := range tokens {
		if tok.POS != core.POSVerb || tok.POSDetail1 != core.DetailNonIndependent {
			continue
		}
		base := tok.Lemma()
		if base != "てる" && base != "でる" {
			continue
		}
		r := []rune(tok.Surface)
		if len(r) == 0 {
			continue
		}
		replacement := string(r[0]) + "い" + string(r[1:])

		iss := lint.NewIssue("i-nuki", cfg, tok.Start, tok.End,
			"Progressive form without い: use "+replacement,
			"い抜き言葉です。「"+replacement+"」とします。")
		iss.Fix = &core.Fix{Replacement: replacement, Label: "「い」を補う"}
		issues = append(issues, iss)
	}
	return issues
}
