package grammar

import (
	"regexp"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/textutil"
)

func init() {
	lint.RegisterDef(SaIre)
}

// SaIre flags causatives of godan verbs with an extra さ.
var SaIre = lint.RuleDef{
	ID:          "sa-ire",
	Name:        "さ入れ言葉",
	Group:       "grammar",
	Description: "Causatives of godan verbs do not take さ (読まさせる → 読ませる).",
	Level:       core.LevelText,
	Severity:    core.SeverityWarning,
	Check:       checkSaIre,
	BadExample:  "資料を読まさせていただきます。",
	GoodExample: "資料を読ませていただきます。",
}

// A kanji stem, the godan あ-row ending, then させ. The ending is captured so
// the fix can drop only the さ.
var saIrePattern = regexp.MustCompile(`\p{Han}([かがさたなばまらわ])させ`)

func checkSaIre(text string, cfg core.RuleConfig) []core.Issue {
	locs := saIrePattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	offsets := textutil.NewOffsetMap(text)

	var issues []core.Issue
	for _, loc := range locs {
		// loc[2]:loc[3] is the あ-row ending; the match ends after させ.
		ending := text[loc[2]:loc[3]]
		from := offsets.Rune(loc[2])
		to := offsets.Rune(loc[1])
		replacement := ending + "せ"

		iss := lint.NewIssue("sa-ire", cfg, from, to,
			"Superfluous さ in causative: use "+replacement,
			"さ入れ言葉です。「"+replacement+"」とします。")
		iss.Fix = &core.Fix{Replacement: replacement, Label: "「さ」を削除"}
		issues = append(issues, iss)
	}
	return issues
}
