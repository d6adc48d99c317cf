package semantic

import (
	"strings"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
)

func init() {
	lint.RegisterDef(HomophoneDef)
}

// HomophoneSet is a group of words with the same reading that are easily
// confused.
type HomophoneSet struct {
	Reading string   `yaml:"reading" json:"reading"`
	Words   []string `yaml:"words" json:"words"`
}

// DefaultHomophoneSets is the built-in confusion dictionary.
var DefaultHomophoneSets = []HomophoneSet{
	{Reading: "いがい", Words: []string{"以外", "意外"}},
	{Reading: "かんしん", Words: []string{"関心", "感心"}},
	{Reading: "ほしょう", Words: []string{"保証", "保障", "補償"}},
	{Reading: "ついきゅう", Words: []string{"追求", "追及", "追究"}},
	{Reading: "たいしょう", Words: []string{"対象", "対称", "対照"}},
	{Reading: "いじょう", Words: []string{"異常", "異状"}},
	{Reading: "きかい", Words: []string{"機会", "機械"}},
	{Reading: "かいほう", Words: []string{"開放", "解放", "快方"}},
}

// HomophoneDef checks the built-in homophone sets.
var HomophoneDef = HomophoneRule(DefaultHomophoneSets)

// HomophoneRule builds the homophone rule over sets.
func HomophoneRule(sets []HomophoneSet) lint.RuleDef {
	index := make(map[string]HomophoneSet)
	for _, s := range sets {
		for _, w := range s.Words {
			index[w] = s
		}
	}

	return lint.RuleDef{
		ID:          "homophone",
		Name:        "同音異義語",
		Group:       "semantic",
		Description: "Words with easily confused homophones; candidates for LLM confirmation.",
		Level:       core.LevelLLM,
		Severity:    core.SeverityInfo,
		CheckTokens: func(_ string, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
			var issues []core.Issue
			for _, tok := range tokens {
				set, ok := index[tok.Surface]
				if !ok {
					set, ok = index[tok.Lemma()]
				}
				if !ok {
					continue
				}
				others := make([]string, 0, len(set.Words)-1)
				for _, w := range set.Words {
					if w != tok.Surface && w != tok.Lemma() {
						others = append(others, "「"+w+"」")
					}
				}
				alt := strings.Join(others, "・")
				issues = append(issues, lint.NewIssue("homophone", cfg, tok.Start, tok.End,
					"Possible homophone confusion: "+tok.Surface+" vs "+alt,
					"「"+tok.Surface+"」は"+alt+"の誤りではないか確認してください。"))
			}
			return issues
		},
		BadExample:  "彼の努力に関心した。",
		GoodExample: "彼の努力に感心した。",
	}
}
