package grammar

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
)

func init() {
	lint.RegisterDef(CounterMismatchDef)
}

// Search limits around a number + counter pair.
const (
	counterLookahead = 2
	nounSearchRadius = 10
)

// CounterMismatchDef checks counters against the built-in dictionary.
var CounterMismatchDef = CounterMismatchRule(DefaultCounterMismatches)

// CounterMismatchRule builds the counter-mismatch rule over dict.
func CounterMismatchRule(dict []CounterMismatch) lint.RuleDef {
	dict = slices.Clone(dict)
	return lint.RuleDef{
		ID:          "counter-mismatch",
		Name:        "助数詞の誤り",
		Group:       "grammar",
		Description: "Counter words must fit the counted noun (犬が3人 → 犬が3匹).",
		Level:       core.LevelMorphological,
		Severity:    core.SeverityWarning,
		CheckTokens: func(_ string, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
			return checkCounters(dict, tokens, cfg)
		},
		BadExample:  "犬が3人います。",
		GoodExample: "犬が3匹います。",
	}
}

func checkCounters(dict []CounterMismatch, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
	var issues []core.Issue
	for i := 0; i < len(tokens); i++ {
		if !isNumeral(tokens[i]) {
			continue
		}
		first := i
		for i+1 < len(tokens) && isNumeral(tokens[i+1]) {
			i++
		}

		counter := -1
		for k := i + 1; k <= i+counterLookahead && k < len(tokens); k++ {
			if tokens[k].IsCounter() {
				counter = k
				break
			}
		}
		if counter < 0 {
			continue
		}

		noun := nearestNoun(tokens, first, counter)
		if noun < 0 {
			continue
		}
		if entry, ok := lookupMismatch(dict, tokens[counter], tokens[noun]); ok {
			c, n := tokens[counter], tokens[noun]
			iss := lint.NewIssue("counter-mismatch", cfg, c.Start, c.End,
				"Counter "+c.Surface+" does not fit "+n.Surface+"; use "+entry.Suggested,
				"「"+n.Surface+"」に助数詞「"+c.Surface+"」は使いません。「"+entry.Suggested+"」が適切です。")
			iss.Fix = &core.Fix{Replacement: entry.Suggested, Label: "「" + entry.Suggested + "」に直す"}
			issues = append(issues, iss)
		}
		i = counter
	}
	return issues
}

// nearestNoun looks backward from the number, then forward from the counter.
func nearestNoun(tokens []core.Token, number, counter int) int {
	for k := number - 1; k >= 0 && k >= number-nounSearchRadius; k-- {
		if tokens[k].IsContentNoun() {
			return k
		}
	}
	for k := counter + 1; k < len(tokens) && k <= counter+nounSearchRadius; k++ {
		if tokens[k].IsContentNoun() {
			return k
		}
	}
	return -1
}

func lookupMismatch(dict []CounterMismatch, counter, noun core.Token) (CounterMismatch, bool) {
	for _, entry := range dict {
		if entry.Counter != counter.Surface && entry.Counter != counter.Lemma() {
			continue
		}
		for _, invalid := range entry.InvalidNouns {
			if invalid == noun.Surface || invalid == noun.Lemma() {
				return entry, true
			}
		}
	}
	return CounterMismatch{}, false
}

// isNumeral accepts numeral tokens and, for tokenizers that leave POS
// unset, surfaces made of (possibly full-width) digits.
func isNumeral(tok core.Token) bool {
	if tok.IsNumber() {
		return true
	}
	if tok.POS != "" {
		return false
	}
	folded := width.Fold.String(tok.Surface)
	return folded != "" && strings.IndexFunc(folded, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
