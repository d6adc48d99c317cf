package style

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/textutil"
)

func init() {
	lint.RegisterDef(WordRepetition)
}

const (
	defaultRepetitionThreshold = 3
	defaultRepetitionWindow    = 5
)

// WordRepetition flags content words repeated within a few sentences.
var WordRepetition = lint.RuleDef{
	ID:          "word-repetition",
	Name:        "語の繰り返し",
	Group:       "style",
	Description: "The same content word used threshold times within window consecutive sentences.",
	Level:       core.LevelMorphological,
	Severity:    core.SeverityInfo,
	Options: map[string]any{
		"threshold": defaultRepetitionThreshold,
		"window":    defaultRepetitionWindow,
	},
	ConfigKeys:  []string{"threshold", "window"},
	CheckTokens: checkWordRepetition,
}

// functionalWords carry little meaning and are never counted, keyed by
// basic form.
var functionalWords = map[string]bool{
	"する": true, "なる": true, "ある": true, "いる": true, "おる": true,
	"できる": true, "くる": true, "いく": true, "いう": true, "られる": true,
	"こと": true, "もの": true, "ため": true, "よう": true, "とき": true,
	"ところ": true, "ほう": true, "ない": true, "よい": true, "いい": true,
}

type occurrence struct {
	tok      core.Token
	sentence int
}

func checkWordRepetition(text string, tokens []core.Token, cfg core.RuleConfig) []core.Issue {
	threshold := lint.IntOption(cfg, "threshold", defaultRepetitionThreshold)
	window := lint.IntOption(cfg, "window", defaultRepetitionWindow)
	if threshold < 2 || window < 1 {
		return nil
	}

	sentences := textutil.SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	byWord := make(map[string][]occurrence)
	var order []string
	for _, tok := range tokens {
		key, ok := repetitionKey(tok)
		if !ok {
			continue
		}
		s := textutil.SentenceIndex(sentences, tok.Start)
		if s < 0 {
			continue
		}
		if _, seen := byWord[key]; !seen {
			order = append(order, key)
		}
		byWord[key] = append(byWord[key], occurrence{tok: tok, sentence: s})
	}

	var issues []core.Issue
	for _, key := range order {
		occs := byWord[key]
		if len(occs) < threshold {
			continue
		}
		lastAnchor := -1
		for j, occ := range occs {
			// Count occurrences in the window ending at this sentence.
			low := occ.sentence - window + 1
			count := 0
			for k := j; k >= 0 && occs[k].sentence >= low; k-- {
				count++
			}
			if count < threshold {
				continue
			}
			if lastAnchor >= 0 && lastAnchor >= low {
				continue
			}
			lastAnchor = occ.sentence
			issues = append(issues, lint.NewIssue("word-repetition", cfg, occ.tok.Start, occ.tok.End,
				fmt.Sprintf("%q is used %d times within %d sentences", occ.tok.Surface, count, window),
				fmt.Sprintf("「%s」が近い範囲で%d回使われています。言い換えを検討してください。", occ.tok.Surface, count)))
		}
	}
	return issues
}

// repetitionKey returns the width-folded basic form of a countable content
// word.
func repetitionKey(tok core.Token) (string, bool) {
	switch tok.POS {
	case core.POSNoun, core.POSVerb, core.POSAdjective:
	default:
		return "", false
	}
	if utf8.RuneCountInString(tok.Surface) <= 1 {
		return "", false
	}
	for _, d := range []string{core.DetailProperNoun, core.DetailNonIndependent, core.DetailSuffix, core.DetailNumber, core.DetailPronoun} {
		if tok.HasDetail(d) {
			return "", false
		}
	}
	key := width.Fold.String(tok.Lemma())
	if functionalWords[key] {
		return "", false
	}
	return key, true
}
