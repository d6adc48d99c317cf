package style_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/lint/rules/style"
	"github.com/leapstack-labs/kousei/pkg/textutil"
)

func newRunner(t *testing.T, ruleID string) *lint.Runner {
	t.Helper()
	rule, ok := lint.GetByID(ruleID)
	require.True(t, ok, "rule %s not registered", ruleID)
	return lint.NewRunner(lint.WithRules(rule))
}

// nounTokens returns a 名詞 token for every occurrence of each word.
func nounTokens(text string, words ...string) []core.Token {
	runes := []rune(text)
	var tokens []core.Token
	for _, w := range words {
		for _, at := range textutil.IndexAll(runes, []rune(w)) {
			tokens = append(tokens, core.Token{
				Surface:    w,
				POS:        core.POSNoun,
				POSDetail1: "一般",
				BasicForm:  w,
				Start:      at,
				End:        at + len([]rune(w)),
			})
		}
	}
	return tokens
}

func TestRedundantExpression(t *testing.T) {
	r := newRunner(t, "redundant-expression")
	ctx := context.Background()

	issues := r.Lint(ctx, "頭痛が痛いので休みます。")
	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].From)
	assert.Equal(t, 5, issues[0].To)
	require.NotNil(t, issues[0].Fix)
	assert.Equal(t, "頭が痛い", issues[0].Fix.Replacement)

	assert.Len(t, r.Lint(ctx, "「頭痛が痛い」と言った。"), 1, "dialogue is checked by default")

	r.SetConfig("redundant-expression", core.RuleConfigPatch{SkipDialogue: core.Ptr(true)})
	assert.Empty(t, r.Lint(ctx, "「頭痛が痛い」と言った。"))
	assert.Len(t, r.Lint(ctx, "頭痛が痛いので休みます。"), 1)
}

func TestRedundantExpressionRule_CustomDictionary(t *testing.T) {
	def := style.RedundantExpressionRule([]style.RedundantExpression{
		{Pattern: "各々それぞれ", Replacement: "それぞれ", Note: "意味の重複"},
	})

	issues := lint.WrapRuleDef(def).Lint("各々それぞれ考える", def.DefaultConfig())
	require.Len(t, issues, 1)
	assert.Equal(t, "それぞれ", issues[0].Fix.Replacement)
	assert.Contains(t, issues[0].LocalizedMessage, "意味の重複")
}

func TestSentenceLength(t *testing.T) {
	r := newRunner(t, "sentence-length")
	ctx := context.Background()

	long := strings.Repeat("あ", 120) + "。"
	issues := r.Lint(ctx, "短い文。"+long)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].From)
	assert.Equal(t, 125, issues[0].To)
	assert.Equal(t, core.SeverityInfo, issues[0].Severity)

	r.SetConfig("sentence-length", core.RuleConfigPatch{Options: map[string]any{"max_length": 3}})
	assert.Len(t, r.Lint(ctx, "短い文。長い文です。"), 2)
}

func TestDialogueBrackets(t *testing.T) {
	r := newRunner(t, "dialogue-brackets")
	ctx := context.Background()

	issues := r.Lint(ctx, "「彼は「行く」と言った」")
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].From)
	assert.Equal(t, 7, issues[0].To)
	require.NotNil(t, issues[0].Fix)
	assert.Equal(t, "『行く』", issues[0].Fix.Replacement)

	issues = r.Lint(ctx, "「」と「さよなら")
	require.Len(t, issues, 2)
	assert.Equal(t, "括弧の中身が空です。", issues[0].LocalizedMessage)
	assert.Equal(t, "閉じ括弧がありません。", issues[1].LocalizedMessage)

	assert.Empty(t, r.Lint(ctx, "「彼は『行く』と言った」"))

	issues = r.Lint(ctx, "「「」」")
	require.Len(t, issues, 2, "an empty nested pair is both empty and nested")
	var messages []string
	for _, is := range issues {
		messages = append(messages, is.LocalizedMessage)
	}
	assert.ElementsMatch(t, []string{"括弧の中身が空です。", "「」の中の引用には『』を使います。"}, messages)
}

func TestWordRepetition(t *testing.T) {
	r := newRunner(t, "word-repetition")
	ctx := context.Background()

	text := "資料を読む。資料を書く。資料を送る。"
	issues := r.LintWithGuidelines(ctx, text, nounTokens(text, "資料"), nil, "")
	require.Len(t, issues, 1)
	assert.Equal(t, 12, issues[0].From, "anchored at the occurrence reaching the threshold")
	assert.Equal(t, 14, issues[0].To)

	text = "資料を読む。資料を書く。"
	assert.Empty(t, r.LintWithGuidelines(ctx, text, nounTokens(text, "資料"), nil, ""))
}

func TestWordRepetition_Window(t *testing.T) {
	r := newRunner(t, "word-repetition")
	ctx := context.Background()

	sentences := make([]string, 11)
	for i := range sentences {
		sentences[i] = "雨が降る。"
	}
	sentences[0], sentences[5], sentences[10] = "資料を読む。", "資料を読む。", "資料を読む。"
	text := strings.Join(sentences, "")

	assert.Empty(t, r.LintWithGuidelines(ctx, text, nounTokens(text, "資料"), nil, ""),
		"occurrences five sentences apart never share a window")
}

func TestWordRepetition_Reflag(t *testing.T) {
	r := newRunner(t, "word-repetition")

	sentences := make([]string, 10)
	for i := range sentences {
		sentences[i] = "雨が降る。"
	}
	for _, i := range []int{0, 1, 2, 3, 7, 8, 9} {
		sentences[i] = "資料を読む。"
	}
	text := strings.Join(sentences, "")

	issues := r.LintWithGuidelines(context.Background(), text, nounTokens(text, "資料"), nil, "")
	require.Len(t, issues, 2)
	assert.Equal(t, 12, issues[0].From)
	assert.Equal(t, 51, issues[1].From)
}

func TestWordRepetition_Exclusions(t *testing.T) {
	r := newRunner(t, "word-repetition")
	ctx := context.Background()

	text := "猫だ。猫だ。猫だ。"
	assert.Empty(t, r.LintWithGuidelines(ctx, text, nounTokens(text, "猫"), nil, ""),
		"single-character words are not counted")

	text = "東京へ行く。東京で寝る。東京に住む。"
	tokens := nounTokens(text, "東京")
	for i := range tokens {
		tokens[i].POSDetail1 = core.DetailProperNoun
	}
	assert.Empty(t, r.LintWithGuidelines(ctx, text, tokens, nil, ""))

	text = "そのこと。あのこと。このこと。"
	assert.Empty(t, r.LintWithGuidelines(ctx, text, nounTokens(text, "こと"), nil, ""))
}

func TestWordRepetition_Threshold(t *testing.T) {
	r := newRunner(t, "word-repetition")
	r.SetConfig("word-repetition", core.RuleConfigPatch{Options: map[string]any{"threshold": 2}})

	text := "資料を読む。資料を書く。"
	issues := r.LintWithGuidelines(context.Background(), text, nounTokens(text, "資料"), nil, "")
	require.Len(t, issues, 1)
	assert.Equal(t, 6, issues[0].From)
}

func TestRuleDefs_IssueIDs(t *testing.T) {
	issues := lint.WrapRuleDef(style.DialogueBrackets).Lint("「」", style.DialogueBrackets.DefaultConfig())
	require.Len(t, issues, 1)
	assert.Equal(t, style.DialogueBrackets.ID, issues[0].RuleID)

	issues = lint.WrapRuleDef(style.SentenceLength).Lint(strings.Repeat("あ", 120)+"。", style.SentenceLength.DefaultConfig())
	require.Len(t, issues, 1)
	assert.Equal(t, style.SentenceLength.ID, issues[0].RuleID)

	text := "資料を読む。資料を書く。資料を送る。"
	issues = lint.WrapRuleDef(style.WordRepetition).LintWithTokens(text, nounTokens(text, "資料"), style.WordRepetition.DefaultConfig())
	require.Len(t, issues, 1)
	assert.Equal(t, style.WordRepetition.ID, issues[0].RuleID)
}
