package notation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/lint/rules/notation"
)

func lintDocument(t *testing.T, paragraphs ...string) []core.ParagraphIssues {
	t.Helper()
	rule, ok := lint.GetByID("notation-consistency")
	require.True(t, ok)
	return lint.NewRunner(lint.WithRules(rule)).LintDocument(context.Background(), paragraphs)
}

func countIssues(doc []core.ParagraphIssues) int {
	n := 0
	for _, p := range doc {
		n += len(p.Issues)
	}
	return n
}

func TestConsistency_MinorityFlagged(t *testing.T) {
	doc := lintDocument(t, "調査を行う。", "分析を行う。", "報告を行う。", "検証を行なう。")

	require.Len(t, doc, 4)
	assert.Equal(t, 1, countIssues(doc))
	require.Len(t, doc[3].Issues, 1)

	iss := doc[3].Issues[0]
	assert.Equal(t, "notation-consistency", iss.RuleID)
	assert.Equal(t, 3, iss.From)
	assert.Equal(t, 6, iss.To)
	require.NotNil(t, iss.Fix)
	assert.Equal(t, "行う", iss.Fix.Replacement)
	assert.Equal(t, notation.References[notation.CategoryOkurigana], iss.Reference)
}

func TestConsistency_UniformDocument(t *testing.T) {
	assert.Zero(t, countIssues(lintDocument(t, "調査を行う。", "分析を行う。", "報告を行う。")))
	assert.Zero(t, countIssues(lintDocument(t, "調査を行なう。", "分析を行なう。")),
		"a non-standard form used consistently is not flagged")
}

func TestConsistency_TieGoesToStandardForm(t *testing.T) {
	doc := lintDocument(t, "調査を行なう。", "分析を行う。")

	require.Len(t, doc[0].Issues, 1)
	assert.Equal(t, "行う", doc[0].Issues[0].Fix.Replacement)
	assert.Empty(t, doc[1].Issues)
}

func TestConsistency_MajorityBeatsStandardForm(t *testing.T) {
	doc := lintDocument(t, "行なう。", "行なう。", "行う。")

	assert.Empty(t, doc[0].Issues)
	require.Len(t, doc[2].Issues, 1)
	assert.Equal(t, "行なう", doc[2].Issues[0].Fix.Replacement)
}

func TestConsistency_LongestVariantClaimsFirst(t *testing.T) {
	doc := lintDocument(t, "サーバーを起動。", "サーバーを停止。", "サーバを再起動。")

	assert.Equal(t, 1, countIssues(doc))
	require.Len(t, doc[2].Issues, 1)
	assert.Equal(t, "サーバー", doc[2].Issues[0].Fix.Replacement)
	assert.Equal(t, notation.References[notation.CategoryKatakana], doc[2].Issues[0].Reference)
}

func TestConsistency_DialogueMasked(t *testing.T) {
	doc := lintDocument(t, "調査を行う。", "「明日行なう」と言った。")
	assert.Zero(t, countIssues(doc))
}

func TestConsistency_SingleTextLintIsEmpty(t *testing.T) {
	rule := lint.WrapRuleDef(notation.ConsistencyDef)
	assert.Empty(t, rule.Lint("行う。行なう。", rule.DefaultConfig()))
	assert.True(t, lint.IsDocumentRule(rule))
}

func TestConsistencyRule_CustomGroups(t *testing.T) {
	def := notation.ConsistencyRule([]notation.VariantGroup{
		{Category: notation.CategoryKanjiKana, Variants: []string{"わたし", "私"}},
	})
	runner := lint.NewRunner(lint.WithRules(lint.WrapRuleDef(def)))

	doc := runner.LintDocument(context.Background(), []string{"私は", "わたしは", "わたしも"})
	require.Len(t, doc[0].Issues, 1)
	assert.Equal(t, "わたし", doc[0].Issues[0].Fix.Replacement)
}
