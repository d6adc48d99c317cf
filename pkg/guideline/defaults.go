package guideline

import "github.com/leapstack-labs/kousei/pkg/core"

// DefaultCatalog returns the built-in guidelines and modes.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultGuidelines(), defaultModes())
}

func defaultGuidelines() []Guideline {
	return []Guideline{
		{
			ID:        Koyobun,
			Name:      "公用文作成の考え方",
			Reference: "公用文作成の考え方（文化審議会建議, 2022）",
			Severities: map[string]core.Severity{
				ruleRaNuki:              core.SeverityError,
				ruleSaIre:               core.SeverityError,
				ruleINuki:               core.SeverityWarning,
				ruleRedundantExpression: core.SeverityWarning,
				ruleCounterMismatch:     core.SeverityWarning,
				ruleNotationConsistency: core.SeverityWarning,
				ruleSentenceLength:      core.SeverityInfo,
			},
		},
		{
			ID:        Okurigana,
			Name:      "送り仮名の付け方",
			Reference: "送り仮名の付け方（内閣告示, 1973）",
			Severities: map[string]core.Severity{
				ruleNotationConsistency: core.SeverityWarning,
			},
		},
		{
			ID:        Gairaigo,
			Name:      "外来語の表記",
			Reference: "外来語の表記（内閣告示, 1991）",
			Severities: map[string]core.Severity{
				ruleNotationConsistency: core.SeverityInfo,
			},
		},
		{
			ID:        JoyoKanji,
			Name:      "常用漢字表",
			Reference: "常用漢字表（内閣告示, 2010）",
		},
		{
			ID:        JTF,
			Name:      "JTF日本語標準スタイルガイド",
			Reference: "JTF日本語標準スタイルガイド（翻訳用）",
			Severities: map[string]core.Severity{
				ruleRaNuki:              core.SeverityWarning,
				ruleSaIre:               core.SeverityWarning,
				ruleINuki:               core.SeverityWarning,
				ruleRedundantExpression: core.SeverityWarning,
				ruleDialogueBrackets:    core.SeverityWarning,
				ruleSentenceLength:      core.SeverityInfo,
			},
		},
		{
			ID:        NovelConvention,
			Name:      "小説の表記慣習",
			Reference: "小説の表記慣習（会話文の括弧・記号の用法）",
			Severities: map[string]core.Severity{
				ruleDialogueBrackets: core.SeverityError,
			},
		},
	}
}
