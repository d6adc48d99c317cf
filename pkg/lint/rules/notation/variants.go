package notation

// Category classifies a variant group.
type Category string

// Variant categories.
const (
	CategoryOkurigana Category = "okurigana"
	CategoryKanjiKana Category = "kanji-kana"
	CategoryKatakana  Category = "katakana"
)

// References cites the standard that governs each category.
var References = map[Category]string{
	CategoryOkurigana: "送り仮名の付け方（内閣告示, 1973）",
	CategoryKanjiKana: "公用文作成の考え方（文化審議会建議, 2022）",
	CategoryKatakana:  "外来語の表記（内閣告示, 1991）",
}

// VariantGroup lists the spellings of one word. The first variant is the
// standard form and wins ties.
type VariantGroup struct {
	Category Category `yaml:"category" json:"category"`
	Variants []string `yaml:"variants" json:"variants"`
}

// DefaultVariantGroups is the built-in variant dictionary.
var DefaultVariantGroups = []VariantGroup{
	{Category: CategoryOkurigana, Variants: []string{"行う", "行なう"}},
	{Category: CategoryOkurigana, Variants: []string{"行われ", "行なわれ"}},
	{Category: CategoryOkurigana, Variants: []string{"表す", "表わす"}},
	{Category: CategoryOkurigana, Variants: []string{"終わる", "終る"}},
	{Category: CategoryOkurigana, Variants: []string{"変わる", "変る"}},
	{Category: CategoryOkurigana, Variants: []string{"申込み", "申し込み", "申込"}},
	{Category: CategoryOkurigana, Variants: []string{"取扱い", "取り扱い", "取扱"}},
	{Category: CategoryOkurigana, Variants: []string{"少ない", "少い"}},

	{Category: CategoryKanjiKana, Variants: []string{"ください", "下さい"}},
	{Category: CategoryKanjiKana, Variants: []string{"できる", "出来る"}},
	{Category: CategoryKanjiKana, Variants: []string{"既に", "すでに"}},
	{Category: CategoryKanjiKana, Variants: []string{"全く", "まったく"}},
	{Category: CategoryKanjiKana, Variants: []string{"いたします", "致します"}},
	{Category: CategoryKanjiKana, Variants: []string{"分かる", "わかる", "解る"}},

	{Category: CategoryKatakana, Variants: []string{"インターフェース", "インタフェース", "インターフェイス"}},
	{Category: CategoryKatakana, Variants: []string{"コンピューター", "コンピュータ"}},
	{Category: CategoryKatakana, Variants: []string{"サーバー", "サーバ"}},
	{Category: CategoryKatakana, Variants: []string{"ユーザー", "ユーザ"}},
	{Category: CategoryKatakana, Variants: []string{"メモリー", "メモリ"}},
	{Category: CategoryKatakana, Variants: []string{"ウィンドウ", "ウインドウ", "ウィンドー"}},
}
