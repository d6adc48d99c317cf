package core

// =============================================================================
// Tokens
// =============================================================================

// Token is one morpheme as reported by a morphological analyzer.
// Tokens are produced by a tokenizer; the engine never builds them itself.
//
// Part-of-speech values follow the IPA dictionary conventions (e.g. POS "名詞",
// POSDetail1 "接尾", POSDetail2 "助数詞").
type Token struct {
	Surface         string `json:"surface"`
	POS             string `json:"pos"`
	POSDetail1      string `json:"pos_detail1,omitempty"`
	POSDetail2      string `json:"pos_detail2,omitempty"`
	POSDetail3      string `json:"pos_detail3,omitempty"`
	ConjugationType string `json:"conjugation_type,omitempty"`
	ConjugationForm string `json:"conjugation_form,omitempty"`
	BasicForm       string `json:"basic_form,omitempty"`
	Reading         string `json:"reading,omitempty"`
	Start           int    `json:"start"` // rune offset, inclusive
	End             int    `json:"end"`   // rune offset, exclusive
}

// Part-of-speech labels used by rules.
const (
	POSNoun      = "名詞"
	POSVerb      = "動詞"
	POSAdjective = "形容詞"
	POSParticle  = "助詞"
	POSAuxVerb   = "助動詞"
	POSSymbol    = "記号"

	DetailNumber         = "数"
	DetailSuffix         = "接尾"
	DetailNonIndependent = "非自立"
	DetailPronoun        = "代名詞"
	DetailProperNoun     = "固有名詞"
	DetailCounter        = "助数詞"
)

// Lemma returns the dictionary form, falling back to the surface form when the
// analyzer did not provide one ("*" is the IPA dictionary's empty marker).
func (t Token) Lemma() string {
	if t.BasicForm == "" || t.BasicForm == "*" {
		return t.Surface
	}
	return t.BasicForm
}

// HasDetail reports whether any of the POS sub-details equals d.
func (t Token) HasDetail(d string) bool {
	return t.POSDetail1 == d || t.POSDetail2 == d || t.POSDetail3 == d
}

// IsNumber reports whether the token is a numeral.
func (t Token) IsNumber() bool {
	return t.POS == POSNoun && t.POSDetail1 == DetailNumber
}

// IsCounter reports whether the token is a counter suffix (助数詞).
func (t Token) IsCounter() bool {
	return t.POS == POSNoun && t.POSDetail1 == DetailSuffix && t.POSDetail2 == DetailCounter
}

// IsContentNoun reports whether the token is a noun that carries meaning on
// its own: not a suffix, number, pronoun or non-independent noun.
func (t Token) IsContentNoun() bool {
	if t.POS != POSNoun {
		return false
	}
	switch t.POSDetail1 {
	case DetailNonIndependent, DetailSuffix, DetailNumber, DetailPronoun:
		return false
	}
	return true
}
