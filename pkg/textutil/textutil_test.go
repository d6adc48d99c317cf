package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexAll(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     []int
	}{
		{"single", "頭痛が痛いので", "頭痛が痛い", []int{0}},
		{"repeated", "ああああ", "ああ", []int{0, 2}},
		{"none", "晴れ", "雨", nil},
		{"empty needle", "晴れ", "", nil},
		{"needle longer", "晴", "晴れ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndexAll([]rune(tt.haystack), []rune(tt.needle)))
		})
	}
}

func TestOffsetMap(t *testing.T) {
	text := "aあb" // bytes: a(0) あ(1..3) b(4)
	m := NewOffsetMap(text)

	assert.Equal(t, 0, m.Rune(0))
	assert.Equal(t, 1, m.Rune(1))
	assert.Equal(t, 2, m.Rune(2), "continuation byte maps to the next rune")
	assert.Equal(t, 2, m.Rune(4))
	assert.Equal(t, 3, m.Rune(5))
	assert.Equal(t, 3, m.Rune(100))
	assert.Equal(t, 0, m.Rune(-1))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \n\t　"))
	assert.False(t, IsBlank("　あ"))
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("今日は晴れ。「行こう！」と言った。\n明日は雨")

	if assert.Len(t, sentences, 3) {
		assert.Equal(t, "今日は晴れ。", sentences[0].Text)
		assert.Equal(t, "「行こう！」と言った。", sentences[1].Text)
		assert.Equal(t, "明日は雨", sentences[2].Text)
		assert.Equal(t, 6, sentences[1].Start)
	}

	assert.Equal(t, 1, SentenceIndex(sentences, 7))
	assert.Equal(t, -1, SentenceIndex(sentences, 1000))
	assert.Empty(t, SplitSentences("  \n "))
}
