package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_LongestWins(t *testing.T) {
	m := NewMatcher([]Entry{
		{Pattern: "サーバ", Index: 1},
		{Pattern: "サーバー", Index: 0},
		{Pattern: ""},
	})

	got := m.FindAll("サーバーとサーバ")

	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 0, got[0].From)
	assert.Equal(t, 4, got[0].To)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, 5, got[1].From)
}

func TestMatcher_NoMatch(t *testing.T) {
	m := NewMatcher([]Entry{{Pattern: "頭痛が痛い"}})
	assert.Empty(t, m.FindAll("頭が痛い"))
	assert.Empty(t, m.FindAll(""))
}

func TestOutsideDialogue(t *testing.T) {
	m := NewMatcher([]Entry{{Pattern: "雨"}})
	text := "雨だ。「雨か」"

	got := OutsideDialogue(text, m.FindAll(text))
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].From)
}
