package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueClamp(t *testing.T) {
	tests := []struct {
		name             string
		from, to, n      int
		wantFrom, wantTo int
	}{
		{"inside", 1, 3, 5, 1, 3},
		{"negative start", -2, 3, 5, 0, 3},
		{"past end", 4, 9, 5, 4, 5},
		{"inverted", 4, 2, 5, 4, 4},
		{"start past end", 7, 8, 5, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := Issue{From: tt.from, To: tt.to}
			issue.Clamp(tt.n)
			assert.Equal(t, tt.wantFrom, issue.From)
			assert.Equal(t, tt.wantTo, issue.To)
		})
	}
}

func TestSortIssues(t *testing.T) {
	issues := []Issue{
		{RuleID: "b", From: 3, To: 4},
		{RuleID: "a", From: 3, To: 4},
		{RuleID: "c", From: 0, To: 9},
		{RuleID: "a", From: 3, To: 3},
	}
	SortIssues(issues)

	assert.Equal(t, "c", issues[0].RuleID)
	assert.Equal(t, 3, issues[1].To)
	assert.Equal(t, "a", issues[2].RuleID)
	assert.Equal(t, "b", issues[3].RuleID)
}

func TestTokenHelpers(t *testing.T) {
	counter := Token{Surface: "人", POS: POSNoun, POSDetail1: DetailSuffix, POSDetail2: DetailCounter}
	assert.True(t, counter.IsCounter())
	assert.False(t, counter.IsContentNoun())

	num := Token{Surface: "3", POS: POSNoun, POSDetail1: DetailNumber}
	assert.True(t, num.IsNumber())

	dog := Token{Surface: "犬", POS: POSNoun, POSDetail1: "一般", BasicForm: "*"}
	assert.True(t, dog.IsContentNoun())
	assert.Equal(t, "犬", dog.Lemma())
}
