package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/pkg/lint"
)

func rulesJSON(t *testing.T, args ...string) []RuleView {
	t.Helper()
	out, err := execute(t, NewRulesCommand(), "", append([]string{"-f", "json"}, args...)...)
	require.NoError(t, err, out)
	var views []RuleView
	require.NoError(t, json.Unmarshal([]byte(out), &views), out)
	return views
}

func findView(views []RuleView, id string) (RuleView, bool) {
	for _, v := range views {
		if v.ID == id {
			return v, true
		}
	}
	return RuleView{}, false
}

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	for _, flag := range []string{"group", "format", "mode", "guideline", "dict"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_List(t *testing.T) {
	t.Chdir(t.TempDir())

	views := rulesJSON(t)
	assert.Len(t, views, len(lint.All()))
	v, ok := findView(views, "sentence-length")
	require.True(t, ok)
	assert.True(t, v.Enabled)

	// The novel mode turns sentence-length off.
	v, ok = findView(rulesJSON(t, "--mode", "novel"), "sentence-length")
	require.True(t, ok)
	assert.False(t, v.Enabled)
}

func TestRulesCommand_Group(t *testing.T) {
	t.Chdir(t.TempDir())

	views := rulesJSON(t, "--group", "grammar")
	require.NotEmpty(t, views)
	for _, v := range views {
		assert.Equal(t, "grammar", v.Group)
	}
}

func TestRulesCommand_Table(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, NewRulesCommand(), "", "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "ra-nuki")
	assert.Contains(t, out, "GUIDELINES")
}

func TestRulesCommand_Show(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, NewRulesCommand(), "", "ra-nuki")
	require.NoError(t, err)
	assert.Contains(t, out, "ra-nuki - ")
	assert.Contains(t, out, "Severity")

	_, err = execute(t, NewRulesCommand(), "", "ranuki")
	assert.ErrorContains(t, err, `did you mean "ra-nuki"?`)

	_, err = execute(t, NewRulesCommand(), "", "zzzzzzzzzzzz")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSuggestRule(t *testing.T) {
	ids := []string{"ra-nuki", "sa-ire", "i-nuki", "homophone"}

	tests := []struct {
		in   string
		want string
	}{
		{in: "ra-nuk", want: "ra-nuki"},
		{in: "homofone", want: "homophone"},
		{in: "SA-IRE", want: "sa-ire"},
		{in: "completely-different", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestRule(ids, tt.in))
		})
	}
}
