package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModesCommand(t *testing.T) {
	out, err := execute(t, NewModesCommand(), "", "-f", "json")
	require.NoError(t, err, out)

	var got ModesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	ids := make([]string, len(got.Modes))
	for i, m := range got.Modes {
		ids[i] = string(m.ID)
	}
	assert.ElementsMatch(t, []string{"novel", "official", "blog", "sns", "academic"}, ids)
	assert.NotEmpty(t, got.Guidelines)

	out, err = execute(t, NewModesCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "小説")
	assert.Contains(t, out, "koyobun")

	_, err = execute(t, NewModesCommand(), "", "-f", "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}
