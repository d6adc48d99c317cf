package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleConfigPatchApply(t *testing.T) {
	base := RuleConfig{
		Enabled:      true,
		Severity:     SeverityWarning,
		SkipDialogue: false,
		Options:      map[string]any{"threshold": 3},
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		got := RuleConfigPatch{}.Apply(base)
		assert.Equal(t, base, got)
	})

	t.Run("only specified fields change", func(t *testing.T) {
		got := RuleConfigPatch{SkipDialogue: Ptr(true)}.Apply(base)
		assert.True(t, got.Enabled)
		assert.Equal(t, SeverityWarning, got.Severity)
		assert.True(t, got.SkipDialogue)
	})

	t.Run("options merge per key without aliasing", func(t *testing.T) {
		got := RuleConfigPatch{Options: map[string]any{"window": 4}}.Apply(base)
		assert.Equal(t, map[string]any{"threshold": 3, "window": 4}, got.Options)
		assert.NotContains(t, base.Options, "window")
	})
}

func TestRuleConfigPatchMerge(t *testing.T) {
	first := RuleConfigPatch{Enabled: Ptr(false), Severity: Ptr(SeverityInfo)}
	second := RuleConfigPatch{Enabled: Ptr(true)}

	merged := first.Merge(second)
	assert.True(t, *merged.Enabled)
	assert.Equal(t, SeverityInfo, *merged.Severity)
	assert.Nil(t, merged.SkipDialogue)
}

func TestRuleLevel(t *testing.T) {
	assert.Equal(t, "L1", LevelText.String())
	assert.False(t, LevelText.NeedsTokens())
	assert.True(t, LevelMorphological.NeedsTokens())
	assert.True(t, LevelLLM.NeedsTokens())
}

func TestRuleLevelText(t *testing.T) {
	for _, level := range []RuleLevel{LevelText, LevelMorphological, LevelLLM} {
		text, err := level.MarshalText()
		require.NoError(t, err)

		var got RuleLevel
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, level, got)
	}

	var l RuleLevel
	require.NoError(t, l.UnmarshalText([]byte("l2")))
	assert.Equal(t, LevelMorphological, l)
	assert.Error(t, l.UnmarshalText([]byte("L4")))
}

func TestRuleInfoJSONRoundTrip(t *testing.T) {
	info := RuleInfo{
		ID:              "ra-nuki",
		Level:           LevelMorphological,
		DefaultSeverity: SeverityWarning,
	}

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"L2"`)

	var got RuleInfo
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, info, got)
}
