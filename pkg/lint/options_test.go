package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/kousei/pkg/core"
)

func TestOptions(t *testing.T) {
	cfg := core.RuleConfig{Options: map[string]any{
		"int":        3,
		"float":      float64(7),
		"int64":      int64(9),
		"uint64":     uint64(11),
		"name":       "x",
		"flag":       true,
		"list":       []any{"a", 1, "b"},
		"typed_list": []string{"c"},
	}}

	assert.Equal(t, 3, IntOption(cfg, "int", 0))
	assert.Equal(t, 7, IntOption(cfg, "float", 0))
	assert.Equal(t, 9, IntOption(cfg, "int64", 0))
	assert.Equal(t, 11, IntOption(cfg, "uint64", 0))
	assert.Equal(t, 5, IntOption(cfg, "name", 5), "wrong type falls back")
	assert.Equal(t, 5, IntOption(cfg, "missing", 5))

	assert.Equal(t, "x", StringOption(cfg, "name", ""))
	assert.True(t, BoolOption(cfg, "flag", false))
	assert.Equal(t, []string{"a", "b"}, StringSliceOption(cfg, "list", nil))
	assert.Equal(t, []string{"c"}, StringSliceOption(cfg, "typed_list", nil))
	assert.Equal(t, []string{"d"}, StringSliceOption(core.RuleConfig{}, "list", []string{"d"}))
}

func TestDocURL(t *testing.T) {
	t.Cleanup(func() { SetDocsBaseURL("") })

	assert.Equal(t, DefaultDocsBaseURL+"/ra-nuki", DocURL("Ra-Nuki"))
	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/ra-nuki", DocURL("ra-nuki"))

	info := GetRuleInfo(WrapRuleDef(RuleDef{ID: "x", DocURL: "file:///rules/x.star"}))
	assert.Equal(t, "file:///rules/x.star", info.DocURL)
	SetDocsBaseURL("")
	assert.Equal(t, DefaultDocsBaseURL+"/y", GetRuleInfo(WrapRuleDef(RuleDef{ID: "y"})).DocURL)
}
