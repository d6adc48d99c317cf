package dictfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/kousei/pkg/lint"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules" // register rules
)

func writeDict(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse(t *testing.T) {
	d, err := Parse([]byte(`
counters:
  - counter: 人
    invalid_nouns: [ハムスター]
    suggested: 匹
redundant:
  - pattern: 各都道府県ごと
    replacement: 都道府県ごと
    note: 各とごとの重複
variants:
  - category: katakana
    variants: [プリンター, プリンタ]
homophones:
  - reading: こうせい
    words: [校正, 構成, 更正]
`))
	require.NoError(t, err)
	assert.False(t, d.ReplaceDefaults)
	require.Len(t, d.Counters, 1)
	assert.Equal(t, []string{"ハムスター"}, d.Counters[0].InvalidNouns)
	assert.Equal(t, "都道府県ごと", d.Redundant[0].Replacement)
	assert.Equal(t, "各とごとの重複", d.Redundant[0].Note)
	assert.Equal(t, []string{"プリンター", "プリンタ"}, d.Variants[0].Variants)
	assert.Equal(t, "こうせい", d.Homophones[0].Reading)
	assert.Len(t, d.Rules(), 4)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "invalid yaml", content: "counters: [", wantErr: "invalid YAML"},
		{name: "unknown section", content: "synonyms: []\n", wantErr: `unknown dictionary section "synonyms"`},
		{name: "incomplete counter", content: "counters:\n  - counter: 人\n", wantErr: "counters[0]"},
		{name: "single variant", content: "variants:\n  - variants: [サーバ]\n", wantErr: "at least two variants"},
		{name: "unknown category", content: "variants:\n  - category: kana\n    variants: [a, b]\n", wantErr: `unknown category "kana"`},
		{name: "missing pattern", content: "redundant:\n  - replacement: x\n", wantErr: "pattern is required"},
		{name: "single homophone", content: "homophones:\n  - words: [校正]\n", wantErr: "at least two words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MergesAndNamesFile(t *testing.T) {
	dir := t.TempDir()
	a := writeDict(t, dir, "a.yaml", "redundant:\n  - pattern: 各都道府県ごと\n    replacement: 都道府県ごと\n")
	b := writeDict(t, dir, "b.yaml", "replace_defaults: true\nredundant:\n  - pattern: 射程距離\n    replacement: 射程\n")

	d, err := Load(a, b)
	require.NoError(t, err)
	assert.True(t, d.ReplaceDefaults)
	assert.Len(t, d.Redundant, 2)

	bad := writeDict(t, dir, "bad.yaml", "nope: 1\n")
	_, err = Load(a, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read dictionary")
}

func TestRegister_ExtendsBuiltins(t *testing.T) {
	path := writeDict(t, t.TempDir(), "user.yaml", "redundant:\n  - pattern: 射程距離\n    replacement: 射程\n")
	runner := lint.NewRunner(lint.WithRules(lint.All()...))

	ids, err := Register(runner, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"redundant-expression"}, ids)

	issues := runner.Lint(context.Background(), "射程距離が長い。頭痛が痛い。")
	var found []string
	for _, is := range issues {
		if is.RuleID == "redundant-expression" {
			found = append(found, is.Fix.Replacement)
		}
	}
	assert.Equal(t, []string{"射程", "頭が痛い"}, found)
}

func TestRegister_ReplaceDefaults(t *testing.T) {
	path := writeDict(t, t.TempDir(), "user.yaml",
		"replace_defaults: true\nredundant:\n  - pattern: 射程距離\n    replacement: 射程\n")
	runner := lint.NewRunner(lint.WithRules(lint.All()...))

	_, err := Register(runner, path)
	require.NoError(t, err)

	issues := runner.Lint(context.Background(), "射程距離が長い。頭痛が痛い。")
	require.Len(t, issues, 1)
	assert.Equal(t, "redundant-expression", issues[0].RuleID)
	assert.Equal(t, 0, issues[0].From)
	assert.Equal(t, 4, issues[0].To)
}

func TestRegister_NoPaths(t *testing.T) {
	runner := lint.NewRunner()
	ids, err := Register(runner)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, runner.Rules())
}
