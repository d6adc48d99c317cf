package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"lint", "rules", "modes", "serve", "repl", "version", "completion"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_Version(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kousei v"+Version)
}

func TestRootCmd_ConfigFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("rules:\n  redundant-expression:\n    enabled: false\n"), 0o644))

	out, err := run(t, "頭痛が痛い。", "lint", "-f", "json")
	assert.Error(t, err, "issues are reported without the config file")
	assert.Contains(t, out, "redundant-expression")

	out, err = run(t, "頭痛が痛い。", "--config", cfg, "-v", "lint", "-f", "json", "--fail-on", "none")
	require.NoError(t, err)
	assert.NotContains(t, out, `"rule_id": "redundant-expression"`)
	assert.Contains(t, out, "Using config file: "+cfg)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kousei.yaml"), []byte("mode: poetry\n"), 0o644))

	_, err := run(t, "", "rules")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRootCmd_Completion(t *testing.T) {
	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "kousei")
}
