package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/kousei/internal/cli"
	"github.com/leapstack-labs/kousei/internal/config"
)

// exitCodes documents what cli.Execute returns.
var exitCodes = [][]string{
	{InlineCode("0"), "No issues at or above " + InlineCode("--fail-on")},
	{InlineCode("1"), "Issues at or above " + InlineCode("--fail-on") + " were found"},
	{InlineCode("2"), "Any other error, reported on stderr"},
}

// extraKeys are config keys without a default value.
var extraKeys = []string{"mode", "guidelines", "dictionaries", "scripts", "llm.api_key"}

// generateCLIDocs writes an overview page and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := documentedCommands(root)

	pages := map[string][]byte{"index.md": cliIndex(root, commands)}
	for _, cmd := range commands {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// documentedCommands returns the user-facing subcommands of root.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command, commands []*cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for kousei")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/kousei/cmd/kousei@latest")

	w.Header(2, "Commands")
	rows := make([][]string, len(commands))
	for i, cmd := range commands {
		rows[i] = []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		}
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	flagTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Every configuration key can also be set through the environment. "+
		"Lists such as %s take comma separated values. Flags win over the environment, "+
		"which wins over %s.", InlineCode("guidelines"), InlineCode(config.ConfigFileName)))
	keys := slices.Collect(maps.Keys(config.Defaults()))
	keys = append(keys, extraKeys...)
	sort.Strings(keys)
	envRows := make([][]string, len(keys))
	for i, key := range keys {
		envRows[i] = []string{InlineCode(config.EnvVar(key)), InlineCode(key)}
	}
	w.Table([]string{"Variable", "Config key"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, exitCodes)
	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, "kousei "+cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if !strings.HasPrefix(use, "kousei") {
		use = "kousei " + use
	}
	w.CodeBlock("bash", use)

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		flagTable(w, cmd.LocalFlags())
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

// flagTable lists flags with the config key each one overrides, so the
// CLI and configuration pages can be read side by side.
func flagTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := f.DefValue
		if def != "" && def != "[]" && def != "false" {
			def = InlineCode(def)
		} else {
			def = ""
		}
		key := ""
		if overridesConfig(f.Name) {
			key = InlineCode(config.FlagKey(f.Name))
		}
		rows = append(rows, []string{name, def, key, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Config key", "Description"}, rows)
}

// overridesConfig reports whether a flag is layered into the configuration.
func overridesConfig(flag string) bool {
	key := config.FlagKey(flag)
	if _, ok := config.Defaults()[key]; ok {
		return true
	}
	return slices.Contains(extraKeys, key)
}

// dedent strips the indentation cobra examples carry.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
