package commands

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kousei/internal/cli/output"
	"github.com/leapstack-labs/kousei/pkg/guideline"
)

// NewModesCommand creates the modes command.
func NewModesCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List correction modes and guidelines",
		Long: `List the correction modes, the guidelines each one activates and the
rule adjustments it applies, followed by the known guidelines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := output.ParseMode(format)
			if err != nil {
				return err
			}
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			return listModes(r, guideline.DefaultCatalog())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: auto, text, table, json")
	return cmd
}

// ModesOutput is the JSON output of the modes command.
type ModesOutput struct {
	Modes      []guideline.Mode      `json:"modes"`
	Guidelines []guideline.Guideline `json:"guidelines"`
}

func listModes(r *output.Renderer, catalog *guideline.Catalog) error {
	modes := catalog.Modes()
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ModesOutput{Modes: modes, Guidelines: catalog.Guidelines()})
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Mode", "Name", "Guidelines", "Adjusted rules", "Description"})
	for _, m := range modes {
		ids := make([]string, len(m.Guidelines))
		for i, g := range m.Guidelines {
			ids[i] = string(g)
		}
		adjusted := make([]string, 0, len(m.Patches))
		for id := range m.Patches {
			adjusted = append(adjusted, id)
		}
		sort.Strings(adjusted)
		t.AppendRow(table.Row{m.ID, m.Name, strings.Join(ids, ", "), strings.Join(adjusted, ", "), m.Description})
	}
	t.Render()
	r.Println("")

	g := table.NewWriter()
	g.SetOutputMirror(r.Writer())
	g.SetStyle(table.StyleLight)
	g.AppendHeader(table.Row{"Guideline", "Name", "Reference"})
	for _, gl := range catalog.Guidelines() {
		g.AppendRow(table.Row{gl.ID, gl.Name, gl.Reference})
	}
	g.Render()
	return nil
}
