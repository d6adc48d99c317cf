package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sajari/fuzzy"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kousei/internal/cli/output"
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group  string // Filter by group
	Format string // Output format
}

// RuleView is a rule's documentation together with its effective settings.
type RuleView struct {
	core.RuleInfo
	Enabled      bool          `json:"enabled"`
	Severity     core.Severity `json:"severity"`
	SkipDialogue bool          `json:"skip_dialogue"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List lint rules and their settings",
		Long: `List every lint rule with the settings that apply after kousei.yaml,
the selected mode and flags are taken into account.

Pass a rule ID to see its documentation.`,
		Example: `  # List all rules
  kousei rules

  # Rules as they apply in the novel mode
  kousei rules --mode novel

  # Show one rule
  kousei rules ra-nuki

  # Output as JSON
  kousei rules -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd, opts.Format)
			if err != nil {
				return err
			}
			runner, err := cc.NewRunner()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return showRule(cc.Renderer, runner, args[0])
			}
			return listRules(cc.Renderer, runner, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "Filter by group: grammar, style, notation, semantic")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, table, json")
	addLintConfigFlags(cmd.Flags())

	return cmd
}

func ruleViews(runner *lint.Runner, group string) []RuleView {
	var views []RuleView
	for _, info := range runner.RuleInfos() {
		if group != "" && info.Group != group {
			continue
		}
		cfg, _ := runner.Config(info.ID)
		views = append(views, RuleView{
			RuleInfo:     info,
			Enabled:      cfg.Enabled,
			Severity:     cfg.Severity,
			SkipDialogue: cfg.SkipDialogue,
		})
	}
	return views
}

func listRules(r *output.Renderer, runner *lint.Runner, opts *RulesOptions) error {
	views := ruleViews(runner, opts.Group)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(views)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Group", "Level", "Severity", "Enabled", "Guidelines"})
	for _, v := range views {
		enabled := "yes"
		if !v.Enabled {
			enabled = "no"
		}
		t.AppendRow(table.Row{v.ID, v.Group, v.Level.String(), v.Severity.String(), enabled, strings.Join(v.Guidelines, ", ")})
	}
	t.Render()
	r.Println(r.Styles().Muted.Render("Use 'kousei rules <rule-id>' for details"))
	return nil
}

func showRule(r *output.Renderer, runner *lint.Runner, id string) error {
	views := ruleViews(runner, "")
	i := slices.IndexFunc(views, func(v RuleView) bool { return v.ID == id })
	if i < 0 {
		ids := make([]string, len(views))
		for j, v := range views {
			ids[j] = v.ID
		}
		if s := suggestRule(ids, id); s != "" {
			return fmt.Errorf("rule %q not found; did you mean %q?", id, s)
		}
		return fmt.Errorf("rule %q not found", id)
	}
	v := views[i]

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(v)
	}

	st := r.Styles()
	r.Println(st.Header.Render(fmt.Sprintf("%s - %s", v.ID, v.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", st.Bold.Render("Group"), v.Group)
	r.Printf("  %s: %s\n", st.Bold.Render("Level"), v.Level)
	r.Printf("  %s: %s\n", st.Bold.Render("Severity"), v.Severity)
	r.Printf("  %s: %t\n", st.Bold.Render("Enabled"), v.Enabled)
	r.Printf("  %s: %t\n", st.Bold.Render("Skip dialogue"), v.SkipDialogue)
	if len(v.Guidelines) > 0 {
		r.Printf("  %s: %s\n", st.Bold.Render("Guidelines"), strings.Join(v.Guidelines, ", "))
	}
	r.Println("")
	r.Println(v.Description)

	if v.Rationale != "" {
		r.Println("")
		r.Println(st.Bold.Render("Why"))
		r.Println("  " + v.Rationale)
	}
	if v.BadExample != "" {
		r.Println("")
		r.Println(st.Bold.Render("Bad"))
		r.Println(st.Muted.Render("  " + v.BadExample))
	}
	if v.GoodExample != "" {
		r.Println("")
		r.Println(st.Bold.Render("Good"))
		r.Println(st.Success.Render("  " + v.GoodExample))
	}
	if len(v.ConfigKeys) > 0 {
		r.Println("")
		r.Printf("%s: %s\n", st.Bold.Render("Options"), strings.Join(v.ConfigKeys, ", "))
	}
	if v.DocURL != "" {
		r.Println("")
		r.Println(st.Muted.Render(v.DocURL))
	}
	return nil
}

// suggestRule returns the known rule ID closest to id, or "".
func suggestRule(ids []string, id string) string {
	model := fuzzy.NewModel()
	model.SetDepth(3)
	model.SetThreshold(1)
	model.Train(ids)
	s := model.SpellCheck(strings.ToLower(id))
	if slices.Contains(ids, s) {
		return s
	}
	return ""
}
