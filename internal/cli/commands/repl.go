package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kousei/internal/cli/output"
	"github.com/leapstack-labs/kousei/internal/extract"
	"github.com/leapstack-labs/kousei/pkg/guideline"
)

const (
	replPrompt = "kousei> "
	replPath   = "<repl>"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Lint sentences interactively",
		Long: `Start an interactive session. Every line typed is linted with the
current settings; dot-commands switch the mode and guidelines on the fly.

Type .help inside the session for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, history)
		},
	}
	cmd.Flags().StringVar(&history, "history", defaultHistoryFile(), "History file (empty disables history)")
	addLintConfigFlags(cmd.Flags())
	return cmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kousei", "repl_history")
}

func runRepl(cmd *cobra.Command, history string) error {
	cc, err := NewCommandContext(cmd, "text")
	if err != nil {
		return err
	}
	runner, err := cc.NewRunner()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if history != "" {
		if err := os.MkdirAll(filepath.Dir(history), 0o755); err != nil {
			cc.Logger.Debug("history disabled", "error", err)
			history = ""
		}
	}

	s := &replSession{
		linter:   &linter{runner: runner, logger: cc.Logger},
		renderer: cc.Renderer,
		out:      cmd.OutOrStdout(),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     history,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "kousei REPL (mode: %s)\n", s.modeName())
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}
		if s.handle(ctx, line) {
			return nil
		}
	}
}

// replSession holds the state of one interactive session.
type replSession struct {
	linter   *linter
	renderer *output.Renderer
	out      io.Writer
}

// handle processes one input line and reports whether the session ends.
func (s *replSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		file := s.linter.lintDocument(ctx, replPath, extract.Text(line))
		if len(file.Issues) == 0 {
			s.renderer.Success("No issues")
			return false
		}
		if err := s.renderer.Issues([]output.FileIssues{file}); err != nil {
			s.renderer.Warn(err.Error())
		}
		return false
	}

	parts := strings.Fields(line)
	runner := s.linter.runner
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(s.out)

	case ".mode":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "mode: %s\n", s.modeName())
			return false
		}
		id := guideline.ModeID(parts[1])
		if id == "none" {
			id = ""
		} else if _, ok := runner.Catalog().Mode(id); !ok {
			s.renderer.Warn(fmt.Sprintf("unknown mode %q", parts[1]))
			return false
		}
		runner.SetMode(id)
		_, _ = fmt.Fprintf(s.out, "mode: %s\n", s.modeName())

	case ".guidelines":
		if len(parts) >= 2 {
			if err := s.setGuidelines(parts[1]); err != nil {
				s.renderer.Warn(err.Error())
				return false
			}
		}
		_, _ = fmt.Fprintf(s.out, "guidelines: %s\n", s.guidelineNames())

	case ".rules":
		if err := listRules(s.renderer, runner, &RulesOptions{}); err != nil {
			s.renderer.Warn(err.Error())
		}

	default:
		s.renderer.Warn(fmt.Sprintf("Unknown command: %s (type .help for commands)", parts[0]))
	}
	return false
}

// setGuidelines parses a comma separated list; "all" lifts the restriction.
func (s *replSession) setGuidelines(arg string) error {
	runner := s.linter.runner
	if arg == "all" {
		runner.SetActiveGuidelines(nil)
		return nil
	}
	var ids []guideline.ID
	for _, part := range strings.Split(arg, ",") {
		id := guideline.ID(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if !runner.Catalog().Has(id) {
			return fmt.Errorf("unknown guideline %q", id)
		}
		ids = append(ids, id)
	}
	runner.SetActiveGuidelines(ids)
	return nil
}

func (s *replSession) modeName() string {
	if m := s.linter.runner.Mode(); m != "" {
		return string(m)
	}
	return "none"
}

func (s *replSession) guidelineNames() string {
	active := s.linter.runner.ActiveGuidelines()
	if active == nil {
		return "all"
	}
	names := make([]string, len(active))
	for i, id := range active {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

func (s *replSession) completer() *readline.PrefixCompleter {
	catalog := s.linter.runner.Catalog()
	modes := []readline.PrefixCompleterInterface{readline.PcItem("none")}
	for _, m := range catalog.Modes() {
		modes = append(modes, readline.PcItem(string(m.ID)))
	}
	guidelines := []readline.PrefixCompleterInterface{readline.PcItem("all")}
	for _, id := range catalog.IDs() {
		guidelines = append(guidelines, readline.PcItem(string(id)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".mode", modes...),
		readline.PcItem(".guidelines", guidelines...),
		readline.PcItem(".rules"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help                 Show this help message
  .mode [id|none]       Show or switch the correction mode
  .guidelines [ids|all] Show or restrict the active guidelines (comma separated)
  .rules                List rules with their current settings
  .quit / .exit         Exit the REPL

Any other line is linted as one paragraph.
`
	_, _ = fmt.Fprintln(w, help)
}
