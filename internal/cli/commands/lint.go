package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/kousei/internal/cli/output"
	"github.com/leapstack-labs/kousei/internal/extract"
	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/lint"
	"github.com/leapstack-labs/kousei/pkg/textutil"
	"github.com/leapstack-labs/kousei/pkg/validate"
)

// ErrIssuesFound is returned when issues at or above the --fail-on severity
// were reported.
var ErrIssuesFound = errors.New("lint issues found")

// stdinPath names standard input in output.
const stdinPath = "<stdin>"

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format string // Output format: auto, text, table, json
	FailOn string // Minimum severity that fails the run, or "none"
	Watch  bool   // Re-lint files when they change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [file...]",
		Short: "Check Japanese prose for issues",
		Long: `Lint Japanese text files, or standard input when no file is given.

Each line is linted as a paragraph; notation consistency is checked across
the whole file. Files ending in .html or .htm are reduced to the text of
their block elements first. Rule settings, mode and guidelines come from kousei.yaml and
can be overridden with flags.

With --validate every candidate issue is sent to the configured LLM endpoint,
which confirms or rejects it.`,
		Example: `  # Lint a file
  kousei lint draft.txt

  # Lint stdin with the novel mode
  cat chapter1.txt | kousei lint --mode novel

  # Restrict to official-document guidelines, output a table
  kousei lint --guideline koyobun,okurigana -f table report.txt

  # Confirm candidates with a local LLM
  kousei lint --validate --llm-url http://localhost:11434/v1 draft.txt

  # Re-lint on every save
  kousei lint --watch draft.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, table, json")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "warning", "Exit non-zero for issues at or above: error, warning, info, none")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch files and re-lint on change")
	addLintConfigFlags(cmd.Flags())
	addValidationFlags(cmd.Flags())

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("fail-on", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "none"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// addLintConfigFlags registers the flags that override lint settings from
// kousei.yaml.
func addLintConfigFlags(fs *pflag.FlagSet) {
	fs.StringP("mode", "m", "", "Correction mode: novel, official, blog, sns, academic")
	fs.StringSliceP("guideline", "g", nil, "Active guidelines (comma separated)")
	fs.StringSlice("dict", nil, "User dictionary files (YAML)")
	fs.StringSlice("script", nil, "Rule scripts (Starlark)")
}

// addValidationFlags registers the flags that override LLM validation
// settings from kousei.yaml.
func addValidationFlags(fs *pflag.FlagSet) {
	fs.Bool("validate", false, "Confirm candidates with the LLM")
	fs.String("llm-url", "", "OpenAI-compatible API base URL")
	fs.String("llm-model", "", "Model used for validation")
	fs.Int("batch-size", 0, "Candidates per LLM request")
	fs.Int("concurrency", 0, "Concurrent LLM requests")
	fs.String("failure-mode", "", "What to do with candidates whose request failed: keep, drop")
	fs.String("cache", "", "Verdict cache: none, memory, sqlite")
	fs.String("cache-path", "", "SQLite verdict cache path")
}

func runLint(cmd *cobra.Command, opts *LintOptions, args []string) error {
	cc, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	threshold, enforce, err := parseFailOn(opts.FailOn)
	if err != nil {
		return err
	}

	runner, err := cc.NewRunner()
	if err != nil {
		return err
	}
	l := &linter{runner: runner, logger: cc.Logger}
	if cc.Cfg.Validation.Enabled {
		v, closeCache, err := cc.NewValidator()
		if err != nil {
			return err
		}
		defer func() { _ = closeCache() }()
		l.validator = v
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r := cc.Renderer

	if opts.Watch {
		if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
			return errors.New("--watch needs at least one file")
		}
		lintAndRender := func(paths ...string) {
			files, err := l.lintPaths(ctx, paths)
			if err != nil {
				r.Warn(err.Error())
				return
			}
			if err := r.Issues(files); err != nil {
				r.Warn(err.Error())
			}
		}
		lintAndRender(args...)
		return watchFiles(ctx, args, cc.Logger, func(path string) {
			cc.Logger.Debug("file changed, re-linting", "file", path)
			lintAndRender(path)
		})
	}

	var files []output.FileIssues
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		files = []output.FileIssues{l.lintDocument(ctx, stdinPath, extract.Text(string(text)))}
	} else if files, err = l.lintPaths(ctx, args); err != nil {
		return err
	}

	if err := r.Issues(files); err != nil {
		return err
	}
	if enforce && anyAtLeast(files, threshold) {
		return ErrIssuesFound
	}
	return nil
}

// parseFailOn turns a --fail-on value into a severity threshold. "none"
// disables the check.
func parseFailOn(s string) (core.Severity, bool, error) {
	if strings.EqualFold(s, "none") {
		return 0, false, nil
	}
	sev, ok := core.ParseSeverity(s)
	if !ok {
		return 0, false, fmt.Errorf("invalid --fail-on %q (want error, warning, info or none)", s)
	}
	return sev, true, nil
}

func anyAtLeast(files []output.FileIssues, threshold core.Severity) bool {
	for _, f := range files {
		for _, is := range f.Issues {
			if is.Severity.AtLeast(threshold) {
				return true
			}
		}
	}
	return false
}

// linter lints files paragraph by paragraph and optionally validates the
// result.
type linter struct {
	runner    *lint.Runner
	validator *validate.Validator
	logger    *slog.Logger
}

func (l *linter) lintPaths(ctx context.Context, paths []string) ([]output.FileIssues, error) {
	files := make([]output.FileIssues, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc := extract.Parse(string(content), extract.FormatFor(path))
		files = append(files, l.lintDocument(ctx, path, doc))
	}
	return files, nil
}

func (l *linter) lintDocument(ctx context.Context, path string, doc extract.Document) output.FileIssues {
	located := []output.LocatedIssue{}
	for _, p := range l.runner.LintDocument(ctx, doc.Paragraphs) {
		for _, is := range p.Issues {
			located = append(located, locate(doc, p.Paragraph, is))
		}
	}
	if l.validator != nil && len(located) > 0 {
		located = l.validate(ctx, doc, located)
	}
	return output.FileIssues{Path: path, Issues: located, Paragraphs: doc.Paragraphs}
}

func locate(doc extract.Document, paragraph int, is core.Issue) output.LocatedIssue {
	return output.LocatedIssue{
		Issue:     is,
		Paragraph: paragraph,
		Line:      doc.Line(paragraph),
		Column:    is.From + 1,
	}
}

// validate sends the issues of a file to the validator in one run. Offsets
// are shifted to the joined text and back again.
func (l *linter) validate(ctx context.Context, doc extract.Document, located []output.LocatedIssue) []output.LocatedIssue {
	starts := make([]int, len(doc.Paragraphs))
	offset := 0
	for i, p := range doc.Paragraphs {
		starts[i] = offset
		offset += textutil.RuneLen(p) + 1
	}

	issues := make([]core.Issue, len(located))
	for i, li := range located {
		is := li.Issue
		is.From += starts[li.Paragraph]
		is.To += starts[li.Paragraph]
		issues[i] = is
	}

	res := l.validator.ValidateCandidates(ctx, issues, validate.Context{
		Text:       strings.Join(doc.Paragraphs, "\n"),
		Mode:       l.runner.Mode(),
		Guidelines: l.runner.ActiveGuidelines(),
	})
	l.logger.Debug("validation complete",
		"run_id", res.RunID,
		"confirmed", res.Stats.Confirmed,
		"rejected", res.Stats.Rejected,
		"unverified", res.Stats.Unverified,
		"cancelled", res.Cancelled)

	out := make([]output.LocatedIssue, 0, len(res.Issues))
	for _, is := range res.Issues {
		p := sort.Search(len(starts), func(i int) bool { return starts[i] > is.From }) - 1
		is.From -= starts[p]
		is.To -= starts[p]
		out = append(out, locate(doc, p, is))
	}
	return out
}
