package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"github.com/leapstack-labs/kousei/pkg/core"
)

// LocatedIssue is an issue with its paragraph index and the 1-based source
// line the paragraph starts on. Column counts runes within the paragraph;
// From and To stay relative to it too.
type LocatedIssue struct {
	core.Issue
	Paragraph int `json:"paragraph"`
	Line      int `json:"line"`
	Column    int `json:"column"`
}

// FileIssues holds the issues found in one input.
type FileIssues struct {
	Path   string         `json:"path"`
	Issues []LocatedIssue `json:"issues"`

	Paragraphs []string `json:"-"` // Linted text, for excerpts
}

// Summary counts issues by severity.
type Summary struct {
	Files    int `json:"files"`
	Issues   int `json:"issues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Summarize counts the issues in files.
func Summarize(files []FileIssues) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		for _, is := range f.Issues {
			s.Issues++
			switch is.Severity {
			case core.SeverityError:
				s.Errors++
			case core.SeverityWarning:
				s.Warnings++
			case core.SeverityInfo:
				s.Info++
			}
		}
	}
	return s
}

// IssuesOutput is the JSON shape of a lint run.
type IssuesOutput struct {
	Files   []FileIssues `json:"files"`
	Summary Summary      `json:"summary"`
}

// Issues renders lint results in the effective mode.
func (r *Renderer) Issues(files []FileIssues) error {
	summary := Summarize(files)
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(IssuesOutput{Files: files, Summary: summary})
	case ModeTable:
		r.issuesTable(files)
	default:
		r.issuesText(files)
	}
	r.summary(summary)
	return nil
}

func (r *Renderer) issuesText(files []FileIssues) {
	st := r.styles
	for _, f := range files {
		if len(f.Issues) == 0 {
			continue
		}
		r.Println(st.Bold.Render(f.Path))
		for _, is := range f.Issues {
			loc := fmt.Sprintf("%d:%d", is.Line, is.Column)
			msg := is.Message
			if is.LocalizedMessage != "" {
				msg = is.LocalizedMessage
			}
			r.Printf("  %s  %s  %s  %s%s\n",
				st.Muted.Render(fmt.Sprintf("%-7s", loc)),
				r.severity(is.Severity),
				st.Bold.Render(is.RuleID),
				msg,
				validationMark(is.Validation))

			if is.Paragraph >= 0 && is.Paragraph < len(f.Paragraphs) {
				line := f.Paragraphs[is.Paragraph]
				pad, width := CaretSpan(line, is.From, is.To)
				r.Println("    " + line)
				r.Println("    " + strings.Repeat(" ", pad) + st.Caret.Render(strings.Repeat("^", width)))
			}
			if is.Fix != nil {
				r.Println("    " + st.Fix.Render("→ "+is.Fix.Replacement))
			}
		}
		r.Println("")
	}
}

func (r *Renderer) issuesTable(files []FileIssues) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message", "Fix"})
	for _, f := range files {
		for _, is := range f.Issues {
			fix := ""
			if is.Fix != nil {
				fix = is.Fix.Replacement
			}
			msg := is.Message
			if is.LocalizedMessage != "" {
				msg = is.LocalizedMessage
			}
			t.AppendRow(table.Row{f.Path, is.Line, is.Column, is.Severity.String(), is.RuleID, msg, fix})
		}
	}
	t.Render()
}

func (r *Renderer) summary(s Summary) {
	if s.Issues == 0 {
		r.Success("No issues found")
		return
	}
	parts := []string{strconv.Itoa(s.Issues) + " issues"}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(parts, ", "), s.Files)
}

func (r *Renderer) severity(sev core.Severity) string {
	label := fmt.Sprintf("%-7s", sev.String())
	switch sev {
	case core.SeverityError:
		return r.styles.Error.Render(label)
	case core.SeverityWarning:
		return r.styles.Warning.Render(label)
	case core.SeverityInfo:
		return r.styles.Info.Render(label)
	default:
		return r.styles.Muted.Render(label)
	}
}

func validationMark(v core.ValidationState) string {
	switch v {
	case core.ValidationConfirmed:
		return " (confirmed)"
	case core.ValidationUnverified:
		return " (unverified)"
	default:
		return ""
	}
}

// CaretSpan returns the display columns before the rune range [from, to) of
// line and the display width of the range itself, which is at least 1.
// East Asian wide characters occupy two columns.
func CaretSpan(line string, from, to int) (pad, width int) {
	runes := []rune(line)
	from = min(max(from, 0), len(runes))
	to = min(max(to, from), len(runes))
	pad = runewidth.StringWidth(string(runes[:from]))
	width = max(runewidth.StringWidth(string(runes[from:to])), 1)
	return pad, width
}
