package validate

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
)

//go:embed templates/prompt.tmpl
var promptTemplate string

const systemPrompt = "あなたは日本語の校正者です。指摘候補が本当に誤りかどうかを判定し、指定されたJSONだけを返してください。"

// Target markers wrapped around the flagged span in the context excerpt.
const (
	markOpen  = "【"
	markClose = "】"
)

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"joinIDs": func(ids []guideline.ID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = string(id)
		}
		return strings.Join(parts, ", ")
	},
}).Parse(promptTemplate))

// candidate is one issue as presented to the LLM.
type candidate struct {
	Index   int
	RuleID  string
	From    int
	To      int
	Target  string
	Excerpt string
	Message string
	Fix     string
}

func newCandidate(index int, issue core.Issue, text string, radius int) candidate {
	runes := []rune(text)
	from, to := clampRange(issue.From, issue.To, len(runes))
	start := max(0, from-radius)
	end := min(len(runes), to+radius)

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(string(runes[start:from]))
	b.WriteString(markOpen)
	b.WriteString(string(runes[from:to]))
	b.WriteString(markClose)
	b.WriteString(string(runes[to:end]))
	if end < len(runes) {
		b.WriteString("…")
	}

	msg := issue.LocalizedMessage
	if msg == "" {
		msg = issue.Message
	}
	c := candidate{
		Index:   index,
		RuleID:  issue.RuleID,
		From:    issue.From,
		To:      issue.To,
		Target:  string(runes[from:to]),
		Excerpt: strings.ReplaceAll(b.String(), "\n", " "),
		Message: msg,
	}
	if issue.Fix != nil {
		c.Fix = issue.Fix.Replacement
	}
	return c
}

func clampRange(from, to, n int) (int, int) {
	from = min(max(from, 0), n)
	to = min(max(to, from), n)
	return from, to
}

type promptData struct {
	Mode       guideline.ModeID
	Guidelines []guideline.ID
	Candidates []candidate
}

func buildPrompt(candidates []candidate, vctx Context) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, promptData{
		Mode:       vctx.Mode,
		Guidelines: vctx.Guidelines,
		Candidates: candidates,
	})
	if err != nil {
		return "", fmt.Errorf("render validation prompt: %w", err)
	}
	return buf.String(), nil
}
