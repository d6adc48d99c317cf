package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/dialogue"
	"github.com/leapstack-labs/kousei/pkg/guideline"
	"github.com/leapstack-labs/kousei/pkg/textutil"
)

// ErrNoTokenizer is returned internally when token rules are eligible but no
// tokenizer was configured.
var ErrNoTokenizer = errors.New("no tokenizer configured")

// Lint runs every enabled, eligible rule against text under the current mode
// and active guidelines. Document-tier rules are not run; see LintDocument.
func (r *Runner) Lint(ctx context.Context, text string) []core.Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lintText(ctx, text, nil, r.currentPass())
}

// LintWithGuidelines is Lint with an explicit guideline list and mode for
// this call only. tokens may be nil, in which case the tokenizer is asked
// for them when a token rule is eligible. A nil guideline list means all
// guidelines; an empty mode means no mode.
func (r *Runner) LintWithGuidelines(ctx context.Context, text string, tokens []core.Token, guidelines []guideline.ID, mode guideline.ModeID) []core.Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lintText(ctx, text, tokens, r.passFor(guidelines, true, mode))
}

// LintDocument lints every paragraph and then runs document-tier rules once
// over the whole document, merging their issues by paragraph index. The
// result has one entry per paragraph.
func (r *Runner) LintDocument(ctx context.Context, paragraphs []string) []core.ParagraphIssues {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lintDocument(ctx, paragraphs, r.currentPass())
}

// LintDocumentWithGuidelines is LintDocument with an explicit guideline list
// and mode for this call only.
func (r *Runner) LintDocumentWithGuidelines(ctx context.Context, paragraphs []string, guidelines []guideline.ID, mode guideline.ModeID) []core.ParagraphIssues {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lintDocument(ctx, paragraphs, r.passFor(guidelines, true, mode))
}

func (r *Runner) lintText(ctx context.Context, text string, tokens []core.Token, p pass) []core.Issue {
	if textutil.IsBlank(text) {
		return nil
	}

	planned := r.plan(p)
	res := newFinisher(text)

	var issues []core.Issue
	var tokenRules []plannedRule
	for _, pr := range planned {
		if IsDocumentRule(pr.rule) {
			continue
		}
		if pr.rule.Level().NeedsTokens() {
			tokenRules = append(tokenRules, pr)
			continue
		}
		found := r.safeRun(pr.rule, func() []core.Issue { return pr.rule.Lint(text, pr.cfg) })
		issues = append(issues, res.finish(pr, found)...)
	}

	if len(tokenRules) > 0 && tokens == nil {
		var err error
		tokens, err = r.tokenize(ctx, text)
		if err != nil {
			level := slog.LevelWarn
			if errors.Is(err, ErrNoTokenizer) {
				level = slog.LevelDebug
			}
			r.logger.Log(ctx, level, "skipping token rules",
				slog.Int("rules", len(tokenRules)),
				slog.String("error", err.Error()))
			tokenRules = nil
		}
	}

	for _, pr := range tokenRules {
		found := r.safeRun(pr.rule, func() []core.Issue { return pr.rule.LintWithTokens(text, tokens, pr.cfg) })
		issues = append(issues, res.finish(pr, found)...)
	}

	core.SortIssues(issues)
	r.logger.Debug("lint pass complete",
		slog.Int("rules", len(planned)),
		slog.Int("issues", len(issues)))
	return issues
}

func (r *Runner) lintDocument(ctx context.Context, paragraphs []string, p pass) []core.ParagraphIssues {
	out := make([]core.ParagraphIssues, len(paragraphs))
	finishers := make([]*finisher, len(paragraphs))
	for i, para := range paragraphs {
		out[i] = core.ParagraphIssues{Paragraph: i, Issues: r.lintText(ctx, para, nil, p)}
	}

	for _, pr := range r.plan(p) {
		if !IsDocumentRule(pr.rule) {
			continue
		}
		var results []core.ParagraphIssues
		r.safeRun(pr.rule, func() []core.Issue {
			results = pr.rule.LintDocument(paragraphs, pr.cfg)
			return nil
		})
		for _, pi := range results {
			idx := pi.Paragraph
			if idx < 0 || idx >= len(paragraphs) {
				r.logger.Debug("dropping document issues for unknown paragraph",
					slog.String("rule", pr.rule.ID()),
					slog.Int("paragraph", idx))
				continue
			}
			if finishers[idx] == nil {
				finishers[idx] = newFinisher(paragraphs[idx])
			}
			out[idx].Issues = append(out[idx].Issues, finishers[idx].finish(pr, pi.Issues)...)
		}
	}

	for i := range out {
		core.SortIssues(out[i].Issues)
	}
	return out
}

func (r *Runner) tokenize(ctx context.Context, text string) ([]core.Token, error) {
	if r.tokenizer == nil {
		return nil, ErrNoTokenizer
	}
	tokens, err := r.tokenizer.Tokenize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return tokens, nil
}

// safeRun calls fn and converts a panic into an empty result.
func (r *Runner) safeRun(rule Rule, fn func() []core.Issue) (issues []core.Issue) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("rule panicked",
				slog.String("rule", rule.ID()),
				slog.Any("panic", rec))
			issues = nil
		}
	}()
	return fn()
}

// finisher normalizes rule output for one text: stamps rule ID and
// configured severity, clamps ranges and applies dialogue skipping.
type finisher struct {
	text string
	n    int
	mask *dialogue.Mask
}

func newFinisher(text string) *finisher {
	return &finisher{text: text, n: textutil.RuneLen(text)}
}

func (f *finisher) finish(pr plannedRule, found []core.Issue) []core.Issue {
	out := make([]core.Issue, 0, len(found))
	for _, iss := range found {
		iss.RuleID = pr.rule.ID()
		iss.Severity = pr.cfg.Severity
		iss.Clamp(f.n)
		if pr.cfg.SkipDialogue {
			if f.mask == nil {
				f.mask = dialogue.NewMask(f.text)
			}
			if f.mask.InDialogue(iss.From) {
				continue
			}
		}
		out = append(out, iss)
	}
	return out
}
