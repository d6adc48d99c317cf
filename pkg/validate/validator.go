package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
	"github.com/leapstack-labs/kousei/pkg/llm"
)

// FailurePolicy decides what happens to an issue whose verdict could not be
// obtained (timeout, client error, unparsable or missing entry).
type FailurePolicy string

// Failure policies.
const (
	// FailureKeep keeps the issue and marks it unverified.
	FailureKeep FailurePolicy = "keep"
	// FailureDrop removes the issue.
	FailureDrop FailurePolicy = "drop"
)

// Config tunes a Validator.
type Config struct {
	BatchSize      int           `json:"batch_size" yaml:"batch_size"`
	Concurrency    int           `json:"concurrency" yaml:"concurrency"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	ContextRadius  int           `json:"context_radius" yaml:"context_radius"`
	FailurePolicy  FailurePolicy `json:"failure_policy" yaml:"failure_policy"`
	MaxTokens      int           `json:"max_tokens" yaml:"max_tokens"`
}

// DefaultConfig returns the configuration used when fields are left zero.
func DefaultConfig() Config {
	return Config{
		BatchSize:      5,
		Concurrency:    4,
		RequestTimeout: 30 * time.Second,
		ContextRadius:  40,
		FailurePolicy:  FailureKeep,
		MaxTokens:      1024,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.ContextRadius <= 0 {
		c.ContextRadius = d.ContextRadius
	}
	if c.FailurePolicy != FailureDrop {
		c.FailurePolicy = FailureKeep
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	return c
}

// Context is the information shared by every candidate of one validation call.
type Context struct {
	Text       string           `json:"text"`
	Mode       guideline.ModeID `json:"mode,omitempty"`
	Guidelines []guideline.ID   `json:"guidelines,omitempty"`
}

// Result is the outcome of ValidateCandidates.
type Result struct {
	RunID     string       `json:"run_id"`
	Issues    []core.Issue `json:"issues"`
	Cancelled bool         `json:"cancelled"`
	Stats     Stats        `json:"stats"`
}

// Stats counts what happened to the candidates of a run.
type Stats struct {
	Candidates int `json:"candidates"`
	Confirmed  int `json:"confirmed"`
	Rejected   int `json:"rejected"`
	Unverified int `json:"unverified"`
	Dropped    int `json:"dropped"` // Removed by FailureDrop
	CacheHits  int `json:"cache_hits"`
	Discarded  int `json:"discarded"` // Never resolved because of cancellation
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithCache sets the verdict cache.
func WithCache(cache Cache) Option {
	return func(v *Validator) {
		v.cache = cache
	}
}

// Validator asks an LLM to confirm or reject lint candidates.
type Validator struct {
	client llm.Client
	config Config
	cache  Cache
	logger *slog.Logger
}

// New creates a Validator. A nil client makes every candidate unverified.
func New(client llm.Client, cfg Config, opts ...Option) *Validator {
	v := &Validator{
		client: client,
		config: cfg.withDefaults(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Config returns the effective configuration.
func (v *Validator) Config() Config {
	return v.config
}

// outcome is the resolution of one candidate.
type outcome int

const (
	outcomePending outcome = iota
	outcomeConfirmed
	outcomeRejected
	outcomeFailed
)

type slot struct {
	outcome outcome
	reason  string
	cached  bool
}

// ValidateCandidates filters issues through the LLM. It never returns an
// error: failures resolve according to the failure policy, and cancellation
// yields the candidates of the batches resolved so far with Cancelled set.
// The order of issues is preserved.
func (v *Validator) ValidateCandidates(ctx context.Context, issues []core.Issue, vctx Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	res := Result{RunID: uuid.NewString(), Issues: []core.Issue{}}
	res.Stats.Candidates = len(issues)

	ctx, span := otel.Tracer("validate").Start(ctx, "validate.Validator.ValidateCandidates",
		trace.WithAttributes(
			attribute.String("run_id", res.RunID),
			attribute.Int("candidates", len(issues)),
			attribute.String("mode", string(vctx.Mode)),
		),
	)
	defer span.End()
	defer func() {
		observeRun(res, time.Since(start))
	}()

	if len(issues) == 0 {
		return res
	}

	if v.client == nil || !v.client.IsAvailable(ctx) {
		v.logger.Warn("llm client unavailable, keeping candidates unverified",
			slog.Int("candidates", len(issues)))
		span.SetAttributes(attribute.Bool("client_available", false))
		for _, issue := range issues {
			issue.Validation = core.ValidationUnverified
			res.Issues = append(res.Issues, issue)
		}
		res.Stats.Unverified = len(issues)
		res.Cancelled = ctx.Err() != nil
		return res
	}

	slots := make([]slot, len(issues))
	pending := v.fromCache(ctx, issues, vctx, slots)

	batches := chunk(pending, v.config.BatchSize)
	resolved := make([]bool, len(batches))

	var g errgroup.Group
	g.SetLimit(v.config.Concurrency)
	for b, batch := range batches {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			local := make([]slot, len(batch))
			v.runBatch(ctx, issues, batch, vctx, local)
			if ctx.Err() != nil {
				// Aborted mid-flight; the verdicts are discarded.
				return nil
			}
			for i, idx := range batch {
				slots[idx] = local[i]
			}
			resolved[b] = true
			return nil
		})
	}
	_ = g.Wait()

	cancelled := ctx.Err() != nil
	// Candidates answered by the cache count as resolved even under cancellation.
	inBatch := make([]int, len(issues))
	for i := range inBatch {
		inBatch[i] = -1
	}
	for b, batch := range batches {
		for _, idx := range batch {
			inBatch[idx] = b
		}
	}

	for i, issue := range issues {
		if b := inBatch[i]; b >= 0 && !resolved[b] {
			res.Stats.Discarded++
			continue
		}
		s := slots[i]
		if s.cached {
			res.Stats.CacheHits++
		}
		switch s.outcome {
		case outcomeConfirmed:
			issue.Validation = core.ValidationConfirmed
			res.Issues = append(res.Issues, issue)
			res.Stats.Confirmed++
		case outcomeRejected:
			res.Stats.Rejected++
			v.logger.Debug("candidate rejected",
				slog.String("rule", issue.RuleID),
				slog.Int("from", issue.From),
				slog.String("reason", s.reason))
		default:
			if v.config.FailurePolicy == FailureDrop {
				res.Stats.Dropped++
				continue
			}
			issue.Validation = core.ValidationUnverified
			res.Issues = append(res.Issues, issue)
			res.Stats.Unverified++
		}
	}

	res.Cancelled = cancelled
	span.SetAttributes(
		attribute.Bool("cancelled", cancelled),
		attribute.Int("confirmed", res.Stats.Confirmed),
		attribute.Int("rejected", res.Stats.Rejected),
		attribute.Int("unverified", res.Stats.Unverified),
		attribute.Int("discarded", res.Stats.Discarded),
	)
	if cancelled {
		span.SetStatus(codes.Error, "cancelled")
	}
	v.logger.Debug("validation finished",
		slog.String("run_id", res.RunID),
		slog.Int("candidates", len(issues)),
		slog.Int("kept", len(res.Issues)),
		slog.Bool("cancelled", cancelled),
		slog.Duration("duration", time.Since(start)))
	return res
}

// fromCache resolves candidates with a cached verdict and returns the indices
// that still need the LLM.
func (v *Validator) fromCache(ctx context.Context, issues []core.Issue, vctx Context, slots []slot) []int {
	pending := make([]int, 0, len(issues))
	for i, issue := range issues {
		if v.cache == nil {
			pending = append(pending, i)
			continue
		}
		verdict, ok, err := v.cache.Get(ctx, CacheKey(issue, vctx, v.config.ContextRadius))
		if err != nil {
			v.logger.Warn("verdict cache lookup failed", slog.String("error", err.Error()))
		}
		if !ok {
			recordCache(false)
			pending = append(pending, i)
			continue
		}
		recordCache(true)
		slots[i] = verdictSlot(verdict)
		slots[i].cached = true
	}
	return pending
}

// runBatch asks the LLM about one batch and writes into local, which is
// parallel to batch.
func (v *Validator) runBatch(ctx context.Context, issues []core.Issue, batch []int, vctx Context, local []slot) {
	ctx, cancel := context.WithTimeout(ctx, v.config.RequestTimeout)
	defer cancel()

	ctx, span := otel.Tracer("validate").Start(ctx, "validate.Validator.runBatch",
		trace.WithAttributes(attribute.Int("size", len(batch))))
	defer span.End()

	candidates := make([]candidate, len(batch))
	for i, idx := range batch {
		candidates[i] = newCandidate(i, issues[idx], vctx.Text, v.config.ContextRadius)
	}

	prompt, err := buildPrompt(candidates, vctx)
	if err != nil {
		v.failBatch(span, local, "prompt", err)
		return
	}

	start := time.Now()
	raw, err := v.client.Infer(ctx, prompt, llm.InferOptions{
		System:    systemPrompt,
		MaxTokens: v.config.MaxTokens,
		JSON:      true,
	})
	observeRequest(time.Since(start), err)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		v.failBatch(span, local, reason, err)
		return
	}

	verdicts, err := parseVerdicts(raw)
	if err != nil {
		v.failBatch(span, local, "parse", err)
		return
	}

	for i := range local {
		verdict, ok := verdicts[i]
		if !ok {
			local[i] = slot{outcome: outcomeFailed, reason: "missing verdict"}
			continue
		}
		local[i] = verdictSlot(verdict)
		if v.cache != nil {
			issue := issues[batch[i]]
			if err := v.cache.Set(ctx, CacheKey(issue, vctx, v.config.ContextRadius), verdict); err != nil {
				v.logger.Warn("verdict cache store failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (v *Validator) failBatch(span trace.Span, local []slot, reason string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	recordBatchFailure(reason)
	v.logger.Warn("validation batch failed",
		slog.String("reason", reason),
		slog.Int("size", len(local)),
		slog.String("error", err.Error()))
	for i := range local {
		local[i] = slot{outcome: outcomeFailed, reason: fmt.Sprintf("%s: %v", reason, err)}
	}
}

func verdictSlot(v Verdict) slot {
	if v.Valid {
		return slot{outcome: outcomeConfirmed, reason: v.Reason}
	}
	return slot{outcome: outcomeRejected, reason: v.Reason}
}

func chunk(indices []int, size int) [][]int {
	var out [][]int
	for len(indices) > 0 {
		n := min(size, len(indices))
		out = append(out, indices[:n:n])
		indices = indices[n:]
	}
	return out
}
