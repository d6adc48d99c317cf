package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// OpenAIConfig configures OpenAIClient. BaseURL points at any
// OpenAI-compatible server, including local ones.
type OpenAIConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	SystemPrompt      string
	RequestsPerSecond float64 // 0 disables rate limiting
	Burst             int
	BatchConcurrency  int
	AvailableTimeout  time.Duration
}

// DefaultOpenAIConfig returns conservative defaults.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:             "gpt-4o-mini",
		SystemPrompt:      "あなたは日本語の校正者です。指示された形式で簡潔に答えてください。",
		RequestsPerSecond: 5,
		Burst:             5,
		BatchConcurrency:  4,
		AvailableTimeout:  3 * time.Second,
	}
}

// OpenAIClient implements Client with the chat completions API.
type OpenAIClient struct {
	client  *openai.Client
	cfg     OpenAIConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAIClient builds a client. Zero-valued fields of cfg fall back to
// DefaultOpenAIConfig.
func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) *OpenAIClient {
	def := DefaultOpenAIConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = def.BatchConcurrency
	}
	if cfg.AvailableTimeout <= 0 {
		cfg.AvailableTimeout = def.AvailableTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	logger.Info("initializing OpenAI client", slog.String("model", cfg.Model), slog.String("base_url", oc.BaseURL))
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(oc),
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}
}

// IsAvailable lists models with a short timeout.
func (o *OpenAIClient) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.AvailableTimeout)
	defer cancel()
	if _, err := o.client.ListModels(ctx); err != nil {
		o.logger.Debug("LLM backend unavailable", slog.String("error", err.Error()))
		return false
	}
	return true
}

// Infer implements Client.
func (o *OpenAIClient) Infer(ctx context.Context, prompt string, opts InferOptions) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	system := opts.System
	if system == "" {
		system = o.cfg.SystemPrompt
	}
	req := openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxCompletionTokens = opts.MaxTokens
	}
	if opts.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	o.logger.Debug("received completion",
		slog.String("model", o.cfg.Model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return resp.Choices[0].Message.Content, nil
}

// InferBatch implements Client with bounded concurrency.
func (o *OpenAIClient) InferBatch(ctx context.Context, prompts []string, opts InferOptions) ([]string, error) {
	results := make([]string, len(prompts))
	errs := make([]error, len(prompts))

	var g errgroup.Group
	g.SetLimit(o.cfg.BatchConcurrency)
	for i, prompt := range prompts {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		g.Go(func() error {
			out, err := o.Infer(ctx, prompt, opts)
			if err != nil {
				errs[i] = fmt.Errorf("prompt %d: %w", i, err)
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}
