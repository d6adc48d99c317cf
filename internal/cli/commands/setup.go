package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kousei/internal/cli/output"
	"github.com/leapstack-labs/kousei/internal/config"
	"github.com/leapstack-labs/kousei/internal/dictfile"
	"github.com/leapstack-labs/kousei/internal/scriptrule"
	"github.com/leapstack-labs/kousei/pkg/lint"
	_ "github.com/leapstack-labs/kousei/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/kousei/pkg/llm"
	"github.com/leapstack-labs/kousei/pkg/tokenizer"
	"github.com/leapstack-labs/kousei/pkg/validate"
)

type configKey struct{}

type loggerKey struct{}

// WithConfig stores the loaded configuration in ctx.
func WithConfig(ctx context.Context, cfg *config.Loaded) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Loaded
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the configuration, logger and a renderer for
// format. Commands run outside the root command load the configuration
// themselves from their own flags.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := GetLogger(ctx)

	cfg, ok := ctx.Value(configKey{}).(*config.Loaded)
	if !ok {
		var err error
		if cfg, err = config.Load("", cmd.Flags()); err != nil {
			return nil, err
		}
	}

	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// NewRunner builds a runner with every built-in rule, the kagome tokenizer
// and the configured mode, guidelines, rule settings, dictionaries and rule
// scripts.
func (c *CommandContext) NewRunner() (*lint.Runner, error) {
	runner := lint.NewRunner(
		lint.WithRules(lint.All()...),
		lint.WithTokenizer(tokenizer.NewKagome(tokenizer.WithLogger(c.Logger))),
		lint.WithMode(c.Cfg.ModeID()),
		lint.WithLogger(c.Logger),
	)
	if ids := c.Cfg.GuidelineIDs(); ids != nil {
		runner.SetActiveGuidelines(ids)
	}

	replaced, err := dictfile.Register(runner, c.Cfg.Dictionaries...)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionaries: %w", err)
	}
	if len(replaced) > 0 {
		c.Logger.Debug("loaded user dictionaries", "rules", replaced)
	}

	scripted, err := scriptrule.Load(c.Cfg.Scripts, scriptrule.WithLogger(c.Logger))
	if err != nil {
		return nil, err
	}
	for _, rule := range scripted {
		if _, ok := runner.Rule(rule.ID()); ok {
			return nil, fmt.Errorf("script rule %q conflicts with a built-in rule", rule.ID())
		}
		runner.RegisterRule(rule)
		c.Logger.Debug("loaded rule script", "rule", rule.ID())
	}

	for id, patch := range c.Cfg.RulePatches() {
		if _, ok := runner.Rule(id); !ok {
			c.Logger.Warn("ignoring settings for unknown rule", "rule", id)
			continue
		}
		runner.SetConfig(id, patch)
	}
	return runner, nil
}

// NewValidator builds the candidate validator backed by the configured LLM
// endpoint and verdict cache. The returned close function releases the cache.
func (c *CommandContext) NewValidator() (*validate.Validator, func() error, error) {
	cache, closeCache, err := c.Cfg.OpenCache()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open verdict cache: %w", err)
	}
	client := llm.NewOpenAIClient(c.Cfg.OpenAIConfig(), c.Logger)
	v := validate.New(client, c.Cfg.ValidatorConfig(),
		validate.WithLogger(c.Logger),
		validate.WithCache(cache),
	)
	return v, closeCache, nil
}
