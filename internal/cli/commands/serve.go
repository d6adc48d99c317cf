package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kousei/internal/server"
	"github.com/leapstack-labs/kousei/pkg/validate"
)

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lint API over HTTP",
		Long: `Start an HTTP server exposing linting, validation and rule
configuration under /v1, Prometheus metrics under /metrics and a health
check under /healthz.

Validation endpoints answer 503 unless validation is enabled in kousei.yaml
or with --validate.`,
		Example: `  # Serve on the default address
  kousei serve

  # Serve with LLM validation on port 9000
  kousei serve --addr :9000 --validate`,
		Args: cobra.NoArgs,
		RunE: runServe(version),
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	addLintConfigFlags(cmd.Flags())
	addValidationFlags(cmd.Flags())
	return cmd
}

func runServe(version string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cc, err := NewCommandContext(cmd, "")
		if err != nil {
			return err
		}
		runner, err := cc.NewRunner()
		if err != nil {
			return err
		}

		var v *validate.Validator
		if cc.Cfg.Validation.Enabled {
			var closeCache func() error
			v, closeCache, err = cc.NewValidator()
			if err != nil {
				return err
			}
			defer func() { _ = closeCache() }()
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sc := cc.Cfg.Server
		srv := server.New(server.Config{
			Addr:            sc.Addr,
			Runner:          runner,
			Validator:       v,
			Logger:          cc.Logger,
			ReadTimeout:     sc.ReadTimeout,
			WriteTimeout:    sc.WriteTimeout,
			ShutdownTimeout: sc.ShutdownTimeout,
			MaxBodyBytes:    sc.MaxBodyBytes,
			Version:         version,
		})
		cc.Renderer.Printf("kousei listening on %s\n", sc.Addr)
		return srv.Serve(ctx)
	}
}
