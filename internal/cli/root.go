package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	application "github.com/rocketscienceinc/quantum-tictactoe/internal"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	output     string

	conf   *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the qttt command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "qttt",
		Short: "Quantum tic-tac-toe match tool",
		Long: `qttt drives quantum tic-tac-toe matches: three 3x3 boards played at once,
one point per board won, the higher score wins once every board is decided.

Matches live in redis; "qttt replay" plays a YAML script without redis.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("unknown output format %q", opts.output)
			}

			conf, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			opts.conf = conf
			opts.logger = initLogger(cmd.ErrOrStderr(), conf.LogLevel)

			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("QTTT_CONFIG"), "Config file path (env: QTTT_CONFIG); environment and defaults when empty")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json")

	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newReplayCmd(opts))

	return rootCmd
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// openApp connects the session layer. Callers close the returned app.
func (that *rootOptions) openApp(ctx context.Context) (*application.App, error) {
	app, err := application.New(ctx, that.logger, that.conf)
	if err != nil {
		return nil, fmt.Errorf("app init failed: %w", err)
	}

	return app, nil
}

func initLogger(w io.Writer, logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
