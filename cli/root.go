// Package cli provides the command-line interface for matview.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"matview/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Launcher starts an interactive front end on path, which may be empty.
// It blocks until the front end exits.
type Launcher func(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) error

// Frontends holds the interactive front ends. They are injected by main so
// that this package does not depend on any UI toolkit.
type Frontends struct {
	GUI Launcher
	TUI Launcher
}

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd(fe Frontends) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "matview [file.mat]",
		Short: "Browse the variables of MATLAB .mat files",
		Long: `matview opens MATLAB level 5 .mat files (v5, v6 and v7) and shows each
variable as a table. Selecting a row renders its full contents in a detail pane.

Without a subcommand the desktop window is opened, optionally loading the
given file.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			if cfgFile != "" {
				logger.Debug("using config file", "path", cfgFile)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if fe.GUI == nil {
				return fmt.Errorf("desktop window is not available in this build")
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return fe.GUI(cmd.Context(), ConfigFrom(cmd.Context()), LoggerFrom(cmd.Context()), path)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewVarsCommand())
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewTUICommand(fe.TUI))

	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute(fe Frontends) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd(fe)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// ConfigFrom retrieves the configuration from the command context.
func ConfigFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// LoggerFrom retrieves the logger from the command context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
