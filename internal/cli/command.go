package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seitarof/gen-ext/internal/diag"
)

// RunnerFactory builds the runner for a parsed configuration.
type RunnerFactory func(cfg *Config, logger *zap.Logger) Runner

// NewRootCommand creates the gen-ext command tree.
func NewRootCommand(version string, newRunner RunnerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "gen-ext",
		Short:         "Generate extension descriptors from annotated Go types",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewGenerateCommand(newRunner))
	root.AddCommand(NewVersionCommand(version))
	return root
}

// Execute runs root and prints any failure to its error stream.
func Execute(ctx context.Context, root *cobra.Command) error {
	if err := root.ExecuteContext(ctx); err != nil {
		printFailure(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

// NewGenerateCommand creates the generate command. Positional arguments
// are package patterns relative to the project root.
func NewGenerateCommand(newRunner RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write components.json and component_build_infos.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine.
			_ = godotenv.Load()

			cfg, err := FromFlags(cmd.Flags(), args)
			if err != nil {
				return err
			}
			color.NoColor = color.NoColor || cfg.NoColor

			logger, err := NewLogger(cfg.Verbose, cfg.NoColor)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			res, err := newRunner(cfg, logger).Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().AddFlagSet(NewFlagSet())
	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			title := color.New(color.FgCyan, color.Bold)
			title.Fprint(cmd.OutOrStdout(), "gen-ext version: ")
			fmt.Fprintln(cmd.OutOrStdout(), version)
			title.Fprint(cmd.OutOrStdout(), "Go version: ")
			fmt.Fprintln(cmd.OutOrStdout(), runtime.Version())
		},
	}
}

// NewLogger builds the console logger. verbose enables debug output.
func NewLogger(verbose, noColor bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	if !noColor {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

func printSuccess(w io.Writer, res *Result) {
	ok := color.New(color.FgGreen, color.Bold)
	ok.Fprintf(w, "Generated descriptors for %d extension(s)", len(res.Extensions))
	fmt.Fprintf(w, " in %s", res.OutputDir)
	if res.Warnings > 0 {
		color.New(color.FgYellow).Fprintf(w, " with %d warning(s)", res.Warnings)
	}
	fmt.Fprintln(w)
}

func printFailure(w io.Writer, err error) {
	fail := color.New(color.FgRed, color.Bold)
	var derr *diag.ReportError
	if errors.As(err, &derr) {
		fail.Fprintf(w, "Generation stopped: %d error(s)\n", len(derr.Diagnostics))
		return
	}
	fail.Fprintf(w, "Error: %v\n", err)
}
