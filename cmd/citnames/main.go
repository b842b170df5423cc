// Command citnames reads an intercept event report and synthesizes a
// compilation database from it, following a single cobra root command
// with subcommands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"citwatch/internal/compdb"
	"citwatch/internal/config"
	"citwatch/internal/filter"
	"citwatch/internal/inspect"
	"citwatch/internal/report"
	"citwatch/internal/transform"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "citnames: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input      string
		output     string
		doAppend   bool
		runChecks  bool
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "citnames",
		Short: "Synthesize a compilation database from an intercept event report",
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})))

			if input == "" {
				return fmt.Errorf("--input is required")
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if runChecks {
				cfg.Content.IncludeOnlyExistingSource = true
			}

			rep, err := report.Load(input)
			if err != nil {
				return err
			}
			slog.Info("loaded event report", "executions", len(rep.Executions))

			compilers := cfg.Compilers.CompilerConfig()
			f := filter.New(cfg.Content)

			var entries []compdb.Entry
			for _, ex := range rep.Executions {
				built := transform.Build(ex, cfg.Content, compilers)
				entries = append(entries, filter.Apply(f, built)...)
			}
			slog.Info("synthesized entries", "count", len(entries))

			if doAppend {
				existing, err := compdb.Load(output)
				if err != nil {
					return err
				}
				entries = compdb.Merge(existing, entries, cfg.Content.FieldSet())
			}

			if err := compdb.Save(output, entries, cfg.Format.CompdbFormat()); err != nil {
				return err
			}
			slog.Info("wrote compilation database", "path", output, "entries", len(entries))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input, "input", "", "path to the intercept event report")
	flags.StringVar(&output, "output", "", "path to write the compilation database")
	flags.BoolVar(&doAppend, "append", false, "merge with any existing database at --output")
	flags.BoolVar(&runChecks, "run-checks", false, "enable StrictFilter (require sources to exist on disk)")
	flags.StringVar(&configPath, "config", "", "path to a citwatch.yaml configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newInspectCmd())
	return cmd
}

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <compilation-database>",
		Short: "Render a compilation database for human inspection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := compdb.Load(args[0])
			if err != nil {
				return err
			}
			return inspect.WriteCompdb(cmd.OutOrStdout(), entries, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, plain, or json")
	return cmd
}
