// Command supervisor wraps one exec: it reports a Started event, runs the
// real program to completion, reports Signalled/Stopped, and exits with
// the child's status.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"citwatch/internal/supervisor"
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "supervisor: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	var (
		destination string
		library     string
		verbose     bool
		execPath    string
	)

	exitCode := 0
	cmd := &cobra.Command{
		Use:   "supervisor -- <argv...>",
		Short: "Supervise one exec and report its lifecycle to a collector",
		RunE: func(cmd *cobra.Command, argv []string) error {
			logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
			if verbose {
				logOpts.Level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), logOpts)))

			if destination == "" {
				return fmt.Errorf("--session-destination is required")
			}
			if execPath == "" {
				return fmt.Errorf("--exec-path is required")
			}
			if len(argv) == 0 {
				return fmt.Errorf("no program given after --")
			}
			if verbose {
				slog.Debug("supervising", "exec_path", execPath, "library", library)
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}

			code, err := supervisor.Run(supervisor.Request{
				Destination: destination,
				ExecPath:    execPath,
				Argv:        argv,
				WorkingDir:  wd,
				Environment: os.Environ(),
				Verbose:     verbose,
			})
			exitCode = code
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&destination, "session-destination", "", "collector RPC address")
	flags.StringVar(&library, "session-library", "", "path of the preload shim (propagated, not used directly)")
	flags.BoolVar(&verbose, "session-verbose", false, "enable verbose logging")
	flags.StringVar(&execPath, "exec-path", "", "resolved, executable path of the real program")

	cmd.SetArgs(args)
	err := cmd.Execute()
	return exitCode, err
}
