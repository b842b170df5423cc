// Command intercept runs a build command under supervision, collecting an
// event report of every process execution it makes.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"citwatch/internal/collector"
	"citwatch/internal/config"
	"citwatch/internal/inspect"
	"citwatch/internal/report"
	"citwatch/internal/shim"
)

// forwardedSignals are relayed to the build's root child while intercept
// waits for it.
var forwardedSignals = []os.Signal{
	syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT,
	syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGABRT,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "intercept: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output     string
		library    string
		executor   string
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "intercept -- <build-command...>",
		Short: "Run a build command under compiler-call supervision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if library == "" {
				library = cfg.Intercept.Library
			}
			if executor == "" {
				executor = cfg.Intercept.Executor
			}

			if output == "" {
				return fmt.Errorf("--output is required")
			}
			if library == "" {
				return fmt.Errorf("--library is required")
			}
			if executor == "" {
				return fmt.Errorf("--executor is required")
			}

			code, err := runBuild(args, output, library, executor, verbose)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&output, "output", "", "path to write the event report")
	flags.StringVar(&library, "library", "", "path to the preload shim shared library")
	flags.StringVar(&executor, "executor", "", "path to the supervisor executable")
	flags.StringVar(&configPath, "config", "", "path to a citwatch.yaml configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and --session-verbose on every supervisor")

	cmd.AddCommand(newInspectCmd())
	return cmd
}

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <event-report>",
		Short: "Render an event report for human inspection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := report.Load(args[0])
			if err != nil {
				return err
			}
			return inspect.WriteReport(cmd.OutOrStdout(), rep, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, plain, or json")
	return cmd
}

func runBuild(build []string, output, library, executor string, verbose bool) (int, error) {
	socketPath := filepath.Join(os.TempDir(), fmt.Sprintf("citwatch-%d.sock", os.Getpid()))
	col := collector.New(report.Context{SessionType: sessionType(library), HostInfo: hostInfo()})

	srv, err := collector.Listen(socketPath, col)
	if err != nil {
		return 1, err
	}
	defer srv.Close() //nolint:errcheck
	go func() {
		if err := srv.Serve(); err != nil {
			slog.Debug("collector server stopped", "error", err)
		}
	}()

	env := append(os.Environ(),
		shim.EnvDestination+"="+socketPath,
		shim.EnvReporter+"="+executor,
		shim.EnvLibrary+"="+library,
		preloadVar()+"="+library,
	)
	if verbose {
		env = append(env, shim.EnvVerbose+"=1")
	}

	child := exec.Command(build[0], build[1:]...)
	child.Env = env
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Start(); err != nil {
		return 1, fmt.Errorf("intercept: spawn build command: %w", err)
	}
	slog.Info("build started", "pid", child.Process.Pid)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, forwardedSignals...)
	done := make(chan error, 1)
	go func() { done <- child.Wait() }()

	var waitErr error
loop:
	for {
		select {
		case sig := <-sigCh:
			if child.Process != nil {
				_ = child.Process.Signal(sig)
			}
		case waitErr = <-done:
			break loop
		}
	}
	signal.Stop(sigCh)

	if err := report.Save(output, col.Snapshot()); err != nil {
		return 1, fmt.Errorf("intercept: write event report: %w", err)
	}
	slog.Info("event report written", "path", output)

	return exitCodeOf(waitErr), nil
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return 1
}

func sessionType(library string) string {
	if library != "" {
		return "library"
	}
	return "wrapper"
}

// preloadVar names the dynamic linker's preload environment variable for
// the current platform, so the shim shared library actually loads into
// every process the build spawns.
func preloadVar() string {
	if runtime.GOOS == "darwin" {
		return "DYLD_INSERT_LIBRARIES"
	}
	return "LD_PRELOAD"
}

func hostInfo() map[string]string {
	host, _ := os.Hostname()
	return map[string]string{
		"host": host,
		"os":   runtime.GOOS,
		"at":   time.Now().UTC().Format(time.RFC3339),
	}
}
