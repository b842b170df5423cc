// Package supervisor implements the small per-exec process: report a
// Started event, run the real program to
// completion, report Signalled/Stopped events, and exit with the child's
// status.
package supervisor

import (
	"fmt"
	"net/rpc"
	"os"
	"os/exec"
	"syscall"
	"time"

	"citwatch/internal/collector"
)

// Client talks to one collector over its RPC address.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the collector listening at addr (a Unix domain socket
// path).
func Dial(addr string) (*Client, error) {
	conn, err := rpc.Dial("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("supervisor: dial collector at %s: %w", addr, err)
	}
	return &Client{rpc: conn}, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() error { return c.rpc.Close() }

func (c *Client) started(a collector.StartedArgs) error {
	return c.rpc.Call("Collector.Started", a, &collector.None{})
}

func (c *Client) signalled(a collector.SignalledArgs) error {
	return c.rpc.Call("Collector.Signalled", a, &collector.None{})
}

func (c *Client) stopped(a collector.StoppedArgs) error {
	return c.rpc.Call("Collector.Stopped", a, &collector.None{})
}

// Request is the supervisor CLI's parsed invocation: the real program to
// run, its argv (argv[0] is the original, unmodified program name the
// child should see), working directory and environment, and the address
// of the collector to report to.
type Request struct {
	Destination string
	ExecPath    string // resolved, executable path
	Argv        []string
	WorkingDir  string
	Environment []string
	Verbose     bool
}

// Run executes the supervised program to completion, reporting its
// lifecycle to the collector at req.Destination, and returns the exit code
// the supervisor process itself should exit with.
func Run(req Request) (int, error) {
	client, err := Dial(req.Destination)
	if err != nil {
		return 1, err
	}
	defer client.Close() //nolint:errcheck

	cmd := exec.Command(req.ExecPath, req.Argv[1:]...)
	cmd.Args = req.Argv
	cmd.Dir = req.WorkingDir
	cmd.Env = req.Environment
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("supervisor: spawn %s: %w", req.ExecPath, err)
	}

	pid := cmd.Process.Pid
	ppid := os.Getpid()
	if err := client.started(collector.StartedArgs{
		PID: pid, PPID: ppid, Program: req.ExecPath, Arguments: req.Argv,
		WorkingDir: req.WorkingDir, Environment: environMap(req.Environment), At: now(),
	}); err != nil && req.Verbose {
		fmt.Fprintf(os.Stderr, "supervisor: report started: %v\n", err)
	}

	err = cmd.Wait()
	if err == nil {
		_ = client.stopped(collector.StoppedArgs{PID: pid, Status: 0, At: now()})
		return 0, nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 1, fmt.Errorf("supervisor: wait for %s: %w", req.ExecPath, err)
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := int(ws.Signal())
		_ = client.signalled(collector.SignalledArgs{PID: pid, Signal: sig, At: now()})
		return 128 + sig, nil
	}

	_ = client.stopped(collector.StoppedArgs{PID: pid, Status: exitErr.ExitCode(), At: now()})
	return exitErr.ExitCode(), nil
}

func environMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				m[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return m
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
