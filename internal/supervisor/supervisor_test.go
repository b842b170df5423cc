package supervisor

import (
	"os"
	"path/filepath"
	"testing"

	"citwatch/internal/collector"
	"citwatch/internal/report"
)

func startTestCollector(t *testing.T) (*collector.Collector, string) {
	t.Helper()
	c := collector.New(report.Context{SessionType: "test"})
	addr := filepath.Join(t.TempDir(), "collector.sock")
	srv, err := collector.Listen(addr, c)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go srv.Serve() //nolint:errcheck
	t.Cleanup(func() { srv.Close() }) //nolint:errcheck
	return c, addr
}

func TestRunReportsStartedAndStoppedOnSuccess(t *testing.T) {
	c, addr := startTestCollector(t)

	code, err := Run(Request{
		Destination: addr,
		ExecPath:    "/bin/true",
		Argv:        []string{"true"},
		WorkingDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	snap := c.Snapshot()
	if len(snap.Executions) != 1 {
		t.Fatalf("expected 1 execution reported, got %d", len(snap.Executions))
	}
	events := snap.Executions[0].Run.Events
	if len(events) != 2 || events[0].Type != report.EventStart || events[1].Type != report.EventStop {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestRunReportsNonZeroExitStatus(t *testing.T) {
	c, addr := startTestCollector(t)

	code, err := Run(Request{
		Destination: addr,
		ExecPath:    "/bin/false",
		Argv:        []string{"false"},
		WorkingDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	snap := c.Snapshot()
	stop := snap.Executions[0].Run.Events[1]
	if stop.Status == nil || *stop.Status != 1 {
		t.Fatalf("expected reported status 1, got %+v", stop.Status)
	}
}

func TestRunReportsSignalledNotStoppedOnSignalDeath(t *testing.T) {
	c, addr := startTestCollector(t)

	code, err := Run(Request{
		Destination: addr,
		ExecPath:    "/bin/sh",
		Argv:        []string{"sh", "-c", "kill -TERM $$"},
		WorkingDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 128+15 {
		t.Fatalf("expected exit code %d, got %d", 128+15, code)
	}

	snap := c.Snapshot()
	events := snap.Executions[0].Run.Events
	if len(events) != 2 || events[0].Type != report.EventStart || events[1].Type != report.EventSignal {
		t.Fatalf("expected exactly one terminal signal event, got: %+v", events)
	}
	if events[1].Signal == nil || *events[1].Signal != 15 {
		t.Fatalf("expected signal 15, got %+v", events[1].Signal)
	}
}

func TestEnvironMap(t *testing.T) {
	m := environMap([]string{"PATH=/bin:/usr/bin", "EMPTY=", "NOEQUALS"})
	if m["PATH"] != "/bin:/usr/bin" {
		t.Fatalf("PATH = %q", m["PATH"])
	}
	if _, ok := m["EMPTY"]; !ok || m["EMPTY"] != "" {
		t.Fatalf("EMPTY = %q, ok=%v", m["EMPTY"], ok)
	}
	if _, ok := m["NOEQUALS"]; ok {
		t.Fatalf("expected NOEQUALS to be dropped, not %q", m["NOEQUALS"])
	}
}

func TestDialFailsOnMissingSocket(t *testing.T) {
	_, err := Dial(filepath.Join(os.TempDir(), "citwatch-definitely-not-there.sock"))
	if err == nil {
		t.Fatal("expected dial error for missing socket")
	}
}
