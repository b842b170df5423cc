package collector

import (
	"net/rpc"
	"path/filepath"
	"testing"

	"citwatch/internal/report"
)

func TestServerServesClientCalls(t *testing.T) {
	c := New(report.Context{SessionType: "wrapper"})
	addr := filepath.Join(t.TempDir(), "collector.sock")

	srv, err := Listen(addr, c)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close() //nolint:errcheck
	go srv.Serve()    //nolint:errcheck

	client, err := rpc.Dial("unix", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close() //nolint:errcheck

	if err := client.Call("Collector.Started", StartedArgs{PID: 1, Program: "gcc", Arguments: []string{"gcc"}, WorkingDir: "/p", At: "t0"}, &None{}); err != nil {
		t.Fatalf("Started call: %v", err)
	}
	if err := client.Call("Collector.Stopped", StoppedArgs{PID: 1, Status: 0, At: "t1"}, &None{}); err != nil {
		t.Fatalf("Stopped call: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Executions) != 1 {
		t.Fatalf("expected 1 execution, got %d", len(snap.Executions))
	}
}

func TestServerRejectsSignalForUnknownPID(t *testing.T) {
	c := New(report.Context{})
	addr := filepath.Join(t.TempDir(), "collector.sock")

	srv, err := Listen(addr, c)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close() //nolint:errcheck
	go srv.Serve()    //nolint:errcheck

	client, err := rpc.Dial("unix", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close() //nolint:errcheck

	err = client.Call("Collector.Signalled", SignalledArgs{PID: 404, Signal: 2, At: "t0"}, &None{})
	if err == nil {
		t.Fatal("expected RPC error for unknown pid")
	}
}
