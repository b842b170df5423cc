package collector

import (
	"sync"
	"testing"

	"citwatch/internal/report"
)

func TestStartedThenStoppedRoundTrip(t *testing.T) {
	c := New(report.Context{SessionType: "wrapper"})

	if err := c.Started(StartedArgs{PID: 100, PPID: 1, Program: "/bin/gcc", Arguments: []string{"gcc", "-c", "a.c"}, WorkingDir: "/proj", At: "t0"}); err != nil {
		t.Fatalf("Started: %v", err)
	}
	if err := c.Stopped(StoppedArgs{PID: 100, Status: 0, At: "t1"}); err != nil {
		t.Fatalf("Stopped: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Executions) != 1 {
		t.Fatalf("expected 1 execution, got %d", len(snap.Executions))
	}
	ex := snap.Executions[0]
	if len(ex.Run.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(ex.Run.Events))
	}
	if ex.Run.Events[0].Type != report.EventStart || ex.Run.Events[1].Type != report.EventStop {
		t.Fatalf("unexpected event order: %+v", ex.Run.Events)
	}
}

func TestStartedDuplicatePIDRejected(t *testing.T) {
	c := New(report.Context{})
	if err := c.Started(StartedArgs{PID: 1, Program: "gcc", Arguments: []string{"gcc"}, WorkingDir: "/p", At: "t0"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Started(StartedArgs{PID: 1, Program: "gcc", Arguments: []string{"gcc"}, WorkingDir: "/p", At: "t0"}); err == nil {
		t.Fatal("expected error on duplicate pid start")
	}
}

func TestSignalledAndStoppedUnknownPID(t *testing.T) {
	c := New(report.Context{})
	if err := c.Signalled(SignalledArgs{PID: 99, Signal: 2, At: "t0"}); err == nil {
		t.Fatal("expected error for unknown pid")
	}
	if err := c.Stopped(StoppedArgs{PID: 99, Status: 0, At: "t0"}); err == nil {
		t.Fatal("expected error for unknown pid")
	}
}

func TestSnapshotRecordsEveryConcurrentStart(t *testing.T) {
	c := New(report.Context{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Started(StartedArgs{PID: i, Program: "gcc", Arguments: []string{"gcc"}, WorkingDir: "/p", At: "t0"})
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if len(snap.Executions) != 50 {
		t.Fatalf("expected 50 executions, got %d", len(snap.Executions))
	}
}

func TestSnapshotIsIndependentOfLaterMutation(t *testing.T) {
	c := New(report.Context{})
	_ = c.Started(StartedArgs{PID: 1, Program: "gcc", Arguments: []string{"gcc"}, WorkingDir: "/p", At: "t0"})
	snap := c.Snapshot()
	_ = c.Stopped(StoppedArgs{PID: 1, Status: 0, At: "t1"})

	if len(snap.Executions[0].Run.Events) != 1 {
		t.Fatalf("expected earlier snapshot to be unaffected by later mutation, got %+v", snap.Executions[0].Run.Events)
	}
}
