// Package collector accumulates the lifecycle events reported by every
// supervised process of one intercept session into a single event
// report: a mutex-guarded accumulator with safe concurrent writers and
// one exported snapshot reader.
package collector

import (
	"fmt"
	"sync"

	"citwatch/internal/report"
)

// StartedArgs describes a process that has just begun executing.
type StartedArgs struct {
	PID         int
	PPID        int
	Program     string
	Arguments   []string
	WorkingDir  string
	Environment map[string]string
	At          string
}

// SignalledArgs records a signal delivered to a supervised process.
type SignalledArgs struct {
	PID    int
	Signal int
	At     string
}

// StoppedArgs records a supervised process's exit status.
type StoppedArgs struct {
	PID    int
	Status int
	At     string
}

// Collector accumulates Executions for one intercept session. All methods
// are safe for concurrent use by multiple supervisor RPC calls.
type Collector struct {
	mu         sync.Mutex
	context    report.Context
	byPID      map[int]int // pid -> index into executions
	order      []int       // indices, in first-seen order
	executions []report.Execution
}

// New creates an empty Collector carrying the given session context.
func New(ctx report.Context) *Collector {
	return &Collector{
		context: ctx,
		byPID:   make(map[int]int),
	}
}

// Started records a process start event, creating its Execution.
func (c *Collector) Started(a StartedArgs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byPID[a.PID]; exists {
		return fmt.Errorf("collector: pid %d already started", a.PID)
	}

	pid, ppid := a.PID, a.PPID
	ex := report.Execution{
		Command: report.Command{
			Program:     a.Program,
			Arguments:   a.Arguments,
			WorkingDir:  a.WorkingDir,
			Environment: a.Environment,
		},
		Run: report.Run{
			PID:  &pid,
			PPID: &ppid,
			Events: []report.Event{
				{Type: report.EventStart, At: a.At},
			},
		},
	}
	idx := len(c.executions)
	c.executions = append(c.executions, ex)
	c.byPID[a.PID] = idx
	c.order = append(c.order, idx)
	return nil
}

// Signalled appends a signal event to the named process's run.
func (c *Collector) Signalled(a SignalledArgs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byPID[a.PID]
	if !ok {
		return fmt.Errorf("collector: signal for unknown pid %d", a.PID)
	}
	signal := a.Signal
	c.executions[idx].Run.Events = append(c.executions[idx].Run.Events, report.Event{
		Type: report.EventSignal, At: a.At, Signal: &signal,
	})
	return nil
}

// Stopped appends the terminal stop event to the named process's run.
func (c *Collector) Stopped(a StoppedArgs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byPID[a.PID]
	if !ok {
		return fmt.Errorf("collector: stop for unknown pid %d", a.PID)
	}
	status := a.Status
	c.executions[idx].Run.Events = append(c.executions[idx].Run.Events, report.Event{
		Type: report.EventStop, At: a.At, Status: &status,
	})
	return nil
}

// Snapshot returns the accumulated report as of this call. The returned
// value is a deep-enough copy that later mutation of the Collector does
// not retroactively change it.
func (c *Collector) Snapshot() *report.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	executions := make([]report.Execution, len(c.order))
	for i, idx := range c.order {
		ex := c.executions[idx]
		events := make([]report.Event, len(ex.Run.Events))
		copy(events, ex.Run.Events)
		ex.Run.Events = events
		executions[i] = ex
	}
	return &report.Report{Context: c.context, Executions: executions}
}
