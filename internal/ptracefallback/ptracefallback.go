// Package ptracefallback describes the tracing-facility fallback for
// targets whose runtime cannot have libc symbols redefined (managed
// runtimes that don't support exec interposition). It defines the
// interface a real ptrace/seccomp-user-notify implementation must satisfy;
// no such implementation exists yet, so Tracer is exported for callers
// (cmd/intercept) to select against once one is written.
package ptracefallback

import (
	"context"
	"errors"

	"citwatch/internal/supervisor"
)

// ErrUnsupported is returned by Tracer implementations (and the stub
// below) when the host platform has no usable tracing facility.
var ErrUnsupported = errors.New("ptracefallback: no tracing facility available on this platform")

// Tracer recursively supervises a process tree by intercepting its
// exec-family syscalls directly (via ptrace or seccomp-user-notify),
// without requiring a preload shim in the traced binary. Every observed
// exec is expected to be reported to the same collector a preload-based
// session would use, via the supervisor package's Request contract.
type Tracer interface {
	// Trace runs root to completion, tracing every descendant's exec
	// calls and reporting their lifecycle to dest, returning root's exit
	// code.
	Trace(ctx context.Context, root supervisor.Request, dest string) (int, error)
}

// Unsupported is a Tracer that always fails; it is the default when no
// platform-specific tracer has been wired in. Callers see a clean error
// rather than silently falling through to unsupervised execution.
type Unsupported struct{}

func (Unsupported) Trace(context.Context, supervisor.Request, string) (int, error) {
	return 1, ErrUnsupported
}
