// Package shim implements the process-local session contract and argv
// rewriting rules the preload shim (cmd/libexec) applies to every
// exec-family call. It is pure Go so it can be exercised
// by ordinary tests; cmd/libexec's cgo exports are a thin cgo-ABI layer
// over this package.
package shim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Environment key names consumed by the shim.
const (
	EnvDestination = "INTERCEPT_REPORT_DESTINATION"
	EnvReporter    = "INTERCEPT_REPORT_COMMAND"
	EnvLibrary     = "INTERCEPT_SESSION_LIBRARY"
	EnvVerbose     = "INTERCEPT_VERBOSE"
)

// Session is the process-local state read once from the environment and
// inherited, unmodified, across every exec in the supervised tree.
type Session struct {
	Destination string
	Reporter    string
	Library     string
	Verbose     bool
	Valid       bool
}

// LoadSession reads a Session from an environment map (as built from
// os.Environ by the caller). A session is valid only when Destination,
// Reporter, and Library are all set.
func LoadSession(env map[string]string) Session {
	s := Session{
		Destination: env[EnvDestination],
		Reporter:    env[EnvReporter],
		Library:     env[EnvLibrary],
		Verbose:     truthy(env[EnvVerbose]),
	}
	s.Valid = s.Destination != "" && s.Reporter != "" && s.Library != ""
	return s
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Rewrite builds the supervisor invocation for one exec call: the
// resolved program and the original argv are wrapped so that the
// supervisor, not the target program, executes first.
//
//	<reporter> --session-destination <dest> [--session-library <lib>]
//	           [--session-verbose] --exec-path <execPath> -- <argv...>
func Rewrite(session Session, execPath string, argv []string) []string {
	out := []string{session.Reporter, "--session-destination", session.Destination}
	if session.Library != "" {
		out = append(out, "--session-library", session.Library)
	}
	if session.Verbose {
		out = append(out, "--session-verbose")
	}
	out = append(out, "--exec-path", execPath, "--")
	out = append(out, argv...)
	return out
}

// ResolveExecve reproduces execve's path resolution: path is taken as-is,
// canonicalised against cwd, and must be executable.
func ResolveExecve(path string) (string, error) {
	abs, err := canonicalize(path)
	if err != nil {
		return "", err
	}
	if err := checkExecutable(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// ResolveExecvpe reproduces execvpe's path resolution: if file contains a
// slash, it is resolved exactly as execve would; otherwise every non-empty
// entry of path (falling back to the system default when path is empty) is
// tried in order, returning the first canonicalised, executable match.
func ResolveExecvpe(file, path string) (string, error) {
	if strings.Contains(file, "/") {
		return ResolveExecve(file)
	}
	if path == "" {
		path = confstrPath()
	}
	return searchPath(file, path)
}

// ResolveExecvP reproduces execvP's path resolution: file is searched
// under the explicit path list exactly as ResolveExecvpe searches $PATH.
func ResolveExecvP(file, path string) (string, error) {
	if strings.Contains(file, "/") {
		return ResolveExecve(file)
	}
	return searchPath(file, path)
}

func searchPath(file, path string) (string, error) {
	var lastErr error = &os.PathError{Op: "exec", Path: file, Err: unix.ENOENT}
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, file)
		abs, err := canonicalize(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if err := checkExecutable(abs); err != nil {
			lastErr = err
			continue
		}
		return abs, nil
	}
	return "", lastErr
}

func canonicalize(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("shim: getwd: %w", err)
		}
		abs = filepath.Join(wd, abs)
	}
	return realpath(abs)
}

// realpath resolves symlinks in path without requiring the target to
// exist, so a subsequent checkExecutable call can distinguish ENOENT from
// EACCES exactly as execve would.
func realpath(path string) (string, error) {
	const maxLinks = 40
	p := filepath.Clean(path)
	for i := 0; i < maxLinks; i++ {
		target, err := os.Readlink(p)
		if err != nil {
			return p, nil
		}
		if filepath.IsAbs(target) {
			p = filepath.Clean(target)
		} else {
			p = filepath.Join(filepath.Dir(p), target)
		}
	}
	return "", fmt.Errorf("shim: too many levels of symbolic links: %s", path)
}

func checkExecutable(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		if err == unix.ENOENT {
			return &os.PathError{Op: "exec", Path: path, Err: unix.ENOENT}
		}
		return &os.PathError{Op: "exec", Path: path, Err: unix.EACCES}
	}
	return nil
}

// confstrPath is the fallback search path used when PATH is unset in the
// caller's environment. The real confstr(_CS_PATH) is a libc extension
// unreachable from the golang.org/x/sys/unix syscall wrappers; the
// POSIX-mandated default is used instead.
func confstrPath() string {
	return "/bin:/usr/bin"
}
