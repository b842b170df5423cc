// Package compiler recognises which recorded executions are compiler (or
// compiler-wrapper) invocations, grounded in the ccache-peeling logic of
// other_examples/naivesystems-analyze__cmd_parser.go's determineCompiler.
package compiler

import (
	"path/filepath"
	"regexp"

	"citwatch/internal/pathutil"
)

// Compilers lists the explicit compiler paths configured for each family,
// mirroring the Config.Compilers schema.
type Compilers struct {
	CC       []string
	CXX      []string
	Fortran  []string
	CUDA     []string
	MPI      []string
	CCache   []string
	Distcc   []string
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(cc|c\+\+|cxx|CC)$`),
	regexp.MustCompile(`^([^-]*-)*[mg]cc(-?\d+(\.\d+){0,2})?$`),
	regexp.MustCompile(`^([^-]*-)*[mg]\+\+(-?\d+(\.\d+){0,2})?$`),
	regexp.MustCompile(`^([^-]*-)*[g]?fortran(-?\d+(\.\d+){0,2})?$`),
}

// IsCompiler reports whether program is a compiler: either its path is
// configured explicitly, or its basename matches the GCC-family name
// patterns.
func IsCompiler(program string, configured Compilers) bool {
	if containsPath(program, configured.CC) || containsPath(program, configured.CXX) ||
		containsPath(program, configured.Fortran) || containsPath(program, configured.CUDA) {
		return true
	}
	name := pathutil.Base(program)
	for _, re := range namePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// wrapperNames maps a wrapper family to the basenames that identify it when
// no explicit configuration is given.
var wrapperNames = map[string][]string{
	"ccache": {"ccache"},
	"distcc": {"distcc"},
	"mpi":    {"mpicc", "mpicxx", "mpic++", "mpifort"},
	"cuda":   {"nvcc"},
}

// IsWrapper reports whether program is a recognised wrapper tool (ccache,
// distcc, an MPI launcher, or a CUDA wrapper), checking both the explicitly
// configured path lists and the well-known basenames.
func IsWrapper(program string, configured Compilers) bool {
	if containsPath(program, configured.CCache) || containsPath(program, configured.Distcc) ||
		containsPath(program, configured.MPI) {
		return true
	}
	name := pathutil.Base(program)
	for _, names := range wrapperNames {
		for _, n := range names {
			if name == n {
				return true
			}
		}
	}
	return false
}

// PeelWrapper consumes a recognised wrapper's argv prefix, returning the
// shifted argv (real program + its own arguments) for re-recognition, and
// true if argv began with a wrapper invocation.
func PeelWrapper(argv []string, configured Compilers) ([]string, bool) {
	if len(argv) < 2 {
		return argv, false
	}
	if !IsWrapper(argv[0], configured) {
		return argv, false
	}
	return argv[1:], true
}

// Resolve walks the wrapper-peeling chain until it reaches a program that
// is either a recognised compiler or not a wrapper, returning the final
// argv and whether that program is a compiler.
func Resolve(argv []string, configured Compilers) ([]string, bool) {
	for {
		if IsCompiler(argv[0], configured) {
			return argv, true
		}
		shifted, peeled := PeelWrapper(argv, configured)
		if !peeled {
			return argv, false
		}
		argv = shifted
	}
}

func containsPath(program string, configured []string) bool {
	clean := filepath.Clean(program)
	for _, c := range configured {
		if filepath.Clean(c) == clean {
			return true
		}
	}
	return false
}
