package compiler

import "testing"

func TestIsCompilerByName(t *testing.T) {
	cases := map[string]bool{
		"/usr/bin/cc":          true,
		"/usr/bin/gcc-12":      true,
		"/usr/bin/g++":         true,
		"/usr/bin/x86_64-linux-gnu-gcc-11": true,
		"gfortran-10":          true,
		"/usr/bin/ld":          false,
		"/usr/bin/python3":     false,
	}
	for program, want := range cases {
		if got := IsCompiler(program, Compilers{}); got != want {
			t.Errorf("IsCompiler(%q) = %v, want %v", program, got, want)
		}
	}
}

func TestIsCompilerConfiguredPath(t *testing.T) {
	cfg := Compilers{CC: []string{"/opt/custom/mycc"}}
	if !IsCompiler("/opt/custom/mycc", cfg) {
		t.Fatal("expected configured path to be recognised as compiler")
	}
	if IsCompiler("/opt/custom/mycc-but-not-quite", cfg) {
		t.Fatal("expected unconfigured path not to be recognised")
	}
}

func TestPeelWrapperCcache(t *testing.T) {
	argv := []string{"ccache", "gcc", "-c", "a.c"}
	shifted, ok := PeelWrapper(argv, Compilers{})
	if !ok {
		t.Fatal("expected ccache to be peeled")
	}
	want := []string{"gcc", "-c", "a.c"}
	if len(shifted) != len(want) {
		t.Fatalf("shifted = %v, want %v", shifted, want)
	}
	for i := range want {
		if shifted[i] != want[i] {
			t.Fatalf("shifted[%d] = %q, want %q", i, shifted[i], want[i])
		}
	}
}

func TestResolveThroughWrapper(t *testing.T) {
	argv := []string{"ccache", "gcc", "-c", "a.c"}
	resolved, isCompiler := Resolve(argv, Compilers{})
	if !isCompiler {
		t.Fatal("expected resolve to find the compiler behind ccache")
	}
	if resolved[0] != "gcc" {
		t.Fatalf("resolved[0] = %q, want gcc", resolved[0])
	}
}

func TestResolveNotAWrapperOrCompiler(t *testing.T) {
	_, isCompiler := Resolve([]string{"/usr/bin/make", "all"}, Compilers{})
	if isCompiler {
		t.Fatal("make must not be recognised as a compiler")
	}
}
