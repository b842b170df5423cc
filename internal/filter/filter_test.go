package filter

import (
	"testing"

	"citwatch/internal/compdb"
	"citwatch/internal/config"
)

func TestNoFilterAcceptsEverything(t *testing.T) {
	f := New(config.Content{})
	if _, ok := f.(NoFilter); !ok {
		t.Fatalf("expected NoFilter, got %T", f)
	}
	if !f.Accept(compdb.Entry{File: "/does/not/exist.c"}) {
		t.Fatal("NoFilter must accept everything")
	}
}

func TestStrictFilterRequiresExistence(t *testing.T) {
	f := StrictFilter{Exists: func(string) bool { return false }}
	if f.Accept(compdb.Entry{File: "/a.c"}) {
		t.Fatal("expected rejection: file does not exist")
	}
}

func TestStrictFilterInclude(t *testing.T) {
	f := StrictFilter{
		Include: []string{"/proj/src"},
		Exists:  func(string) bool { return true },
	}
	if !f.Accept(compdb.Entry{File: "/proj/src/a.c"}) {
		t.Fatal("expected acceptance: under paths_to_include")
	}
	if f.Accept(compdb.Entry{File: "/proj/other/a.c"}) {
		t.Fatal("expected rejection: outside paths_to_include")
	}
}

func TestStrictFilterExclude(t *testing.T) {
	f := StrictFilter{
		Exclude: []string{"/proj/vendor"},
		Exists:  func(string) bool { return true },
	}
	if f.Accept(compdb.Entry{File: "/proj/vendor/a.c"}) {
		t.Fatal("expected rejection: under paths_to_exclude")
	}
	if !f.Accept(compdb.Entry{File: "/proj/src/a.c"}) {
		t.Fatal("expected acceptance: outside paths_to_exclude")
	}
}

func TestApplyFiltersInOrder(t *testing.T) {
	entries := []compdb.Entry{
		{File: "/a.c"},
		{File: "/b.c"},
	}
	f := StrictFilter{Exists: func(p string) bool { return p == "/b.c" }}
	got := Apply(f, entries)
	if len(got) != 1 || got[0].File != "/b.c" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
