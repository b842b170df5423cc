package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingPathIsZeroValue(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Format.CommandAsArray {
		t.Fatalf("expected zero-value config")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "citwatch.yaml")
	content := `
compilers:
  cc: ["/usr/bin/gcc"]
content:
  include_only_existing_source: true
  paths_to_exclude: ["/usr/include"]
format:
  command_as_array: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Content.IncludeOnlyExistingSource {
		t.Fatal("expected IncludeOnlyExistingSource=true")
	}
	if !cfg.Format.CommandAsArray {
		t.Fatal("expected CommandAsArray=true")
	}
	if len(cfg.Compilers.CC) != 1 || cfg.Compilers.CC[0] != "/usr/bin/gcc" {
		t.Fatalf("cc = %v", cfg.Compilers.CC)
	}
}

func TestLoadInterceptDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "citwatch.yaml")
	content := `
intercept:
  library: /usr/lib/citwatch/libexec.so
  executor: /usr/bin/citwatch-supervisor
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Intercept.Library != "/usr/lib/citwatch/libexec.so" {
		t.Fatalf("Intercept.Library = %q", cfg.Intercept.Library)
	}
	if cfg.Intercept.Executor != "/usr/bin/citwatch-supervisor" {
		t.Fatalf("Intercept.Executor = %q", cfg.Intercept.Executor)
	}
}

func TestFieldSetDefault(t *testing.T) {
	c := Content{}
	fs := c.FieldSet()
	if len(fs) != 4 {
		t.Fatalf("expected default full field set, got %v", fs)
	}
}
