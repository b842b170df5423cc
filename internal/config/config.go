// Package config loads the runtime configuration (compiler paths, content
// filtering rules, output format), following the yaml.v3 usage found
// across the example pack's own config/fixture loaders.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"citwatch/internal/compdb"
	"citwatch/internal/compiler"
)

// Content controls which entries citnames keeps and how paths are
// rewritten.
type Content struct {
	IncludeOnlyExistingSource bool     `yaml:"include_only_existing_source"`
	PathsToInclude            []string `yaml:"paths_to_include"`
	PathsToExclude            []string `yaml:"paths_to_exclude"`
	RelativeTo                string   `yaml:"relative_to"`
	DuplicateFilterFields     []string `yaml:"duplicate_filter_fields"`
}

// FieldSet converts DuplicateFilterFields into the map Merge expects,
// defaulting conservatively to the full four-field set when unset.
func (c Content) FieldSet() map[string]bool {
	if len(c.DuplicateFilterFields) == 0 {
		return compdb.AllFields
	}
	out := make(map[string]bool, len(c.DuplicateFilterFields))
	for _, f := range c.DuplicateFilterFields {
		out[f] = true
	}
	return out
}

// Format controls compilation-database serialisation.
type Format struct {
	CommandAsArray  bool `yaml:"command_as_array"`
	DropOutputField bool `yaml:"drop_output_field"`
}

// CompdbFormat returns the compdb package's FormatOptions equivalent.
func (f Format) CompdbFormat() compdb.FormatOptions {
	return compdb.FormatOptions{CommandAsArray: f.CommandAsArray, DropOutputField: f.DropOutputField}
}

// Compilers mirrors compiler.Compilers with YAML tags for file loading.
type Compilers struct {
	CC      []string `yaml:"cc"`
	CXX     []string `yaml:"cxx"`
	Fortran []string `yaml:"fortran"`
	CUDA    []string `yaml:"cuda"`
	MPI     []string `yaml:"mpi"`
	CCache  []string `yaml:"ccache"`
	Distcc  []string `yaml:"distcc"`
}

// CompilerConfig returns the compiler package's Compilers equivalent.
func (c Compilers) CompilerConfig() compiler.Compilers {
	return compiler.Compilers{
		CC: c.CC, CXX: c.CXX, Fortran: c.Fortran, CUDA: c.CUDA,
		MPI: c.MPI, CCache: c.CCache, Distcc: c.Distcc,
	}
}

// Intercept holds defaults for the intercept binary, overridable by its
// own CLI flags.
type Intercept struct {
	Library  string `yaml:"library"`
	Executor string `yaml:"executor"`
}

// Config is the full runtime configuration document.
type Config struct {
	Compilers Compilers `yaml:"compilers"`
	Content   Content   `yaml:"content"`
	Format    Format    `yaml:"format"`
	Intercept Intercept `yaml:"intercept"`
}

// Load reads a YAML configuration file. A missing path is not an error —
// it returns the zero Config, matching the CLI's all-flags-optional
// contract.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
