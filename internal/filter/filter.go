// Package filter applies output-filtering rules to a set of
// compilation-database entries: existence checks and include/exclude
// path-prefix matching.
package filter

import (
	"os"

	"citwatch/internal/compdb"
	"citwatch/internal/config"
	"citwatch/internal/pathutil"
)

// Filter decides whether an entry should be kept in the database.
type Filter interface {
	Accept(e compdb.Entry) bool
}

// NoFilter accepts every entry.
type NoFilter struct{}

func (NoFilter) Accept(compdb.Entry) bool { return true }

// StrictFilter accepts an entry iff its file exists on disk, is covered by
// paths_to_include (or that list is empty), and is not covered by any
// paths_to_exclude prefix.
type StrictFilter struct {
	Include []string
	Exclude []string
	Exists  func(path string) bool
}

// New builds the Filter selected by Content.IncludeOnlyExistingSource.
func New(content config.Content) Filter {
	if !content.IncludeOnlyExistingSource {
		return NoFilter{}
	}
	return StrictFilter{
		Include: content.PathsToInclude,
		Exclude: content.PathsToExclude,
		Exists:  fileExists,
	}
}

func (f StrictFilter) Accept(e compdb.Entry) bool {
	exists := f.Exists
	if exists == nil {
		exists = fileExists
	}
	if !exists(e.File) {
		return false
	}
	if len(f.Include) > 0 && !anyContains(f.Include, e.File) {
		return false
	}
	if anyContains(f.Exclude, e.File) {
		return false
	}
	return true
}

func anyContains(roots []string, file string) bool {
	for _, root := range roots {
		if pathutil.Contains(root, file) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Apply runs f over entries, returning only the accepted ones in order.
func Apply(f Filter, entries []compdb.Entry) []compdb.Entry {
	out := make([]compdb.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Accept(e) {
			out = append(out, e)
		}
	}
	return out
}
