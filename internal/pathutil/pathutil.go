// Package pathutil provides the small set of path and PATH-list primitives
// shared by the recogniser, transform, and filter packages.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Split breaks a colon-separated PATH-style list into its components. The
// empty string yields an empty (non-nil is not guaranteed) slice. Adjacent
// separators produce empty components; callers that want to replace those
// with a sentinel (e.g. "." for CPATH) do so themselves.
func Split(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, string(filepath.ListSeparator))
}

// Join is the left inverse of Split for lists without empty components.
func Join(paths []string) string {
	return strings.Join(paths, string(filepath.ListSeparator))
}

// IsAbsolute reports whether p begins with the platform separator.
func IsAbsolute(p string) bool {
	return filepath.IsAbs(p)
}

// Relative returns the shortest relative path from base to path, collapsing
// "." and resolving common prefixes. It never touches the filesystem and so
// never resolves symlinks.
func Relative(base, path string) (string, error) {
	return filepath.Rel(base, path)
}

// Base returns the last path component.
func Base(p string) string {
	return filepath.Base(p)
}

// Contains reports whether root is a path-component prefix of file — not a
// string prefix. "/path" contains "/path/to" but not "/pathology".
func Contains(root, file string) bool {
	root = filepath.Clean(root)
	file = filepath.Clean(file)
	if root == file {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(file, root)
	}
	return strings.HasPrefix(file, root+string(filepath.Separator))
}

// Abs makes p absolute against dir when p is relative; dir is assumed
// already absolute (callers are responsible for that invariant, per the
// event-report Command.working_dir contract).
func Abs(dir, p string) string {
	if p == "" || IsAbsolute(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Dir returns the directory component of path, "." if path has none. Used
// by callers that need to create a sibling temp file for an atomic rewrite.
func Dir(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}
