// Package compdb reads and writes the compilation-database JSON array and
// implements entry merge/dedup semantics.
package compdb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"citwatch/internal/pathutil"
	"citwatch/internal/shellwords"
)

// Entry is one compilation-database record.
type Entry struct {
	File      string
	Directory string
	Output    string // empty means absent
	Arguments []string
}

// Field names usable in Content.DuplicateFilterFields.
const (
	FieldFile      = "file"
	FieldDirectory = "directory"
	FieldOutput    = "output"
	FieldArguments = "arguments"
)

// AllFields is the default duplicate-filter field set: full equality.
var AllFields = map[string]bool{
	FieldFile:      true,
	FieldDirectory: true,
	FieldOutput:    true,
	FieldArguments: true,
}

// FormatOptions controls serialisation.
type FormatOptions struct {
	CommandAsArray  bool // true: "arguments":[...]; false: "command":"..."
	DropOutputField bool
}

// FormatError reports a malformed compilation-database record.
type FormatError struct {
	Path  string
	Index int
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("compilation database %s entry %d: %v", e.Path, e.Index, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

type wireEntry struct {
	File      string   `json:"file"`
	Directory string   `json:"directory"`
	Output    *string  `json:"output,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Command   string   `json:"command,omitempty"`
}

// Load reads and validates a compilation-database file. Each record must
// carry file, directory, and exactly one of arguments/command.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open compilation database %s: %w", path, err)
	}
	defer f.Close()

	var raw []wireEntry
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, &FormatError{Path: path, Index: -1, Err: err}
	}

	entries := make([]Entry, 0, len(raw))
	for i, w := range raw {
		e, err := fromWire(w)
		if err != nil {
			return nil, &FormatError{Path: path, Index: i, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func fromWire(w wireEntry) (Entry, error) {
	if w.File == "" {
		return Entry{}, fmt.Errorf("file is required")
	}
	if w.Directory == "" {
		return Entry{}, fmt.Errorf("directory is required")
	}
	hasArgs := len(w.Arguments) > 0
	hasCmd := w.Command != ""
	if hasArgs == hasCmd {
		return Entry{}, fmt.Errorf("exactly one of arguments or command is required")
	}
	args := w.Arguments
	if hasCmd {
		words, err := shellwords.Split(w.Command)
		if err != nil {
			return Entry{}, err
		}
		args = words
	}
	if len(args) == 0 {
		return Entry{}, fmt.Errorf("arguments must be non-empty")
	}
	output := ""
	if w.Output != nil {
		if *w.Output == "" {
			return Entry{}, fmt.Errorf("output, if present, must be non-empty")
		}
		output = *w.Output
	}
	return Entry{File: w.File, Directory: w.Directory, Output: output, Arguments: args}, nil
}

// Save writes entries in the requested format, atomically (temp file, then
// rename).
func Save(path string, entries []Entry, opts FormatOptions) error {
	tmp, err := os.CreateTemp(pathutil.Dir(path), ".compdb-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp compilation database: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	if err := Encode(tmp, entries, opts); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp compilation database: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename compilation database into place: %w", err)
	}
	return nil
}

// Encode writes entries as a pretty-printed JSON array to w.
func Encode(w io.Writer, entries []Entry, opts FormatOptions) error {
	wire := make([]wireEntry, 0, len(entries))
	for _, e := range entries {
		we := wireEntry{File: e.File, Directory: e.Directory}
		if e.Output != "" && !opts.DropOutputField {
			out := e.Output
			we.Output = &out
		}
		if opts.CommandAsArray {
			we.Arguments = e.Arguments
		} else {
			we.Command = shellwords.Join(e.Arguments)
		}
		wire = append(wire, we)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("encode compilation database: %w", err)
	}
	return nil
}

// Merge returns old followed by every element of add not already present
// under the equality restricted to fields. An empty/nil fields set means
// full equality (AllFields).
func Merge(old, add []Entry, fields map[string]bool) []Entry {
	if len(fields) == 0 {
		fields = AllFields
	}
	seen := make(map[string]bool, len(old))
	for _, e := range old {
		seen[key(e, fields)] = true
	}

	result := append([]Entry(nil), old...)
	for _, e := range add {
		k := key(e, fields)
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, e)
	}
	return result
}

func key(e Entry, fields map[string]bool) string {
	var k string
	if fields[FieldFile] {
		k += "\x00f:" + e.File
	}
	if fields[FieldDirectory] {
		k += "\x00d:" + e.Directory
	}
	if fields[FieldOutput] {
		k += "\x00o:" + e.Output
	}
	if fields[FieldArguments] {
		k += "\x00a:" + shellwords.Join(e.Arguments)
	}
	return k
}
