// Package transform turns one recorded Execution into zero or more
// compilation-database Entries: a chain of early-return guards followed
// by an accumulation step, checking parsed flags sequentially before any
// entry is emitted.
package transform

import (
	"log/slog"

	"citwatch/internal/compdb"
	"citwatch/internal/compiler"
	"citwatch/internal/config"
	"citwatch/internal/flags"
	"citwatch/internal/pathutil"
	"citwatch/internal/report"
)

// Build converts one execution into the entries it contributes to the
// compilation database. A parse failure or a non-compiling invocation
// yields no entries.
func Build(ex report.Execution, content config.Content, compilers compiler.Compilers) []compdb.Entry {
	argv, isCompiler := compiler.Resolve(ex.Command.Arguments, compilers)
	if !isCompiler {
		return nil
	}

	parsed, err := flags.Parse(argv[1:], ex.Command.Environment)
	if err != nil {
		slog.Warn("skipping execution: unrecognised compiler argument", "program", argv[0], "error", err)
		return nil
	}
	if !flags.RunsCompilationPass(parsed) {
		return nil
	}

	sources := collectSources(parsed)
	if len(sources) == 0 {
		return nil
	}
	output := collectOutput(parsed)
	noLinking := hasType(parsed, flags.KindOfOutputNoLinking)

	program := argv[0]
	entries := make([]compdb.Entry, 0, len(sources))
	for _, src := range sources {
		e := compdb.Entry{
			File:      src,
			Directory: ex.Command.WorkingDir,
			Output:    output,
			Arguments: canonicalArgv(program, noLinking, parsed, src),
		}
		e, ok := absolutize(e)
		if !ok {
			continue
		}
		if content.RelativeTo != "" {
			e = relativize(e, content.RelativeTo)
		}
		entries = append(entries, e)
	}
	return entries
}

func collectSources(parsed []flags.Flag) []string {
	var sources []string
	for _, f := range parsed {
		if f.Type == flags.Source && len(f.Arguments) > 0 {
			sources = append(sources, f.Arguments[0])
		}
	}
	return sources
}

func collectOutput(parsed []flags.Flag) string {
	for _, f := range parsed {
		if f.Type == flags.KindOfOutputOutput && len(f.Arguments) > 1 {
			return f.Arguments[1]
		}
	}
	return ""
}

func hasType(parsed []flags.Flag, t flags.Type) bool {
	for _, f := range parsed {
		if f.Type == t {
			return true
		}
	}
	return false
}

// canonicalArgv rebuilds the per-source compile-only argv: the program,
// a synthesised -c when the original invocation did not already request
// compile-without-linking, then every flag's tokens in original order
// except LINKER, PREPROCESSOR_MAKE, DIRECTORY_SEARCH_LINKER flags and
// SOURCE flags naming a file other than src.
func canonicalArgv(program string, noLinking bool, parsed []flags.Flag, src string) []string {
	argv := []string{program}
	if !noLinking {
		argv = append(argv, "-c")
	}
	for _, f := range parsed {
		switch f.Type {
		case flags.Linker, flags.PreprocessorMake, flags.DirectorySearchLinker:
			continue
		case flags.Source:
			if len(f.Arguments) == 0 || f.Arguments[0] != src {
				continue
			}
		}
		argv = append(argv, f.Arguments...)
	}
	return argv
}

// absolutize resolves a relative file/output against directory, dropping
// the entry if directory itself is not absolute.
func absolutize(e compdb.Entry) (compdb.Entry, bool) {
	if !pathutil.IsAbsolute(e.Directory) {
		return compdb.Entry{}, false
	}
	if !pathutil.IsAbsolute(e.File) {
		e.File = pathutil.Abs(e.Directory, e.File)
	}
	if e.Output != "" && !pathutil.IsAbsolute(e.Output) {
		e.Output = pathutil.Abs(e.Directory, e.Output)
	}
	return e, true
}

// relativize rewrites file/directory/output relative to root.
func relativize(e compdb.Entry, root string) compdb.Entry {
	if rel, err := pathutil.Relative(root, e.File); err == nil {
		e.File = rel
	}
	if e.Output != "" {
		if rel, err := pathutil.Relative(root, e.Output); err == nil {
			e.Output = rel
		}
	}
	if rel, err := pathutil.Relative(root, e.Directory); err == nil {
		e.Directory = rel
	}
	return e
}
