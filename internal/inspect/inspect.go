// Package inspect renders event reports and compilation databases for
// operator convenience as a table, plain tab-separated text, or JSON.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"citwatch/internal/compdb"
	"citwatch/internal/report"
)

// TerminalWidth returns out's terminal column width, falling back to 80
// when out isn't a terminal-backed file.
func TerminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// UseColor reports whether out is a color-capable terminal, honoring
// NO_COLOR.
func UseColor(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WriteReport renders r to w in the requested format: table, plain, or
// json.
func WriteReport(w io.Writer, r *report.Report, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeReportTable(w, r)
	case "plain":
		return writeReportPlain(w, r)
	case "json":
		return writeJSON(w, r)
	default:
		return fmt.Errorf("inspect: unsupported format %q", format)
	}
}

// WriteCompdb renders entries to w in the requested format.
func WriteCompdb(w io.Writer, entries []compdb.Entry, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeCompdbTable(w, entries)
	case "plain":
		return writeCompdbPlain(w, entries)
	case "json":
		return compdb.Encode(w, entries, compdb.FormatOptions{CommandAsArray: true})
	default:
		return fmt.Errorf("inspect: unsupported format %q", format)
	}
}

func writeReportTable(w io.Writer, r *report.Report) error {
	color := UseColor(w)
	argsWidth := TerminalWidth(w) - 40
	if argsWidth < 20 {
		argsWidth = 20
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: argsWidth},
		{Number: 4, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"PID", "Program", "Arguments", "Outcome"})

	for _, ex := range r.Executions {
		pid := "-"
		if ex.Run.PID != nil {
			pid = fmt.Sprintf("%d", *ex.Run.PID)
		}
		tw.AppendRow(table.Row{pid, ex.Command.Program, strings.Join(ex.Command.Arguments, " "), colorizeOutcome(outcomeOf(ex), color)})
	}
	if len(r.Executions) == 0 {
		tw.AppendRow(table.Row{"-", "(no executions)", "-", "-"})
	}
	_ = tw.Render()
	return nil
}

func colorizeOutcome(outcome string, color bool) string {
	if !color {
		return outcome
	}
	switch {
	case outcome == "ok":
		return text.Colors{text.FgGreen}.Sprint(outcome)
	case outcome == "running":
		return text.Colors{text.FgYellow}.Sprint(outcome)
	default:
		return text.Colors{text.FgRed}.Sprint(outcome)
	}
}

func writeReportPlain(w io.Writer, r *report.Report) error {
	for _, ex := range r.Executions {
		pid := "-"
		if ex.Run.PID != nil {
			pid = fmt.Sprintf("%d", *ex.Run.PID)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pid, ex.Command.Program, strings.Join(ex.Command.Arguments, " "), outcomeOf(ex)); err != nil {
			return err
		}
	}
	return nil
}

func outcomeOf(ex report.Execution) string {
	if len(ex.Run.Events) == 0 {
		return "-"
	}
	last := ex.Run.Events[len(ex.Run.Events)-1]
	switch last.Type {
	case report.EventStop:
		if last.Status != nil && *last.Status == 0 {
			return "ok"
		}
		return fmt.Sprintf("exit %d", derefInt(last.Status))
	case report.EventSignal:
		return fmt.Sprintf("signal %d", derefInt(last.Signal))
	default:
		return "running"
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func writeCompdbTable(w io.Writer, entries []compdb.Entry) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 80},
	})
	tw.AppendHeader(table.Row{"File", "Output", "Arguments"})

	for _, e := range entries {
		output := e.Output
		if output == "" {
			output = "-"
		}
		tw.AppendRow(table.Row{e.File, output, strings.Join(e.Arguments, " ")})
	}
	if len(entries) == 0 {
		tw.AppendRow(table.Row{"(empty database)", "-", "-"})
	}
	_ = tw.Render()
	return nil
}

func writeCompdbPlain(w io.Writer, entries []compdb.Entry) error {
	for _, e := range entries {
		output := e.Output
		if output == "" {
			output = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", e.File, output, strings.Join(e.Arguments, " ")); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
