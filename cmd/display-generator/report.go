package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"display-generator/internal/diagnostic"
)

var severityColor = map[diagnostic.Severity]*color.Color{
	diagnostic.SeverityError:   color.New(color.FgRed, color.Bold),
	diagnostic.SeverityWarning: color.New(color.FgYellow),
	diagnostic.SeverityInfo:    color.New(color.FgCyan),
}

// colorize turns colors off unless w is a terminal.
func colorize(w io.Writer) {
	f, ok := w.(*os.File)
	color.NoColor = !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// printDiagnostics writes one line per diagnostic. Infos are written only
// when verbose.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics, verbose bool) {
	for _, diag := range d.All() {
		if diag.Severity == diagnostic.SeverityInfo && !verbose {
			continue
		}

		_, _ = severityColor[diag.Severity].Fprint(w, diag.Severity.String())
		_, _ = fmt.Fprintf(w, ": %s\n", diag)
	}
}
