package buildpipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"goboscript/internal/diag"
	"goboscript/internal/diagfmt"
	"goboscript/internal/source"
)

// reporter prints diagnostics in the order the build hands them over. In
// JSON mode it only collects them and writes one document at the end.
type reporter struct {
	w      io.Writer
	fs     *source.FileSet
	format Format
	quiet  bool
	color  bool

	pretty  diagfmt.PrettyOpts
	items   []diag.Diagnostic
	project []diag.Diagnostic // not tied to a unit, e.g. config warnings
}

func newReporter(w io.Writer, fs *source.FileSet, req *BuildRequest) *reporter {
	return &reporter{
		w:      w,
		fs:     fs,
		format: req.Format,
		quiet:  req.Quiet,
		color:  req.Color,
		pretty: diagfmt.PrettyOpts{
			Color:     req.Color,
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
		},
	}
}

func (r *reporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (r *reporter) unit(u *Unit, sev diag.Severity) {
	if sev == diag.SevWarning && r.quiet {
		return
	}
	items := u.Diagnostics(sev)
	if r.format == FormatJSON {
		r.items = append(r.items, items...)
		return
	}
	if len(items) > 0 {
		diagfmt.PrettyItems(r.w, items, r.fs, r.pretty)
	}
	if n := u.Bag.Omitted().Count(sev); n > 0 {
		kind := plural(n, sev.Label(), sev.Label()+"s")
		fmt.Fprintf(r.w, "%s: %d more %s in %s not shown (--max-diagnostics)\n",
			r.paint(color.FgBlue, color.Bold).Sprint("note"), n, kind, r.fs.DisplayPath(u.File))
	}
}

// projectWarning records a warning about the project itself. It is counted
// like any unit diagnostic and printed as one line.
func (r *reporter) projectWarning(d diag.Diagnostic) {
	r.project = append(r.project, d)
	if r.quiet {
		return
	}
	if r.format == FormatJSON {
		r.items = append(r.items, d)
		return
	}
	fmt.Fprintf(r.w, "%s: %s\n", r.paint(color.FgYellow, color.Bold).Sprint("warning"), d.Message)
}

// summary prints the count lines, or the JSON document.
func (r *reporter) summary(s diag.Summary) error {
	if r.format == FormatJSON {
		out := diagfmt.BuildDiagnosticsOutput(r.items, r.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     true,
		})
		// quiet and --max-diagnostics shorten the list, never the counters
		out.Warnings, out.Errors = s.Warnings, s.Errors
		out.Omitted = max(s.Warnings+s.Errors-out.Count, 0)
		return diagfmt.WriteJSON(r.w, out)
	}
	bold := r.paint(color.Bold)
	if s.Warnings > 0 {
		fmt.Fprintf(r.w, "%s %s\n", bold.Sprint(s.Warnings),
			r.paint(color.FgYellow, color.Bold).Sprint(plural(s.Warnings, "warning found", "warnings found")))
	}
	if s.Errors > 0 {
		fmt.Fprintf(r.w, "%s %s\n", bold.Sprint(s.Errors),
			r.paint(color.FgRed, color.Bold).Sprint(plural(s.Errors, "error found", "errors found")))
	}
	return nil
}

func (r *reporter) upToDate(output string) {
	if r.quiet || r.format == FormatJSON {
		return
	}
	fmt.Fprintf(r.w, "%s %s\n", r.paint(color.FgGreen, color.Bold).Sprint("Up to date"), output)
}

func (r *reporter) finished(elapsed time.Duration) {
	if r.quiet || r.format == FormatJSON {
		return
	}
	fmt.Fprintf(r.w, "%s in %s\n", r.paint(color.FgGreen, color.Bold).Sprint("Finished"), elapsed.Round(time.Microsecond))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
