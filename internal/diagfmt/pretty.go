package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"goboscript/internal/diag"
	"goboscript/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	PrettyItems(w, bag.Items(), fs, opts)
}

// PrettyItems is Pretty over an explicit list; callers decide the order.
func PrettyItems(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPrinter(w, fs, opts)
	for i := range items {
		p.diagnostic(&items[i])
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	bold  *color.Color
	faint *color.Color
}

func newPrinter(w io.Writer, fs *source.FileSet, opts PrettyOpts) *printer {
	p := &printer{
		w:     w,
		fs:    fs,
		opts:  opts,
		bold:  color.New(color.Bold),
		faint: color.New(color.FgBlue),
	}
	p.setColor(p.bold)
	p.setColor(p.faint)
	return p
}

// setColor pins the decision so output does not depend on whether w is a tty.
func (p *printer) setColor(c *color.Color) *color.Color {
	if p.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p *printer) severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.setColor(color.New(color.FgRed, color.Bold))
	case diag.SevWarning:
		return p.setColor(color.New(color.FgYellow, color.Bold))
	}
	return p.setColor(color.New(color.FgCyan, color.Bold))
}

func (p *printer) location(sp source.Span) (string, source.LineCol) {
	f := p.fs.Get(sp.File)
	start, _ := p.fs.Resolve(sp)
	return formatPath(p.fs, f, p.opts.PathMode), start
}

func (p *printer) diagnostic(d *diag.Diagnostic) {
	sevColor := p.severityColor(d.Severity)
	path, start := p.location(d.Primary)
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.bold.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
		sevColor.Sprintf("%s %s:", d.Severity, d.Code.ID()),
		p.bold.Sprint(d.Message),
	)
	p.snippet(d.Primary, sevColor)
	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		npath, nstart := p.location(n.Span)
		fmt.Fprintf(p.w, "  %s %s:%d:%d: %s\n", p.faint.Sprint("note:"), npath, nstart.Line, nstart.Col, n.Msg)
	}
}

// snippet prints the primary line (plus Context lines before it) and an
// underline. Column math uses display width so carets line up under
// wide characters.
func (p *printer) snippet(sp source.Span, c *color.Color) {
	f := p.fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := p.fs.Resolve(sp)
	first := uint32(1)
	if ctx := uint32(max(p.opts.Context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	gutter := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(p.w, "%s %s\n", p.faint.Sprintf("%*d |", gutter, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	startCol := int(start.Col) - 1
	startCol = min(max(startCol, 0), len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, startCol), len(line))
	}
	pad := padFor(line[:startCol])
	width := max(runewidth.StringWidth(line[startCol:endCol]), 1)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(p.w, "%s %s%s\n", p.faint.Sprintf("%*s |", gutter, ""), pad, c.Sprint(marker))
}

// padFor keeps tabs and replaces everything else with spaces of the same width.
func padFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
