// Package diagfmt renders diagnostics for humans: severity, code, position
// and message, the offending source line with a caret, plus indented notes.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"morph/internal/diag"
	"morph/internal/source"
)

// Printer writes diagnostics to W, resolving spans against FS.
type Printer struct {
	W     io.Writer
	FS    *source.FileSet
	Color bool
}

// Print renders one diagnostic with the offending source line underneath.
func (p Printer) Print(d *diag.Diagnostic) {
	label := color.New(severityColor(d.Severity))
	if !p.Color {
		label.DisableColor()
	}
	fmt.Fprintf(p.W, "%s[%s] %s: %s\n",
		label.Sprint(d.Severity.String()), d.Code, p.position(d.Primary), d.Message)
	p.sourceLine(d.Primary)
	for _, n := range d.Notes {
		fmt.Fprintf(p.W, "    note %s: %s\n", p.position(n.Span), n.Msg)
	}
}

// sourceLine echoes the line the span starts on, with a caret under the
// start column. Tabs in the line shift the caret; the grammar has none.
func (p Printer) sourceLine(sp source.Span) {
	if p.FS == nil {
		return
	}
	f := p.FS.Get(sp.File)
	if f == nil {
		return
	}
	start, _ := p.FS.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" || start.Col == 0 {
		return
	}
	fmt.Fprintf(p.W, "    %s\n", line)
	fmt.Fprintf(p.W, "    %s^\n", strings.Repeat(" ", int(start.Col)-1))
}

// PrintBag renders every diagnostic in the bag in deterministic order.
func (p Printer) PrintBag(b *diag.Bag) {
	if b == nil || b.Len() == 0 {
		return
	}
	b.Dedup()
	b.Sort()
	items := b.Items()
	for i := range items {
		p.Print(&items[i])
	}
}

func (p Printer) position(sp source.Span) string {
	if p.FS == nil {
		return sp.String()
	}
	f := p.FS.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	start, _ := p.FS.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}

func severityColor(s diag.Severity) color.Attribute {
	switch s {
	case diag.SevError:
		return color.FgRed
	case diag.SevWarning:
		return color.FgYellow
	default:
		return color.FgCyan
	}
}
