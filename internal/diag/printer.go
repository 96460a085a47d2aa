package diag

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Printer writes diagnostics to an error stream in the form
//
//	<file>: at line L, column C.
//	<message>
//	<source line>
//	    ^
//	Was expecting one of:
//	    <alternative>
//
// The excerpt and caret are omitted when the source line is unavailable.
// A Printer may be shared by concurrent compilations; each diagnostic is
// written as one unit.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	source Source
}

// NewPrinter returns a Printer writing to w. source may be nil.
func NewPrinter(w io.Writer, source Source) *Printer {
	return &Printer{w: w, source: source}
}

// Print writes a single diagnostic.
func (p *Printer) Print(d Diagnostic) error {
	text := p.Format(d)
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, text)
	return err
}

// PrintAll writes diagnostics in order and returns the first write error.
func (p *Printer) PrintAll(ds []Diagnostic) error {
	var sb strings.Builder
	for _, d := range ds {
		sb.WriteString(p.Format(d))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, sb.String())
	return err
}

// Format renders d without writing it.
func (p *Printer) Format(d Diagnostic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: at line %d, column %d.\n", d.Pos.Filename, d.Pos.Line, d.Pos.Column)
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	if p.source != nil && d.Pos.IsValid() {
		if line, ok := p.source.Line(d.Pos.Filename, d.Pos.Line); ok {
			sb.WriteString(line)
			sb.WriteByte('\n')
			sb.WriteString(caret(line, d.Pos.Column))
			sb.WriteByte('\n')
		}
	}

	if len(d.Alternatives) > 0 {
		sb.WriteString("Was expecting one of:\n")
		for _, alt := range d.Alternatives {
			sb.WriteString("    ")
			sb.WriteString(alt)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// caret builds the marker line under column, keeping tabs from the source
// so the caret lines up however the terminal expands them.
func caret(line string, column int) string {
	var sb strings.Builder
	i := 1
	for _, r := range line {
		if i >= column {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		i++
	}
	for ; i < column; i++ {
		sb.WriteByte(' ')
	}
	sb.WriteByte('^')
	return sb.String()
}
