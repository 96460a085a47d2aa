package diag

import (
	"fmt"

	"github.com/hassan/jmm/internal/lexer"
)

// Status is the aggregated severity of a compilation.
type Status int

const (
	StatusOK Status = iota
	StatusMinor
	StatusMajor
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMinor:
		return "minor"
	case StatusMajor:
		return "major"
	}
	return "unknown"
}

// ExitCode maps the status to a process exit code: 0, 1 or 2.
func (s Status) ExitCode() int {
	return int(s)
}

// Accumulator collects diagnostics in report order.
//
// It is not safe for concurrent use; each compilation owns its own.
type Accumulator struct {
	diagnostics []Diagnostic
	minor       int
	major       int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Report records d. A zero severity is treated as Major.
func (a *Accumulator) Report(d Diagnostic) {
	if d.Severity != Minor {
		d.Severity = Major
	}
	if d.Message == "" {
		d.Message = d.Kind.String()
	}
	a.diagnostics = append(a.diagnostics, d)
	if d.Severity == Minor {
		a.minor++
	} else {
		a.major++
	}
}

// Minor records a minor defect.
func (a *Accumulator) Minor(kind Kind, pos lexer.Position, format string, args ...any) {
	a.Report(Diagnostic{Kind: kind, Severity: Minor, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Major records a major defect.
func (a *Accumulator) Major(kind Kind, pos lexer.Position, format string, args ...any) {
	a.Report(Diagnostic{Kind: kind, Severity: Major, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Status returns the highest severity seen so far.
func (a *Accumulator) Status() Status {
	switch {
	case a.major > 0:
		return StatusMajor
	case a.minor > 0:
		return StatusMinor
	}
	return StatusOK
}

// Diagnostics returns the recorded diagnostics in report order.
func (a *Accumulator) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(a.diagnostics))
	copy(out, a.diagnostics)
	return out
}

// Count returns how many diagnostics of the given kind were recorded.
func (a *Accumulator) Count(kind Kind) int {
	n := 0
	for _, d := range a.diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of diagnostics.
func (a *Accumulator) Len() int {
	return len(a.diagnostics)
}
