// Package diag records the defects found while compiling one source file.
//
// Semantic defects are never returned as Go errors. They are reported into
// an Accumulator that is passed explicitly to every component that can find
// one; the driver inspects the accumulated Status after a full pass to decide
// whether code generation runs and which exit code to use.
package diag

import (
	"fmt"
	"strings"

	"github.com/hassan/jmm/internal/lexer"
)

// Kind classifies a defect.
type Kind int

const (
	UnresolvedIdentifier Kind = iota
	TypeMismatch
	AmbiguousOverload
	IllegalThisUse
	LiteralOutOfRange
	DuplicateDeclaration
	CyclicInheritance
	SyntaxError
)

var kindNames = [...]string{
	UnresolvedIdentifier: "unresolved identifier",
	TypeMismatch:         "type mismatch",
	AmbiguousOverload:    "ambiguous overload",
	IllegalThisUse:       "illegal use of this",
	LiteralOutOfRange:    "literal out of range",
	DuplicateDeclaration: "duplicate declaration",
	CyclicInheritance:    "cyclic inheritance",
	SyntaxError:          "syntax error",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Severity is the weight of a single defect.
type Severity int

const (
	// Minor defects are reported but do not stop code generation.
	Minor Severity = iota + 1
	// Major defects make the generated code unreliable.
	Major
)

func (s Severity) String() string {
	switch s {
	case Minor:
		return "minor"
	case Major:
		return "major"
	}
	return "unknown"
}

// Diagnostic is one reported defect.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos      lexer.Position
	Message  string

	// Expected and Found are set for TypeMismatch.
	Expected string
	Found    string

	// Name and Candidates are set for AmbiguousOverload.
	Name       string
	Candidates []string

	// Alternatives lists what would have been accepted, for SyntaxError.
	Alternatives []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// Mismatch builds a TypeMismatch diagnostic.
func Mismatch(pos lexer.Position, expected, found string) Diagnostic {
	return Diagnostic{
		Kind:     TypeMismatch,
		Severity: Major,
		Pos:      pos,
		Message:  "Type mismatch: expected type " + expected + ", but expression has type " + found,
		Expected: expected,
		Found:    found,
	}
}

// Ambiguous builds an AmbiguousOverload diagnostic.
func Ambiguous(pos lexer.Position, name string, candidates []string) Diagnostic {
	return Diagnostic{
		Kind:       AmbiguousOverload,
		Severity:   Major,
		Pos:        pos,
		Message:    "ambiguous call to " + name + ", candidates: " + strings.Join(candidates, ", "),
		Name:       name,
		Candidates: candidates,
	}
}
