package diag

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/jmm/internal/lexer"
)

func pos(line, col int) lexer.Position {
	return lexer.Position{Filename: "a.jmm", Line: line, Column: col}
}

func TestAccumulator_Status(t *testing.T) {
	acc := NewAccumulator()
	assert.Equal(t, StatusOK, acc.Status())
	assert.Equal(t, 0, acc.Status().ExitCode())

	acc.Minor(LiteralOutOfRange, pos(1, 1), "integer literal %s out of range", "99999999999")
	assert.Equal(t, StatusMinor, acc.Status())
	assert.Equal(t, 1, acc.Status().ExitCode())

	acc.Major(UnresolvedIdentifier, pos(2, 3), "cannot resolve %s", "x")
	assert.Equal(t, StatusMajor, acc.Status())
	assert.Equal(t, 2, acc.Status().ExitCode())

	acc.Minor(LiteralOutOfRange, pos(3, 1), "again")
	assert.Equal(t, StatusMajor, acc.Status(), "status never decreases")

	assert.Equal(t, 3, acc.Len())
	assert.Equal(t, 2, acc.Count(LiteralOutOfRange))
	assert.Equal(t, 1, acc.Count(UnresolvedIdentifier))
	assert.Equal(t, 0, acc.Count(TypeMismatch))
}

func TestAccumulator_ReportDefaults(t *testing.T) {
	acc := NewAccumulator()
	acc.Report(Diagnostic{Kind: IllegalThisUse, Pos: pos(1, 1)})

	ds := acc.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, Major, ds[0].Severity)
	assert.Equal(t, "illegal use of this", ds[0].Message)

	ds[0].Message = "changed"
	assert.Equal(t, "illegal use of this", acc.Diagnostics()[0].Message, "Diagnostics returns a copy")
}

func TestMismatch(t *testing.T) {
	d := Mismatch(pos(4, 5), "int", "boolean")
	assert.Equal(t, TypeMismatch, d.Kind)
	assert.Equal(t, Major, d.Severity)
	assert.Equal(t, "Type mismatch: expected type int, but expression has type boolean", d.Message)
	assert.Equal(t, "int", d.Expected)
	assert.Equal(t, "boolean", d.Found)
}

func TestAmbiguous(t *testing.T) {
	d := Ambiguous(pos(1, 1), "foo", []string{"foo(int)", "foo(boolean)"})
	assert.Equal(t, AmbiguousOverload, d.Kind)
	assert.Equal(t, "foo", d.Name)
	assert.Contains(t, d.Message, "foo(int), foo(boolean)")
}

func TestPrinter_Format(t *testing.T) {
	src := StringSource{"a.jmm": "class A {\n\tint x = y;\n}\n"}
	p := NewPrinter(nil, src)

	got := p.Format(Diagnostic{
		Kind:         SyntaxError,
		Severity:     Major,
		Pos:          pos(2, 8),
		Message:      `Encountered "="`,
		Alternatives: []string{`";"`},
	})

	want := "a.jmm: at line 2, column 8.\n" +
		"Encountered \"=\"\n" +
		"\tint x = y;\n" +
		"\t      ^\n" +
		"Was expecting one of:\n" +
		"    \";\"\n"
	assert.Equal(t, want, got)
}

func TestPrinter_MissingSourceOmitsExcerpt(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, NewFileSource())

	d := Diagnostic{Kind: UnresolvedIdentifier, Severity: Major, Message: "cannot resolve x",
		Pos: lexer.Position{Filename: filepath.Join(t.TempDir(), "missing.jmm"), Line: 1, Column: 1}}
	require.NoError(t, p.Print(d))

	assert.Contains(t, buf.String(), "at line 1, column 1.\ncannot resolve x\n")
	assert.NotContains(t, buf.String(), "^")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.jmm")
	require.NoError(t, os.WriteFile(path, []byte("first\r\nsecond\n"), 0o644))

	s := NewFileSource()
	line, ok := s.Line(path, 2)
	require.True(t, ok)
	assert.Equal(t, "second", line)

	line, ok = s.Line(path, 1)
	require.True(t, ok)
	assert.Equal(t, "first", line)

	_, ok = s.Line(path, 0)
	assert.False(t, ok)
}

func TestPrinter_PrintAll(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, nil)
	require.NoError(t, p.PrintAll([]Diagnostic{
		{Pos: pos(1, 1), Message: "one"},
		{Pos: pos(2, 1), Message: "two"},
	}))
	assert.Equal(t, "a.jmm: at line 1, column 1.\none\na.jmm: at line 2, column 1.\ntwo\n", buf.String())
}
