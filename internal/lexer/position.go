// Package lexer turns source text into the token stream consumed by the
// parser, tracking the line and column of every token for diagnostics.
package lexer

import "strconv"

// Position is a location in a source file.
//
// Line and Column are 1-based; Column counts runes, not bytes. Offset is the
// 0-based byte offset into the source. The zero value is an invalid position.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// String formats the position as "file:line:column".
func (p Position) String() string {
	return p.Filename + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}
