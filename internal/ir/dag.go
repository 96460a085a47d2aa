// Package ir implements the intermediate representation: a per-function DAG
// of typed expression nodes under a list of statements.
//
// Pure expressions are built through a per-function cache keyed on their
// structure, so two occurrences of the same read or literal are one node.
// Statements that write (Assignment, BracketAssignment) never go through the
// cache and are distinct per occurrence.
//
// Every expression carries a type. When resolution fails the type is
// types.Unknown, which later checks treat as compatible with anything.
package ir

import (
	"fmt"
	"strconv"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/semantic/types"
	"github.com/hassan/jmm/internal/symtab"
)

// Expr is a value-producing DAG node.
type Expr interface {
	// ID is unique within the owning function.
	ID() int
	Pos() lexer.Position
	Type() types.Type

	// Operands returns the child expressions in evaluation order.
	Operands() []Expr

	// Label describes the node without its operands, e.g. "+" or "const 7".
	Label() string

	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Pos() lexer.Position
	Operands() []Expr
	Label() string
	stmtNode()
}

type node struct {
	id  int
	pos lexer.Position
	typ types.Type
}

func (n *node) ID() int             { return n.id }
func (n *node) Pos() lexer.Position { return n.pos }
func (n *node) Type() types.Type    { return n.typ }
func (*node) exprNode()             {}

// Operator is a binary operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpLess
	OpAnd
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLess:
		return "<"
	case OpAnd:
		return "&&"
	default:
		return "?"
	}
}

// Expressions

// IntegerConstant is a 32-bit integer literal.
type IntegerConstant struct {
	node
	Value int32
}

func (*IntegerConstant) Operands() []Expr { return nil }
func (c *IntegerConstant) Label() string  { return "const " + strconv.Itoa(int(c.Value)) }

// BooleanConstant is true or false.
type BooleanConstant struct {
	node
	Value bool
}

func (*BooleanConstant) Operands() []Expr { return nil }
func (c *BooleanConstant) Label() string  { return "const " + strconv.FormatBool(c.Value) }

// Invalid stands in for an integer literal that does not fit in 32 bits.
// It has type int so checks on the enclosing expression still run.
type Invalid struct {
	node
	Text string
}

func (*Invalid) Operands() []Expr { return nil }
func (i *Invalid) Label() string  { return "invalid " + i.Text }

// Variable reads a local, parameter or member. Var is nil when the name did
// not resolve.
type Variable struct {
	node
	Name string
	Var  *symtab.Variable
}

func (*Variable) Operands() []Expr { return nil }

func (v *Variable) Label() string {
	if v.Var == nil {
		return "unresolved " + v.Name
	}
	return v.Var.Kind.String() + " " + v.Name
}

// Resolved reports whether the variable has a descriptor.
func (v *Variable) Resolved() bool { return v.Var != nil }

// This is the receiver of an instance method.
type This struct {
	node
	Var *symtab.Variable
}

func (*This) Operands() []Expr { return nil }
func (*This) Label() string    { return "this" }

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	node
	Op    Operator
	Left  Expr
	Right Expr
}

func (b *BinaryOp) Operands() []Expr { return []Expr{b.Left, b.Right} }
func (b *BinaryOp) Label() string    { return b.Op.String() }

// Not is boolean negation.
type Not struct {
	node
	Operand Expr
}

func (n *Not) Operands() []Expr { return []Expr{n.Operand} }
func (*Not) Label() string      { return "!" }

// Bracket reads Array[Index].
type Bracket struct {
	node
	Array Expr
	Index Expr
}

func (b *Bracket) Operands() []Expr { return []Expr{b.Array, b.Index} }
func (*Bracket) Label() string      { return "[]" }

// Length is Array.length.
type Length struct {
	node
	Array Expr
}

func (l *Length) Operands() []Expr { return []Expr{l.Array} }
func (*Length) Label() string      { return "length" }

// NewIntArray allocates an int array of Size elements.
type NewIntArray struct {
	node
	Size Expr
}

func (n *NewIntArray) Operands() []Expr { return []Expr{n.Size} }
func (*NewIntArray) Label() string      { return "new int[]" }

// NewClass instantiates Class. Class is nil when the name did not resolve.
type NewClass struct {
	node
	Name  string
	Class *symtab.Class
}

func (*NewClass) Operands() []Expr { return nil }
func (n *NewClass) Label() string  { return "new " + n.Name }

// MethodCall invokes an instance method on Receiver.
//
// Method is the deduced callee, nil when deduction failed. When Ambiguous is
// set, Method is only the first of several applicable overloads.
type MethodCall struct {
	node
	Receiver  Expr
	Name      string
	Args      []Expr
	Method    *symtab.Function
	Ambiguous bool
}

func (c *MethodCall) Operands() []Expr {
	return append([]Expr{c.Receiver}, c.Args...)
}

func (c *MethodCall) Label() string { return "call ." + c.Name }

// StaticCall invokes a static method of Class.
type StaticCall struct {
	node
	Class     *symtab.Class
	Name      string
	Args      []Expr
	Method    *symtab.Function
	Ambiguous bool
}

func (c *StaticCall) Operands() []Expr { return c.Args }
func (c *StaticCall) Label() string    { return "call " + c.Class.Name + "." + c.Name }

// Statements

type stmt struct {
	pos lexer.Position
}

func (s *stmt) Pos() lexer.Position { return s.pos }
func (*stmt) stmtNode()             {}

// Assignment stores Value into the variable Target. Target is nil when the
// name did not resolve.
type Assignment struct {
	stmt
	Name   string
	Target *symtab.Variable
	Value  Expr
}

func (a *Assignment) Operands() []Expr { return []Expr{a.Value} }
func (a *Assignment) Label() string    { return a.Name + " :=" }

// BracketAssignment stores Value into Array[Index], where Array is the
// variable named Name.
type BracketAssignment struct {
	stmt
	Name  string
	Array *symtab.Variable
	Index Expr
	Value Expr
}

func (a *BracketAssignment) Operands() []Expr { return []Expr{a.Index, a.Value} }
func (a *BracketAssignment) Label() string    { return a.Name + "[] :=" }

// ExprStmt evaluates Expr for its side effects and discards the result.
type ExprStmt struct {
	stmt
	Expr Expr
}

func (s *ExprStmt) Operands() []Expr { return []Expr{s.Expr} }
func (*ExprStmt) Label() string      { return "eval" }

// If runs Then or Else depending on Cond.
type If struct {
	stmt
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (s *If) Operands() []Expr { return []Expr{s.Cond} }
func (*If) Label() string      { return "if" }

// While runs Body while Cond holds.
type While struct {
	stmt
	Cond Expr
	Body []Stmt
}

func (s *While) Operands() []Expr { return []Expr{s.Cond} }
func (*While) Label() string      { return "while" }

// Walk visits e and its operands in post-order. Nodes recorded in seen are
// skipped, so with a non-nil seen every shared node is visited once.
func Walk(e Expr, seen map[Expr]bool, visit func(Expr)) {
	if e == nil || seen[e] {
		return
	}
	if seen != nil {
		seen[e] = true
	}
	for _, op := range e.Operands() {
		Walk(op, seen, visit)
	}
	visit(e)
}

func describe(e Expr) string {
	return fmt.Sprintf("%%%d", e.ID())
}
