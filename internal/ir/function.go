package ir

import (
	"fmt"
	"strings"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/semantic/types"
	"github.com/hassan/jmm/internal/symtab"
)

// Function is the DAG of one method body.
type Function struct {
	Method *symtab.Function
	Body   []Stmt

	// Result is the returned expression; nil for main.
	Result Expr

	nextID int
}

// NewFunction creates an empty function for method.
func NewFunction(method *symtab.Function) *Function {
	return &Function{Method: method}
}

func (f *Function) newNode(pos lexer.Position, typ types.Type) node {
	f.nextID++
	return node{id: f.nextID, pos: pos, typ: typ}
}

// Name returns "Class.method".
func (f *Function) Name() string {
	if f.Method.Class == nil {
		return f.Method.Name
	}
	return f.Method.Class.Name + "." + f.Method.Name
}

// NumNodes returns how many expression nodes were created for f.
func (f *Function) NumNodes() int {
	return f.nextID
}

// NewInteger creates an integer constant outside the builder's cache. It
// is used by rewriting passes.
func (f *Function) NewInteger(value int32, pos lexer.Position) *IntegerConstant {
	return &IntegerConstant{node: f.newNode(pos, types.Int), Value: value}
}

// NewBoolean creates a boolean constant outside the builder's cache.
func (f *Function) NewBoolean(value bool, pos lexer.Position) *BooleanConstant {
	return &BooleanConstant{node: f.newNode(pos, types.Boolean), Value: value}
}

// Statements counts the statements of f, nested bodies included.
func (f *Function) Statements() int {
	return countStmts(f.Body)
}

func countStmts(stmts []Stmt) int {
	n := 0
	for _, s := range stmts {
		n++
		switch s := s.(type) {
		case *If:
			n += countStmts(s.Then) + countStmts(s.Else)
		case *While:
			n += countStmts(s.Body)
		}
	}
	return n
}

// Dump renders the DAG in a line-oriented form. Each expression node is
// printed once, before its first use, as "%id = label operands : type";
// statements refer to expressions by id.
func (f *Function) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "function %s%s : %s\n", f.Name(), f.Method.Signature, f.Method.Return)
	seen := make(map[Expr]bool)
	dumpStmts(&sb, f.Body, seen, 1)
	if f.Result != nil {
		dumpExpr(&sb, f.Result, seen, 1)
		fmt.Fprintf(&sb, "  return %s\n", describe(f.Result))
	}
	return sb.String()
}

func dumpStmts(sb *strings.Builder, stmts []Stmt, seen map[Expr]bool, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range stmts {
		for _, op := range s.Operands() {
			dumpExpr(sb, op, seen, depth)
		}
		sb.WriteString(indent)
		sb.WriteString(s.Label())
		for _, op := range s.Operands() {
			sb.WriteByte(' ')
			sb.WriteString(describe(op))
		}
		sb.WriteByte('\n')

		switch s := s.(type) {
		case *If:
			dumpStmts(sb, s.Then, seen, depth+1)
			if len(s.Else) > 0 {
				sb.WriteString(indent + "else\n")
				dumpStmts(sb, s.Else, seen, depth+1)
			}
		case *While:
			dumpStmts(sb, s.Body, seen, depth+1)
		}
	}
}

func dumpExpr(sb *strings.Builder, e Expr, seen map[Expr]bool, depth int) {
	indent := strings.Repeat("  ", depth)
	Walk(e, seen, func(n Expr) {
		sb.WriteString(indent)
		sb.WriteString(describe(n))
		sb.WriteString(" = ")
		sb.WriteString(n.Label())
		for i, op := range n.Operands() {
			if i == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(describe(op))
		}
		sb.WriteString(" : ")
		sb.WriteString(n.Type().String())
		sb.WriteByte('\n')
	})
}

// Class groups the functions of one user class.
type Class struct {
	Class     *symtab.Class
	Functions []*Function
}

// Program is the IR of a compilation unit.
type Program struct {
	Table   *symtab.Table
	Classes []*Class
}

// Functions returns every function of every class in order.
func (p *Program) Functions() []*Function {
	var fns []*Function
	for _, c := range p.Classes {
		fns = append(fns, c.Functions...)
	}
	return fns
}

// Dump renders every function of the program.
func (p *Program) Dump() string {
	var sb strings.Builder
	for _, c := range p.Classes {
		fmt.Fprintf(&sb, "class %s\n", c.Class)
		for _, fn := range c.Functions {
			sb.WriteString(fn.Dump())
		}
	}
	return sb.String()
}
