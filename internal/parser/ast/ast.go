// Package ast defines the parse tree handed from the front end to the
// compiler core.
//
// The tree is deliberately uniform: every node is a Node tagged with a Kind,
// an optional textual Value (identifier name, literal text, type name) and an
// ordered list of children. Consumers dispatch on Kind and index children by
// position; the expected shape of each kind is documented next to it.
package ast

import (
	"strings"

	"github.com/hassan/jmm/internal/lexer"
)

// Kind tags a parse tree node.
type Kind int

const (
	KindInvalid Kind = iota

	// Declarations

	KindProgram      // children: (Import | StaticImport)*, Class+
	KindImport       // Value: class; children: [] or [Identifier, Params{Type*}, Type]
	KindStaticImport // same shape as KindImport
	KindClass        // Value: name; children: Extends?, VarDecl*, (Method | Main)*
	KindExtends      // Value: superclass name
	KindVarDecl      // Value: name; children: [Type]
	KindType         // Value: "int", "int[]", "boolean", "void", "String[]" or a class name
	KindMethod       // Value: name; children: [Type, Params, Body, Return]
	KindMain         // Value: argument name; children: [Body]
	KindParams       // children: Param* (or Type* inside an import)
	KindParam        // Value: name; children: [Type]
	KindBody         // children: VarDecl*, statement*
	KindReturn       // children: [expression]

	// Statements

	KindBlock      // children: statement*
	KindIf         // children: [cond, then] or [cond, then, else]
	KindWhile      // children: [cond, body]
	KindAssignment // children: [Identifier | Bracket, expression]
	KindExprStmt   // children: [expression]

	// Expressions

	KindInteger     // Value: literal text
	KindTrue        //
	KindFalse       //
	KindIdentifier  // Value: name
	KindThis        //
	KindNewIntArray // children: [size]
	KindNewClass    // Value: class name
	KindLength      // children: [array]
	KindNot         // children: [operand]
	KindAnd         // children: [lhs, rhs]
	KindLess        // children: [lhs, rhs]
	KindAdd         // children: [lhs, rhs]
	KindSub         // children: [lhs, rhs]
	KindMul         // children: [lhs, rhs]
	KindDiv         // children: [lhs, rhs]
	KindBracket     // children: [array, index]
	KindCall        // Value: method name; children: [receiver, Args]
	KindArgs        // children: expression*
)

var kindNames = [...]string{
	KindInvalid:      "Invalid",
	KindProgram:      "Program",
	KindImport:       "Import",
	KindStaticImport: "StaticImport",
	KindClass:        "Class",
	KindExtends:      "Extends",
	KindVarDecl:      "VarDecl",
	KindType:         "Type",
	KindMethod:       "Method",
	KindMain:         "Main",
	KindParams:       "Params",
	KindParam:        "Param",
	KindBody:         "Body",
	KindReturn:       "Return",
	KindBlock:        "Block",
	KindIf:           "If",
	KindWhile:        "While",
	KindAssignment:   "Assignment",
	KindExprStmt:     "ExprStmt",
	KindInteger:      "Integer",
	KindTrue:         "True",
	KindFalse:        "False",
	KindIdentifier:   "Identifier",
	KindThis:         "This",
	KindNewIntArray:  "NewIntArray",
	KindNewClass:     "NewClass",
	KindLength:       "Length",
	KindNot:          "Not",
	KindAnd:          "And",
	KindLess:         "Less",
	KindAdd:          "Add",
	KindSub:          "Sub",
	KindMul:          "Mul",
	KindDiv:          "Div",
	KindBracket:      "Bracket",
	KindCall:         "Call",
	KindArgs:         "Args",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsBinary reports whether k is one of the binary operator kinds.
func (k Kind) IsBinary() bool {
	return k >= KindAnd && k <= KindDiv
}

// IsExpression reports whether k is an expression kind.
func (k Kind) IsExpression() bool {
	return k >= KindInteger && k <= KindCall
}

// Node is a parse tree node.
type Node struct {
	Kind     Kind
	Value    string
	Pos      lexer.Position
	Children []*Node
}

// New creates a node.
func New(kind Kind, value string, pos lexer.Position, children ...*Node) *Node {
	return &Node{Kind: kind, Value: value, Pos: pos, Children: children}
}

// Is reports whether the node has the given kind.
func (n *Node) Is(kind Kind) bool {
	return n != nil && n.Kind == kind
}

// Child returns the i-th child, or nil if there is none.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// ChildrenOf returns the children of n having the given kind, in order.
func (n *Node) ChildrenOf(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// String renders the node without its children, e.g. "Identifier(x)".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Value == "" {
		return n.Kind.String()
	}
	return n.Kind.String() + "(" + n.Value + ")"
}

// Dump renders the subtree, one node per line, indented by depth.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.String())
	sb.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}
