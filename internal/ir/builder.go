package ir

import (
	"fmt"
	"strconv"

	"github.com/hassan/jmm/internal/diag"
	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
	"github.com/hassan/jmm/internal/semantic/types"
	"github.com/hassan/jmm/internal/symtab"
)

// Builder turns parse trees into DAG nodes, resolving names against a
// frozen class table and reporting defects to an accumulator.
//
// A Builder works on one function at a time; Enter (or BuildFunction)
// starts a new function and discards the previous deduplication cache.
type Builder struct {
	table *symtab.Table
	diags *diag.Accumulator

	fn    *Function
	cache cache
}

// NewBuilder creates a builder over table.
func NewBuilder(table *symtab.Table, diags *diag.Accumulator) *Builder {
	return &Builder{table: table, diags: diags}
}

// BuildProgram builds every function of every user class. All classes are
// fully populated before any body is built, so methods and fields can be
// referenced before their declaration.
func (b *Builder) BuildProgram() *Program {
	prog := &Program{Table: b.table}
	for _, c := range b.table.UserClasses() {
		class := &Class{Class: c}
		for _, fn := range c.Functions() {
			class.Functions = append(class.Functions, b.BuildFunction(fn))
		}
		// Rejected duplicates are only built for their diagnostics.
		for _, fn := range c.Rejected() {
			b.BuildFunction(fn)
		}
		prog.Classes = append(prog.Classes, class)
	}
	return prog
}

// Enter starts building the body of method.
func (b *Builder) Enter(method *symtab.Function) *Function {
	b.fn = NewFunction(method)
	b.cache = make(cache)
	return b.fn
}

// BuildFunction builds the statements and the returned expression of method.
func (b *Builder) BuildFunction(method *symtab.Function) *Function {
	fn := b.Enter(method)
	decl := method.Decl
	if decl == nil {
		return fn
	}

	if bodies := decl.ChildrenOf(ast.KindBody); len(bodies) > 0 {
		for _, s := range bodies[0].Children {
			if s.Is(ast.KindVarDecl) {
				continue
			}
			fn.Body = append(fn.Body, b.BuildStatement(s)...)
		}
	}

	if ret := decl.ChildrenOf(ast.KindReturn); len(ret) > 0 {
		fn.Result = b.BuildExpression(ret[0].Child(0))
		b.expect(method.Return, fn.Result)
	}
	return fn
}

// BuildStatement builds a statement. A block yields its statements
// flattened, any other statement exactly one node.
func (b *Builder) BuildStatement(node *ast.Node) []Stmt {
	switch node.Kind {
	case ast.KindBlock:
		var out []Stmt
		for _, c := range node.Children {
			out = append(out, b.BuildStatement(c)...)
		}
		return out

	case ast.KindIf:
		s := &If{stmt: stmt{pos: node.Pos}}
		s.Cond = b.BuildExpression(node.Child(0))
		b.expect(types.Boolean, s.Cond)
		s.Then = b.BuildStatement(node.Child(1))
		if node.NumChildren() > 2 {
			s.Else = b.BuildStatement(node.Child(2))
		}
		return []Stmt{s}

	case ast.KindWhile:
		s := &While{stmt: stmt{pos: node.Pos}}
		s.Cond = b.BuildExpression(node.Child(0))
		b.expect(types.Boolean, s.Cond)
		s.Body = b.BuildStatement(node.Child(1))
		return []Stmt{s}

	case ast.KindAssignment:
		return []Stmt{b.BuildAssignment(node)}

	case ast.KindExprStmt:
		return []Stmt{&ExprStmt{stmt: stmt{pos: node.Pos}, Expr: b.BuildExpression(node.Child(0))}}
	}

	panic(fmt.Sprintf("ir: unexpected statement kind %v", node.Kind))
}

// BuildAssignment builds "x = e" or "x[i] = e". Assignments are never
// deduplicated.
func (b *Builder) BuildAssignment(node *ast.Node) Stmt {
	target := node.Child(0)

	if target.Is(ast.KindBracket) {
		base := target.Child(0)
		s := &BracketAssignment{stmt: stmt{pos: node.Pos}, Name: base.Value}
		s.Array = b.resolve(base)
		if s.Array != nil {
			b.expectAt(base.Pos, types.IntArray, s.Array.Type)
		}
		s.Index = b.BuildExpression(target.Child(1))
		b.expect(types.Int, s.Index)
		s.Value = b.BuildExpression(node.Child(1))
		b.expect(types.Int, s.Value)
		return s
	}

	s := &Assignment{stmt: stmt{pos: node.Pos}, Name: target.Value}
	s.Target = b.resolve(target)
	s.Value = b.BuildExpression(node.Child(1))
	if s.Target != nil {
		b.expect(s.Target.Type, s.Value)
	}
	return s
}

// BuildExpression builds exactly one expression node for node.
func (b *Builder) BuildExpression(node *ast.Node) Expr {
	switch node.Kind {
	case ast.KindInteger:
		return b.integer(node)

	case ast.KindTrue, ast.KindFalse:
		value := node.Is(ast.KindTrue)
		return b.cache.intern(key(kindBoolean, value), func() Expr {
			return &BooleanConstant{node: b.fn.newNode(node.Pos, types.Boolean), Value: value}
		})

	case ast.KindIdentifier:
		return b.variable(node)

	case ast.KindThis:
		return b.this(node)

	case ast.KindNewIntArray:
		size := b.BuildExpression(node.Child(0))
		b.expect(types.Int, size)
		return b.cache.intern(key(kindNewIntArray, nil, size), func() Expr {
			return &NewIntArray{node: b.fn.newNode(node.Pos, types.IntArray), Size: size}
		})

	case ast.KindNewClass:
		class := b.table.Lookup(node.Value)
		typ := types.Type(types.Unknown)
		if class == nil {
			b.diags.Major(diag.UnresolvedIdentifier, node.Pos, "%s cannot be resolved to a type", node.Value)
		} else {
			typ = class.Type
		}
		return b.cache.intern(key(kindNewClass, node.Value), func() Expr {
			return &NewClass{node: b.fn.newNode(node.Pos, typ), Name: node.Value, Class: class}
		})

	case ast.KindLength:
		array := b.BuildExpression(node.Child(0))
		if t := array.Type(); !types.Typematch(types.IntArray, t) && t != types.StringArray {
			b.diags.Report(diag.Mismatch(array.Pos(), types.IntArray.String(), t.String()))
		}
		return b.cache.intern(key(kindLength, nil, array), func() Expr {
			return &Length{node: b.fn.newNode(node.Pos, types.Int), Array: array}
		})

	case ast.KindNot:
		operand := b.BuildExpression(node.Child(0))
		b.expect(types.Boolean, operand)
		return b.cache.intern(key(kindNot, nil, operand), func() Expr {
			return &Not{node: b.fn.newNode(node.Pos, types.Boolean), Operand: operand}
		})

	case ast.KindBracket:
		array := b.BuildExpression(node.Child(0))
		b.expect(types.IntArray, array)
		index := b.BuildExpression(node.Child(1))
		b.expect(types.Int, index)
		return b.cache.intern(key(kindBracket, nil, array, index), func() Expr {
			return &Bracket{node: b.fn.newNode(node.Pos, types.Int), Array: array, Index: index}
		})

	case ast.KindCall:
		return b.call(node)
	}

	if node.Kind.IsBinary() {
		return b.binary(node)
	}
	panic(fmt.Sprintf("ir: unexpected expression kind %v", node.Kind))
}

// integer builds a literal. Literals outside the 32-bit range are reported
// as minor defects and replaced by an Invalid node of type int.
func (b *Builder) integer(node *ast.Node) Expr {
	value, err := strconv.ParseInt(node.Value, 10, 32)
	if err != nil {
		b.diags.Minor(diag.LiteralOutOfRange, node.Pos, "The literal %s of type int is out of range", node.Value)
		return b.cache.intern(key(kindInvalid, node.Value), func() Expr {
			return &Invalid{node: b.fn.newNode(node.Pos, types.Int), Text: node.Value}
		})
	}
	v := int32(value)
	return b.cache.intern(key(kindInteger, v), func() Expr {
		return &IntegerConstant{node: b.fn.newNode(node.Pos, types.Int), Value: v}
	})
}

func (b *Builder) variable(node *ast.Node) Expr {
	v := b.resolve(node)
	if v == nil {
		return b.cache.intern(key(kindUnresolved, node.Value), func() Expr {
			return &Variable{node: b.fn.newNode(node.Pos, types.Unknown), Name: node.Value}
		})
	}
	return b.cache.intern(key(kindVariable, v), func() Expr {
		return &Variable{node: b.fn.newNode(node.Pos, v.Type), Name: node.Value, Var: v}
	})
}

// resolve looks up an identifier in the current function, reporting it
// when it does not resolve.
func (b *Builder) resolve(node *ast.Node) *symtab.Variable {
	v := symtab.Resolve(b.fn.Method, node.Value)
	if v == nil {
		b.diags.Major(diag.UnresolvedIdentifier, node.Pos, "%s cannot be resolved to a variable", node.Value)
	}
	return v
}

func (b *Builder) this(node *ast.Node) Expr {
	this := b.fn.Method.Locals.This
	typ := types.Type(types.Unknown)
	if this == nil {
		b.diags.Major(diag.IllegalThisUse, node.Pos, "Cannot use this in a static context")
	} else {
		typ = this.Type
	}
	return b.cache.intern(key(kindThis, nil), func() Expr {
		return &This{node: b.fn.newNode(node.Pos, typ), Var: this}
	})
}

// operator describes the operand and result types of a binary operator.
type operator struct {
	op      Operator
	operand types.Type
	result  types.Type
}

var operators = map[ast.Kind]operator{
	ast.KindAdd:  {OpAdd, types.Int, types.Int},
	ast.KindSub:  {OpSub, types.Int, types.Int},
	ast.KindMul:  {OpMul, types.Int, types.Int},
	ast.KindDiv:  {OpDiv, types.Int, types.Int},
	ast.KindLess: {OpLess, types.Int, types.Boolean},
	ast.KindAnd:  {OpAnd, types.Boolean, types.Boolean},
}

// binary builds an operator node. Operand mismatches are reported but the
// node keeps the operator's result type.
func (b *Builder) binary(node *ast.Node) Expr {
	op := operators[node.Kind]
	left := b.BuildExpression(node.Child(0))
	b.expect(op.operand, left)
	right := b.BuildExpression(node.Child(1))
	b.expect(op.operand, right)

	return b.cache.intern(key(kindBinary, op.op, left, right), func() Expr {
		return &BinaryOp{node: b.fn.newNode(node.Pos, op.result), Op: op.op, Left: left, Right: right}
	})
}

// call builds a method call. A receiver that is a bare identifier naming
// no variable but a class makes the call static.
func (b *Builder) call(node *ast.Node) Expr {
	recv := node.Child(0)
	name := node.Value

	if recv.Is(ast.KindIdentifier) && symtab.Resolve(b.fn.Method, recv.Value) == nil {
		if class := b.table.Lookup(recv.Value); class != nil {
			return b.staticCall(node, class)
		}
	}

	receiver := b.BuildExpression(recv)
	args, sig := b.arguments(node.Child(1))

	var (
		method    *symtab.Function
		ambiguous bool
		typ       types.Type = types.Unknown
	)
	switch rt := receiver.Type().(type) {
	case *types.ClassType:
		class := b.table.Lookup(rt.Name)
		if class == nil {
			break
		}
		d := symtab.Deduce(class, name, sig)
		method, ambiguous = b.checkDeduction(node.Pos, class, name, sig, d)
		if method != nil {
			typ = method.Return
		}
	case *types.UnknownType:
		// Already reported where the receiver failed to resolve.
	default:
		b.diags.Major(diag.TypeMismatch, node.Pos, "Cannot invoke %s%s on the type %s", name, sig, rt)
	}

	leaf := callLeaf{name: name, method: method}
	return b.cache.intern(key(kindMethodCall, leaf, append([]Expr{receiver}, args...)...), func() Expr {
		return &MethodCall{
			node:      b.fn.newNode(node.Pos, typ),
			Receiver:  receiver,
			Name:      name,
			Args:      args,
			Method:    method,
			Ambiguous: ambiguous,
		}
	})
}

func (b *Builder) staticCall(node *ast.Node, class *symtab.Class) Expr {
	name := node.Value
	args, sig := b.arguments(node.Child(1))

	d := symtab.DeduceStatic(class, name, sig)
	method, ambiguous := b.checkDeduction(node.Pos, class, name, sig, d)
	typ := types.Type(types.Unknown)
	if method != nil {
		typ = method.Return
	}

	leaf := callLeaf{class: class, name: name, method: method}
	return b.cache.intern(key(kindStaticCall, leaf, args...), func() Expr {
		return &StaticCall{
			node:      b.fn.newNode(node.Pos, typ),
			Class:     class,
			Name:      name,
			Args:      args,
			Method:    method,
			Ambiguous: ambiguous,
		}
	})
}

type callLeaf struct {
	class  *symtab.Class
	name   string
	method *symtab.Function
}

// arguments builds call arguments and the signature used for deduction.
// Arguments of unknown type become wildcards.
func (b *Builder) arguments(node *ast.Node) ([]Expr, types.Signature) {
	var (
		args []Expr
		sig  types.Signature
	)
	for _, c := range node.Children {
		arg := b.BuildExpression(c)
		args = append(args, arg)
		if types.IsUnknown(arg.Type()) {
			sig.Params = append(sig.Params, nil)
		} else {
			sig.Params = append(sig.Params, arg.Type())
		}
	}
	return args, sig
}

// checkDeduction reports a missing or ambiguous callee. An ambiguous call
// keeps the first candidate so that the rest of the expression can still be
// checked.
func (b *Builder) checkDeduction(pos lexer.Position, class *symtab.Class, name string, sig types.Signature, d symtab.Deduction) (*symtab.Function, bool) {
	if !d.Found {
		b.diags.Major(diag.UnresolvedIdentifier, pos, "The method %s%s is undefined for the type %s", name, sig, class.Name)
		return nil, false
	}
	if d.Ambiguous {
		candidates := make([]string, len(d.Candidates))
		for i, c := range d.Candidates {
			candidates[i] = c.String()
		}
		b.diags.Report(diag.Ambiguous(pos, name, candidates))
	}
	return d.Candidate, d.Ambiguous
}

// expect reports a mismatch when e cannot be used where want is expected.
func (b *Builder) expect(want types.Type, e Expr) {
	b.expectAt(e.Pos(), want, e.Type())
}

func (b *Builder) expectAt(pos lexer.Position, want, found types.Type) {
	if !types.Typematch(want, found) {
		b.diags.Report(diag.Mismatch(pos, want.String(), found.String()))
	}
}
