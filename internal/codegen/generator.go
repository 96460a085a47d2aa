// Package codegen renders the IR of a program as Jasmin assembly, one unit
// per class.
//
// Slot 0 holds the receiver of instance methods; parameters and declared
// locals follow in declaration order, so the locals limit of a method is
// the size of its locals table. The stack limit is the deepest operand
// stack the lowered body can reach.
//
// Shared DAG nodes are lowered again at each use. Only programs without
// MAJOR diagnostics are generated; unresolved names and calls are reported
// as errors.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hassan/jmm/internal/ir"
	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/semantic/types"
	"github.com/hassan/jmm/internal/symtab"
)

// Unit is the assembly text of one class.
type Unit struct {
	// Name is the class name; the unit is written to Name + ".j".
	Name string
	Text string
}

// Generator produces assembly units.
type Generator struct {
	version string
}

// New creates a generator. A non-empty version is emitted as the
// class-file version directive of every unit.
func New(version string) *Generator {
	return &Generator{version: version}
}

// Program generates every class of prog in declaration order.
func (g *Generator) Program(prog *ir.Program) ([]Unit, error) {
	units := make([]Unit, 0, len(prog.Classes))
	for _, c := range prog.Classes {
		u, err := g.Class(c)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// Class generates the header, fields, initializer and methods of c. A
// class without main gets one that returns immediately.
func (g *Generator) Class(c *ir.Class) (Unit, error) {
	desc := c.Class
	super := DefaultSuper
	if desc.Super != nil {
		super = desc.Super.Name
	}

	var parts []string
	if g.version != "" {
		parts = append(parts, Subst(Bytecode, g.version))
	}
	parts = append(parts, Subst(ClassName, desc.Name), Subst(SuperName, super))
	if members := desc.Members(); len(members) > 0 {
		parts = append(parts, "")
		for _, v := range members {
			parts = append(parts, Subst(Field, v.Name, Descriptor(v.Type)))
		}
	}
	parts = append(parts, Subst(DefaultInitializer, super))

	for _, fn := range c.Functions {
		text, err := g.Function(fn)
		if err != nil {
			return Unit{}, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		parts = append(parts, text)
	}
	if desc.Main() == nil {
		parts = append(parts, DefaultMain)
	}

	return Unit{Name: desc.Name, Text: strings.Join(parts, "\n") + "\n"}, nil
}

// Function generates the method block of fn.
func (g *Generator) Function(fn *ir.Function) (string, error) {
	m := &method{fn: fn}
	m.stmts(fn.Body)
	if fn.Result != nil {
		m.expr(fn.Result)
	}
	m.ret()
	if m.err != nil {
		return "", m.err
	}

	limits := Subst(Stack, strconv.Itoa(m.max)) + "\n" +
		Subst(Locals, strconv.Itoa(fn.Method.Locals.TableSize()))
	if fn.Method.Main {
		return Subst(Main, limits, m.String()), nil
	}
	sig := Subst(MethodSignature, fn.Method.Name,
		Descriptors(fn.Method.Signature.Params), Descriptor(fn.Method.Return))
	return Subst(Method, sig, limits, m.String()), nil
}

// method lowers one function body.
type method struct {
	emitter
	fn  *ir.Function
	err error
}

func (m *method) fail(pos lexer.Position, format string, args ...any) {
	if m.err == nil {
		m.err = fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
	}
}

func (m *method) ret() {
	t := m.fn.Method.Return
	switch {
	case m.fn.Method.Main || types.Void.Equals(t):
		m.emit(0, Return)
	case types.IsReference(t):
		m.emit(-1, AReturn)
	default:
		m.emit(-1, IReturn)
	}
}

func (m *method) stmts(stmts []ir.Stmt) {
	for _, s := range stmts {
		m.stmt(s)
	}
}

func (m *method) stmt(s ir.Stmt) {
	switch s := s.(type) {
	case *ir.Assignment:
		m.store(s)

	case *ir.BracketAssignment:
		m.load(s.Array, s.Name, s.Pos())
		m.expr(s.Index)
		m.expr(s.Value)
		m.emit(-3, IAStore)

	case *ir.ExprStmt:
		m.expr(s.Expr)
		if !types.Void.Equals(s.Expr.Type()) {
			m.emit(-1, Pop)
		}

	case *ir.If:
		m.expr(s.Cond)
		end := m.newLabel()
		if len(s.Else) == 0 {
			m.emit(-1, Subst(IfEq, end))
			m.stmts(s.Then)
			m.label(end)
			return
		}
		otherwise := m.newLabel()
		m.emit(-1, Subst(IfEq, otherwise))
		m.stmts(s.Then)
		m.emit(0, Subst(Goto, end))
		m.label(otherwise)
		m.stmts(s.Else)
		m.label(end)

	case *ir.While:
		start, end := m.newLabel(), m.newLabel()
		m.label(start)
		m.expr(s.Cond)
		m.emit(-1, Subst(IfEq, end))
		m.stmts(s.Body)
		m.emit(0, Subst(Goto, start))
		m.label(end)

	default:
		m.fail(s.Pos(), "unexpected statement %T", s)
	}
}

// store lowers an assignment. A field is written as
// "value, aload_0, swap, putfield".
func (m *method) store(a *ir.Assignment) {
	m.expr(a.Value)
	v := a.Target
	switch {
	case v == nil:
		m.fail(a.Pos(), "%s cannot be resolved", a.Name)
	case v.Kind == symtab.VarMember:
		m.emit(1, ALoad0)
		m.emit(0, Swap)
		m.emit(-2, Subst(PutField, v.Owner.Name, v.Name, Descriptor(v.Type)))
	case types.IsReference(v.Type):
		m.emit(-1, Subst(AStore, strconv.Itoa(v.Slot)))
	default:
		m.emit(-1, Subst(IStore, strconv.Itoa(v.Slot)))
	}
}

// load pushes the value of v. A field is read as "aload_0, getfield".
func (m *method) load(v *symtab.Variable, name string, pos lexer.Position) {
	switch {
	case v == nil:
		m.fail(pos, "%s cannot be resolved", name)
	case v.Kind == symtab.VarMember:
		m.emit(1, ALoad0)
		m.emit(0, Subst(GetField, v.Owner.Name, v.Name, Descriptor(v.Type)))
	case types.IsReference(v.Type) || v.Kind == symtab.VarThis:
		m.emit(1, Subst(ALoad, strconv.Itoa(v.Slot)))
	default:
		m.emit(1, Subst(ILoad, strconv.Itoa(v.Slot)))
	}
}

// expr lowers e in post-order: operands left to right, then e itself.
func (m *method) expr(e ir.Expr) {
	switch e := e.(type) {
	case *ir.IntegerConstant:
		m.pushInt(e.Value)

	case *ir.BooleanConstant:
		if e.Value {
			m.emit(1, Subst(IConst, "1"))
		} else {
			m.emit(1, Subst(IConst, "0"))
		}

	case *ir.Invalid:
		m.emit(1, Subst(IConst, "0"))

	case *ir.Variable:
		m.load(e.Var, e.Name, e.Pos())

	case *ir.This:
		m.emit(1, ALoad0)

	case *ir.BinaryOp:
		m.expr(e.Left)
		m.expr(e.Right)
		if e.Op == ir.OpLess {
			m.less()
			return
		}
		inst, ok := binaryOps[e.Op.String()]
		if !ok {
			m.fail(e.Pos(), "no instruction for operator %s", e.Op)
			return
		}
		m.emit(-1, inst)

	case *ir.Not:
		m.expr(e.Operand)
		m.emit(1, Subst(IConst, "1"))
		m.emit(-1, IXor)

	case *ir.Bracket:
		m.expr(e.Array)
		m.expr(e.Index)
		m.emit(-1, IALoad)

	case *ir.Length:
		m.expr(e.Array)
		m.emit(0, ArrayLength)

	case *ir.NewIntArray:
		m.expr(e.Size)
		m.emit(0, NewArray)

	case *ir.NewClass:
		if e.Class == nil {
			m.fail(e.Pos(), "%s cannot be resolved to a type", e.Name)
			return
		}
		m.emit(1, Subst(NewObject, e.Class.Name))
		m.emit(1, Dup)
		m.emit(-1, Subst(InvokeInit, e.Class.Name))

	case *ir.MethodCall:
		m.expr(e.Receiver)
		for _, a := range e.Args {
			m.expr(a)
		}
		m.invoke(Virtual, e.Method, e.Name, 1+len(e.Args), e.Pos())

	case *ir.StaticCall:
		for _, a := range e.Args {
			m.expr(a)
		}
		m.invoke(Static, e.Method, e.Name, len(e.Args), e.Pos())

	default:
		m.fail(e.Pos(), "unexpected expression %T", e)
	}
}

// less lowers "<" on the two ints on top of the stack to 0 or 1.
func (m *method) less() {
	yes, end := m.newLabel(), m.newLabel()
	m.emit(-2, Subst(IfICmpLT, yes))
	m.emit(1, Subst(IConst, "0"))
	m.emit(0, Subst(Goto, end))
	m.label(yes)
	m.adjust(-1)
	m.emit(1, Subst(IConst, "1"))
	m.label(end)
}

// invoke emits a call that pops popped values and pushes the result, if
// any.
func (m *method) invoke(template string, fn *symtab.Function, name string, popped int, pos lexer.Position) {
	if fn == nil || fn.Class == nil {
		m.fail(pos, "method %s is undefined", name)
		return
	}
	ref := Subst(MethodRef, fn.Class.Name, fn.Name,
		Descriptors(fn.Signature.Params), Descriptor(fn.Return))
	delta := -popped
	if !types.Void.Equals(fn.Return) {
		delta++
	}
	m.emit(delta, Subst(template, ref))
}
