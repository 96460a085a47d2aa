package symtab

import (
	"fmt"
	"strings"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
	"github.com/hassan/jmm/internal/semantic/types"
)

// Function describes a method: a declared instance method, the static main
// entry of a class, or a method imported from an external class.
type Function struct {
	Name      string
	Class     *Class
	Return    types.Type
	Signature types.Signature
	Static    bool
	Main      bool
	Pos       lexer.Position

	// Locals is nil for imported methods, which have no body.
	Locals *FunctionLocals

	// Decl is the method's parse tree, nil for imported methods.
	Decl *ast.Node
}

// NewMethod creates an instance method with an empty locals table.
func NewMethod(name string, ret types.Type, pos lexer.Position) *Function {
	fn := &Function{Name: name, Return: ret, Pos: pos}
	fn.Locals = newFunctionLocals(fn)
	return fn
}

// NewMain creates the static entry point "main(String[])".
func NewMain(pos lexer.Position) *Function {
	fn := &Function{
		Name:      "main",
		Return:    types.Void,
		Signature: types.NewSignature(types.StringArray),
		Static:    true,
		Main:      true,
		Pos:       pos,
	}
	fn.Locals = newFunctionLocals(fn)
	return fn
}

// NewImported creates a bodiless method known only from an import.
func NewImported(name string, sig types.Signature, ret types.Type, static bool, pos lexer.Position) *Function {
	return &Function{Name: name, Signature: sig, Return: ret, Static: static, Pos: pos}
}

// String returns "Class.name(params)".
func (f *Function) String() string {
	owner := "?"
	if f.Class != nil {
		owner = f.Class.Name
	}
	return owner + "." + f.Name + f.Signature.String()
}

// FunctionLocals is the locals table of one function.
//
// Slots are assigned in declaration order: the receiver takes slot 0 in
// instance methods, then parameters, then locals. All parameters must be
// added before the first local.
type FunctionLocals struct {
	Function *Function

	// This is the receiver descriptor, nil for static functions.
	This *Variable

	params []*Variable
	locals []*Variable
	byName map[string]*Variable
	frozen bool
}

func newFunctionLocals(fn *Function) *FunctionLocals {
	l := &FunctionLocals{
		Function: fn,
		byName:   make(map[string]*Variable),
	}
	if !fn.Static {
		l.This = &Variable{Name: "this", Kind: VarThis, Type: types.Unknown, Pos: fn.Pos, Slot: 0}
	}
	return l
}

func (l *FunctionLocals) base() int {
	if l.This != nil {
		return 1
	}
	return 0
}

// AddParameter declares the next parameter and extends the function
// signature with its type.
func (l *FunctionLocals) AddParameter(name string, typ types.Type, pos lexer.Position) (*Variable, error) {
	if l.frozen {
		return nil, ErrFrozen
	}
	if len(l.locals) > 0 {
		return nil, fmt.Errorf("parameter %s: %w", name, ErrOrder)
	}
	if prev, ok := l.byName[name]; ok {
		return nil, fmt.Errorf("%s %s already declared at %s: %w", prev.Kind, name, prev.Pos, ErrDuplicate)
	}
	v := &Variable{Name: name, Kind: VarParameter, Type: typ, Pos: pos, Slot: l.base() + len(l.params)}
	l.params = append(l.params, v)
	l.byName[name] = v
	if !l.Function.Main {
		l.Function.Signature.Params = append(l.Function.Signature.Params, typ)
	}
	return v, nil
}

// Define declares a local variable in the next free slot.
func (l *FunctionLocals) Define(name string, typ types.Type, pos lexer.Position) (*Variable, error) {
	if l.frozen {
		return nil, ErrFrozen
	}
	if prev, ok := l.byName[name]; ok {
		return nil, fmt.Errorf("%s %s already declared at %s: %w", prev.Kind, name, prev.Pos, ErrDuplicate)
	}
	v := &Variable{Name: name, Kind: VarLocal, Type: typ, Pos: pos, Slot: l.base() + len(l.params) + len(l.locals)}
	l.locals = append(l.locals, v)
	l.byName[name] = v
	return v, nil
}

// Lookup finds a parameter or local by name. It does not look further out;
// see Resolve for the full resolution order.
func (l *FunctionLocals) Lookup(name string) *Variable {
	return l.byName[name]
}

// Parameters returns the parameters in slot order.
func (l *FunctionLocals) Parameters() []*Variable { return l.params }

// Locals returns the declared locals in slot order.
func (l *FunctionLocals) Locals() []*Variable { return l.locals }

// TableSize is the size of the locals table: receiver, parameters and
// declared locals.
func (l *FunctionLocals) TableSize() int {
	return l.base() + len(l.params) + len(l.locals)
}

func (l *FunctionLocals) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "locals of %s:\n", l.Function)
	if l.This != nil {
		fmt.Fprintf(&sb, "  %d %s\n", l.This.Slot, l.This)
	}
	for _, v := range l.params {
		fmt.Fprintf(&sb, "  %d %s\n", v.Slot, v)
	}
	for _, v := range l.locals {
		fmt.Fprintf(&sb, "  %d %s\n", v.Slot, v)
	}
	return sb.String()
}
