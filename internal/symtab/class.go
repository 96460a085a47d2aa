package symtab

import (
	"fmt"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
	"github.com/hassan/jmm/internal/semantic/types"
)

// Class is the descriptor of a user or external class.
//
// User classes carry members, overloaded instance methods and an optional
// main. External classes are placeholders created by imports; they carry
// only the instance and static methods that were imported.
type Class struct {
	Name  string
	Kind  types.ClassKind
	Type  *types.ClassType
	Super *Class
	Pos   lexer.Position

	// Decl is the class's parse tree, nil for external classes.
	Decl *ast.Node

	members     map[string]*Variable
	memberOrder []*Variable
	methods     map[string][]*Function
	methodOrder []*Function
	statics     map[string][]*Function
	main        *Function
	rejected    []*Function
	frozen      bool
}

// NewClass creates an empty class descriptor.
func NewClass(name string, kind types.ClassKind, pos lexer.Position) *Class {
	return &Class{
		Name:    name,
		Kind:    kind,
		Type:    types.NewClass(name, kind),
		Pos:     pos,
		members: make(map[string]*Variable),
		methods: make(map[string][]*Function),
		statics: make(map[string][]*Function),
	}
}

// IsExternal reports whether the class is only known from imports.
func (c *Class) IsExternal() bool {
	return c.Kind == types.ClassExternal
}

// SetSuper links c to its superclass. Linking a class into its own
// ancestry fails with ErrCycle and leaves c unchanged.
func (c *Class) SetSuper(super *Class) error {
	if c.frozen {
		return ErrFrozen
	}
	if super == nil {
		c.Super = nil
		c.Type.Super = nil
		return nil
	}
	if super == c || super.Type.Extends(c.Type) {
		return fmt.Errorf("class %s cannot extend %s: %w", c.Name, super.Name, ErrCycle)
	}
	c.Super = super
	c.Type.Super = super.Type
	return nil
}

// AddMember declares a field.
func (c *Class) AddMember(name string, typ types.Type, pos lexer.Position) (*Variable, error) {
	if c.frozen {
		return nil, ErrFrozen
	}
	if prev, ok := c.members[name]; ok {
		return nil, fmt.Errorf("field %s already declared at %s: %w", name, prev.Pos, ErrDuplicate)
	}
	v := &Variable{Name: name, Kind: VarMember, Type: typ, Pos: pos, Slot: -1, Owner: c}
	c.members[name] = v
	c.memberOrder = append(c.memberOrder, v)
	return v, nil
}

// AddMethod adds an instance method to the overload set of its name. The
// signature must already be complete; two methods with equal signatures
// cannot coexist.
func (c *Class) AddMethod(fn *Function) error {
	if c.frozen {
		return ErrFrozen
	}
	if fn.Static {
		return fmt.Errorf("method %s is static", fn.Name)
	}
	for _, other := range c.methods[fn.Name] {
		if other.Signature.Equal(fn.Signature) {
			return fmt.Errorf("method %s%s already declared at %s: %w", fn.Name, fn.Signature, other.Pos, ErrDuplicate)
		}
	}
	fn.Class = c
	if fn.Locals != nil && fn.Locals.This != nil {
		fn.Locals.This.Type = c.Type
	}
	c.methods[fn.Name] = append(c.methods[fn.Name], fn)
	c.methodOrder = append(c.methodOrder, fn)
	return nil
}

// AddStatic adds an imported static method. Only external classes have
// static methods other than main.
func (c *Class) AddStatic(fn *Function) error {
	if c.frozen {
		return ErrFrozen
	}
	if !c.IsExternal() {
		return fmt.Errorf("static method %s on user class %s", fn.Name, c.Name)
	}
	for _, other := range c.statics[fn.Name] {
		if other.Signature.Equal(fn.Signature) {
			return fmt.Errorf("static method %s%s already imported: %w", fn.Name, fn.Signature, ErrDuplicate)
		}
	}
	fn.Class = c
	fn.Static = true
	c.statics[fn.Name] = append(c.statics[fn.Name], fn)
	return nil
}

// SetMain sets the class's entry point.
func (c *Class) SetMain(fn *Function) error {
	if c.frozen {
		return ErrFrozen
	}
	if c.main != nil {
		return fmt.Errorf("main already declared at %s: %w", c.main.Pos, ErrDuplicate)
	}
	fn.Class = c
	c.main = fn
	return nil
}

// AddRejected keeps a method that AddMethod or SetMain refused. It is
// owned by c so its body can still be checked, but it is not part of any
// overload set and is never generated.
func (c *Class) AddRejected(fn *Function) {
	if c.frozen {
		return
	}
	fn.Class = c
	if fn.Locals != nil && fn.Locals.This != nil {
		fn.Locals.This.Type = c.Type
	}
	c.rejected = append(c.rejected, fn)
}

// Rejected returns the methods passed to AddRejected.
func (c *Class) Rejected() []*Function {
	return c.rejected
}

// Member returns the field declared by c itself, without looking at
// superclasses.
func (c *Class) Member(name string) *Variable {
	return c.members[name]
}

// Members returns the fields of c in declaration order.
func (c *Class) Members() []*Variable {
	return c.memberOrder
}

// Methods returns the instance methods of c in declaration order.
func (c *Class) Methods() []*Function {
	return c.methodOrder
}

// Overloads returns the methods of c named name.
func (c *Class) Overloads(name string) []*Function {
	return c.methods[name]
}

// Statics returns the imported static methods named name.
func (c *Class) Statics(name string) []*Function {
	return c.statics[name]
}

// Main returns the entry point, or nil.
func (c *Class) Main() *Function {
	return c.main
}

// Functions returns every function with a body: methods, then main.
func (c *Class) Functions() []*Function {
	fns := make([]*Function, 0, len(c.methodOrder)+1)
	for _, fn := range c.methodOrder {
		if fn.Locals != nil {
			fns = append(fns, fn)
		}
	}
	if c.main != nil {
		fns = append(fns, c.main)
	}
	return fns
}

func (c *Class) freeze() {
	c.frozen = true
	for _, fn := range c.Functions() {
		fn.Locals.frozen = true
	}
	for _, fn := range c.rejected {
		fn.Locals.frozen = true
	}
}

func (c *Class) String() string {
	if c.Super != nil {
		return c.Name + " extends " + c.Super.Name
	}
	return c.Name
}
