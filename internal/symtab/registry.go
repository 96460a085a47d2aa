package symtab

import (
	"fmt"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/semantic/types"
)

// Registry collects class descriptors during population. It is not safe
// for concurrent use; population is single-writer.
type Registry struct {
	classes map[string]*Class
	order   []*Class
	frozen  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Declare creates a class. Importing the same external class more than once
// returns the existing descriptor; any other redeclaration is ErrDuplicate.
func (r *Registry) Declare(name string, kind types.ClassKind, pos lexer.Position) (*Class, error) {
	if r.frozen {
		return nil, ErrFrozen
	}
	if prev, ok := r.classes[name]; ok {
		if prev.IsExternal() && kind == types.ClassExternal {
			return prev, nil
		}
		return prev, fmt.Errorf("class %s already declared at %s: %w", name, prev.Pos, ErrDuplicate)
	}
	c := NewClass(name, kind, pos)
	r.classes[name] = c
	r.order = append(r.order, c)
	return c, nil
}

// Lookup returns the class named name, or nil.
func (r *Registry) Lookup(name string) *Class {
	return r.classes[name]
}

// Classes returns all classes in declaration order.
func (r *Registry) Classes() []*Class {
	return r.order
}

// Freeze makes every descriptor read-only and returns the resulting table.
// The registry cannot be modified afterwards.
func (r *Registry) Freeze() *Table {
	r.frozen = true
	for _, c := range r.order {
		c.freeze()
	}
	return &Table{classes: r.classes, order: r.order}
}

// Table is the frozen class table consulted by the IR builder and the code
// generator.
type Table struct {
	classes map[string]*Class
	order   []*Class
}

// Lookup returns the class named name, or nil.
func (t *Table) Lookup(name string) *Class {
	return t.classes[name]
}

// Classes returns all classes in declaration order.
func (t *Table) Classes() []*Class {
	return t.order
}

// UserClasses returns the classes compiled from source, in declaration order.
func (t *Table) UserClasses() []*Class {
	var out []*Class
	for _, c := range t.order {
		if !c.IsExternal() {
			out = append(out, c)
		}
	}
	return out
}

// ResolveType maps a type name as written in source to a descriptor.
// Unknown class names yield nil.
func (t *Table) ResolveType(name string) types.Type {
	return resolveType(t.classes, name)
}

// ResolveType is the registry counterpart of Table.ResolveType, usable
// while classes are still being declared.
func (r *Registry) ResolveType(name string) types.Type {
	return resolveType(r.classes, name)
}

func resolveType(classes map[string]*Class, name string) types.Type {
	switch name {
	case "int":
		return types.Int
	case "boolean":
		return types.Boolean
	case "int[]":
		return types.IntArray
	case "void":
		return types.Void
	case "String[]":
		return types.StringArray
	}
	if c, ok := classes[name]; ok {
		return c.Type
	}
	return nil
}
