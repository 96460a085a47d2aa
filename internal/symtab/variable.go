// Package symtab holds the descriptors that name resolution works on:
// variables, functions with their local tables, classes and the class table.
//
// Descriptors are built by a single population pass through a Registry and
// become read-only once the registry is frozen into a Table. Resolution and
// overload deduction are free functions operating on classes of either kind
// (user or external), so there is one implementation of each rule.
package symtab

import (
	"errors"
	"fmt"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/semantic/types"
)

var (
	// ErrDuplicate is returned when a name is declared twice at one level.
	ErrDuplicate = errors.New("duplicate declaration")

	// ErrFrozen is returned by mutators once the table has been frozen.
	ErrFrozen = errors.New("descriptor is frozen")

	// ErrCycle is returned when a superclass link would close a cycle.
	ErrCycle = errors.New("cyclic inheritance")

	// ErrOrder is returned when a parameter is added after a local.
	ErrOrder = errors.New("parameters must precede locals")
)

// VarKind is the storage class of a variable.
type VarKind int

const (
	// VarLocal is a variable declared in a method body.
	VarLocal VarKind = iota
	// VarMember is a class field, reached through the instance.
	VarMember
	// VarParameter is a method parameter.
	VarParameter
	// VarThis is the implicit receiver of an instance method.
	VarThis
)

func (k VarKind) String() string {
	switch k {
	case VarLocal:
		return "local"
	case VarMember:
		return "member"
	case VarParameter:
		return "parameter"
	case VarThis:
		return "this"
	default:
		return "unknown"
	}
}

// Variable describes a named storage location.
type Variable struct {
	Name string
	Kind VarKind
	Type types.Type
	Pos  lexer.Position

	// Slot is the local variable index, or -1 for members.
	Slot int

	// Owner is the declaring class of a member.
	Owner *Class
}

// HasSlot reports whether the variable lives in the locals table.
func (v *Variable) HasSlot() bool {
	return v.Kind != VarMember
}

// String returns "kind name: type", e.g. "parameter n: int".
func (v *Variable) String() string {
	return fmt.Sprintf("%s %s: %s", v.Kind, v.Name, v.Type)
}
