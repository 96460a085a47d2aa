// Package types implements the type descriptors of the language.
//
// The type system is small: int, boolean, int[] and class types forming a
// single-inheritance chain, plus void for method returns and String[] for the
// argument of main. Unknown marks an expression whose type could not be
// resolved; it is compatible with everything so that one failed lookup does
// not cascade into a series of follow-up mismatches.
//
// Descriptors are compared by identity for primitives (they are singletons)
// and by name for classes (nominal typing).
package types

// Type is the interface that all type descriptors implement.
type Type interface {
	// String returns the type as written in source.
	String() string

	// Equals reports whether both descriptors denote the same type.
	Equals(other Type) bool

	// AssignableTo reports whether a value of this type may be stored in a
	// location of type target. See Typematch.
	AssignableTo(target Type) bool

	kind() TypeKind
}

// TypeKind is the discriminator of a descriptor.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindVoid
	KindInt
	KindBoolean
	KindIntArray
	KindStringArray
	KindClass
)

// UnknownType is the type of an expression that failed to resolve.
type UnknownType struct{}

func (*UnknownType) String() string         { return "<unknown>" }
func (*UnknownType) Equals(other Type) bool { return IsUnknown(other) }
func (*UnknownType) AssignableTo(Type) bool { return true }
func (*UnknownType) kind() TypeKind         { return KindUnknown }

// VoidType is the return type of methods that return nothing.
type VoidType struct{}

func (*VoidType) String() string             { return "void" }
func (v *VoidType) Equals(other Type) bool   { return other != nil && other.kind() == KindVoid }
func (v *VoidType) AssignableTo(t Type) bool { return Typematch(t, v) }
func (*VoidType) kind() TypeKind             { return KindVoid }

// IntType is the 32-bit signed integer.
type IntType struct{}

func (*IntType) String() string             { return "int" }
func (i *IntType) Equals(other Type) bool   { return other != nil && other.kind() == KindInt }
func (i *IntType) AssignableTo(t Type) bool { return Typematch(t, i) }
func (*IntType) kind() TypeKind             { return KindInt }

// BooleanType is the boolean primitive.
type BooleanType struct{}

func (*BooleanType) String() string             { return "boolean" }
func (b *BooleanType) Equals(other Type) bool   { return other != nil && other.kind() == KindBoolean }
func (b *BooleanType) AssignableTo(t Type) bool { return Typematch(t, b) }
func (*BooleanType) kind() TypeKind             { return KindBoolean }

// IntArrayType is the only array type of the language.
type IntArrayType struct{}

func (*IntArrayType) String() string             { return "int[]" }
func (a *IntArrayType) Equals(other Type) bool   { return other != nil && other.kind() == KindIntArray }
func (a *IntArrayType) AssignableTo(t Type) bool { return Typematch(t, a) }
func (*IntArrayType) kind() TypeKind             { return KindIntArray }

// StringArrayType only appears as the parameter of main.
type StringArrayType struct{}

func (*StringArrayType) String() string             { return "String[]" }
func (s *StringArrayType) Equals(other Type) bool   { return other != nil && other.kind() == KindStringArray }
func (s *StringArrayType) AssignableTo(t Type) bool { return Typematch(t, s) }
func (*StringArrayType) kind() TypeKind             { return KindStringArray }

// ClassKind tells user classes, compiled from source, apart from external
// classes only known through imports.
type ClassKind int

const (
	ClassUser ClassKind = iota
	ClassExternal
)

func (k ClassKind) String() string {
	if k == ClassExternal {
		return "external"
	}
	return "user"
}

// ClassType is the descriptor of a class type.
//
// Super is set once while classes are populated and never changes after the
// class table is frozen. A nil Super means the class extends the root object.
type ClassType struct {
	Name  string
	Kind  ClassKind
	Super *ClassType
}

// NewClass creates a class type without a superclass.
func NewClass(name string, kind ClassKind) *ClassType {
	return &ClassType{Name: name, Kind: kind}
}

func (c *ClassType) String() string { return c.Name }

func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	return ok && o.Name == c.Name
}

func (c *ClassType) AssignableTo(t Type) bool { return Typematch(t, c) }

func (*ClassType) kind() TypeKind { return KindClass }

// Extends reports whether c is ancestor or one of its subclasses.
func (c *ClassType) Extends(ancestor *ClassType) bool {
	// The chain is acyclic once populated; the bound only protects callers
	// that walk it while a cycle is being detected.
	for cur, steps := c, 0; cur != nil && steps <= maxChain; cur, steps = cur.Super, steps+1 {
		if cur.Name == ancestor.Name {
			return true
		}
	}
	return false
}

// Chain returns c followed by its superclasses, nearest first.
func (c *ClassType) Chain() []*ClassType {
	var chain []*ClassType
	for cur := c; cur != nil && len(chain) <= maxChain; cur = cur.Super {
		chain = append(chain, cur)
	}
	return chain
}

const maxChain = 1 << 12

// Predefined descriptors.
var (
	Unknown     = &UnknownType{}
	Void        = &VoidType{}
	Int         = &IntType{}
	Boolean     = &BooleanType{}
	IntArray    = &IntArrayType{}
	StringArray = &StringArrayType{}
)

// Typematch reports whether a value of type found may be used where target is
// expected: identical primitives match, a class matches itself and any
// ancestor, and arrays only match their exact type. Unknown on either side
// matches anything.
func Typematch(target, found Type) bool {
	if target == nil || found == nil {
		return false
	}
	if IsUnknown(target) || IsUnknown(found) {
		return true
	}
	if tc, ok := target.(*ClassType); ok {
		fc, ok := found.(*ClassType)
		return ok && fc.Extends(tc)
	}
	return target.kind() == found.kind()
}

// IsUnknown reports whether t is the unknown marker.
func IsUnknown(t Type) bool {
	return t != nil && t.kind() == KindUnknown
}

// IsInt reports whether t is int.
func IsInt(t Type) bool {
	return t != nil && t.kind() == KindInt
}

// IsBoolean reports whether t is boolean.
func IsBoolean(t Type) bool {
	return t != nil && t.kind() == KindBoolean
}

// IsReference reports whether values of t are object references.
func IsReference(t Type) bool {
	if t == nil {
		return false
	}
	switch t.kind() {
	case KindIntArray, KindStringArray, KindClass:
		return true
	}
	return false
}

// IsPrimitive reports whether t is int or boolean.
func IsPrimitive(t Type) bool {
	return IsInt(t) || IsBoolean(t)
}
