package types

import (
	"testing"
)

func TestPrimitiveType_String(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{Int, "int"},
		{Boolean, "boolean"},
		{IntArray, "int[]"},
		{StringArray, "String[]"},
		{Void, "void"},
		{Unknown, "<unknown>"},
		{NewClass("Foo", ClassUser), "Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.typ.String()
			if result != tt.expected {
				t.Errorf("Type.String() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestType_Equals(t *testing.T) {
	tests := []struct {
		name     string
		t1       Type
		t2       Type
		expected bool
	}{
		{"int equals int", Int, Int, true},
		{"int not equals boolean", Int, Boolean, false},
		{"int[] not equals int", IntArray, Int, false},
		{"classes by name", NewClass("A", ClassUser), NewClass("A", ClassUser), true},
		{"different classes", NewClass("A", ClassUser), NewClass("B", ClassUser), false},
		{"unknown equals unknown", Unknown, Unknown, true},
		{"unknown not equals int", Unknown, Int, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.t1.Equals(tt.t2)
			if result != tt.expected {
				t.Errorf("%s.Equals(%s) = %v, want %v", tt.t1, tt.t2, result, tt.expected)
			}
		})
	}
}

func TestTypematch(t *testing.T) {
	animal := NewClass("Animal", ClassUser)
	dog := NewClass("Dog", ClassUser)
	dog.Super = animal
	puppy := NewClass("Puppy", ClassUser)
	puppy.Super = dog
	car := NewClass("Car", ClassExternal)

	tests := []struct {
		name     string
		target   Type
		found    Type
		expected bool
	}{
		{"int to int", Int, Int, true},
		{"boolean to boolean", Boolean, Boolean, true},
		{"boolean to int", Int, Boolean, false},
		{"int to boolean", Boolean, Int, false},
		{"int[] to int[]", IntArray, IntArray, true},
		{"int to int[]", IntArray, Int, false},
		{"same class", dog, dog, true},
		{"subclass to superclass", animal, dog, true},
		{"transitive subclass", animal, puppy, true},
		{"superclass to subclass", dog, animal, false},
		{"unrelated classes", animal, car, false},
		{"class to int", Int, dog, false},
		{"unknown found", Int, Unknown, true},
		{"unknown target", dog, Unknown, true},
		{"nil found", Int, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Typematch(tt.target, tt.found); got != tt.expected {
				t.Errorf("Typematch(%v, %v) = %v, want %v", tt.target, tt.found, got, tt.expected)
			}
			if tt.found != nil {
				if got := tt.found.AssignableTo(tt.target); got != tt.expected {
					t.Errorf("%v.AssignableTo(%v) = %v, want %v", tt.found, tt.target, got, tt.expected)
				}
			}
		})
	}
}

func TestClassType_Chain(t *testing.T) {
	a := NewClass("A", ClassUser)
	b := NewClass("B", ClassUser)
	c := NewClass("C", ClassUser)
	b.Super = a
	c.Super = b

	chain := c.Chain()
	if len(chain) != 3 {
		t.Fatalf("len(Chain()) = %d, want 3", len(chain))
	}
	for i, want := range []string{"C", "B", "A"} {
		if chain[i].Name != want {
			t.Errorf("Chain()[%d] = %s, want %s", i, chain[i].Name, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if !IsReference(IntArray) || !IsReference(NewClass("A", ClassUser)) {
		t.Error("arrays and classes should be references")
	}
	if IsReference(Int) || IsReference(Boolean) || IsReference(Void) {
		t.Error("primitives and void should not be references")
	}
	if !IsPrimitive(Int) || !IsPrimitive(Boolean) || IsPrimitive(IntArray) {
		t.Error("IsPrimitive mismatch")
	}
}

func TestSignature(t *testing.T) {
	a := NewClass("A", ClassUser)
	b := NewClass("B", ClassUser)
	b.Super = a

	tests := []struct {
		name     string
		decl     Signature
		args     Signature
		expected bool
	}{
		{"exact", NewSignature(Int, Boolean), NewSignature(Int, Boolean), true},
		{"arity mismatch", NewSignature(Int), NewSignature(Int, Int), false},
		{"type mismatch", NewSignature(Int), NewSignature(Boolean), false},
		{"wildcard", NewSignature(Int, Boolean), NewSignature(nil, Boolean), true},
		{"subclass argument", NewSignature(a), NewSignature(b), true},
		{"superclass argument", NewSignature(b), NewSignature(a), false},
		{"empty", NewSignature(), NewSignature(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decl.Accepts(tt.args); got != tt.expected {
				t.Errorf("%s.Accepts(%s) = %v, want %v", tt.decl, tt.args, got, tt.expected)
			}
		})
	}
}

func TestSignature_CompleteAndString(t *testing.T) {
	full := NewSignature(Int, IntArray)
	partial := NewSignature(Int, nil)

	if !full.Complete() {
		t.Error("full signature should be complete")
	}
	if partial.Complete() {
		t.Error("signature with wildcard should not be complete")
	}
	if got := partial.String(); got != "(int, ?)" {
		t.Errorf("String() = %q, want %q", got, "(int, ?)")
	}
	if !full.Equal(NewSignature(Int, IntArray)) || full.Equal(partial) {
		t.Error("Equal mismatch")
	}
}
