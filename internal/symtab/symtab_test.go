package symtab

import (
	"errors"
	"testing"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/semantic/types"
)

func at(line int) lexer.Position {
	return lexer.Position{Filename: "test.jmm", Line: line, Column: 1}
}

func mustDeclare(t *testing.T, r *Registry, name string, kind types.ClassKind) *Class {
	t.Helper()
	c, err := r.Declare(name, kind, at(1))
	if err != nil {
		t.Fatalf("Declare(%s) error: %v", name, err)
	}
	return c
}

func mustMethod(t *testing.T, c *Class, name string, ret types.Type, params ...types.Type) *Function {
	t.Helper()
	fn := NewMethod(name, ret, at(2))
	for i, p := range params {
		if _, err := fn.Locals.AddParameter(string(rune('a'+i)), p, at(2)); err != nil {
			t.Fatalf("AddParameter error: %v", err)
		}
	}
	if err := c.AddMethod(fn); err != nil {
		t.Fatalf("AddMethod(%s) error: %v", name, err)
	}
	return fn
}

func TestVariable_String(t *testing.T) {
	v := &Variable{Name: "x", Kind: VarParameter, Type: types.Int}
	if got, want := v.String(), "parameter x: int"; got != want {
		t.Errorf("Variable.String() = %q, want %q", got, want)
	}
}

func TestFunctionLocals_Slots(t *testing.T) {
	r := NewRegistry()
	c := mustDeclare(t, r, "A", types.ClassUser)
	fn := mustMethod(t, c, "f", types.Int, types.Int, types.Boolean)

	local, err := fn.Locals.Define("tmp", types.IntArray, at(3))
	if err != nil {
		t.Fatalf("Define error: %v", err)
	}

	if fn.Locals.This == nil || fn.Locals.This.Slot != 0 {
		t.Fatalf("this slot = %v, want 0", fn.Locals.This)
	}
	if fn.Locals.This.Type != c.Type {
		t.Errorf("this type = %v, want %v", fn.Locals.This.Type, c.Type)
	}
	params := fn.Locals.Parameters()
	if params[0].Slot != 1 || params[1].Slot != 2 {
		t.Errorf("parameter slots = %d, %d, want 1, 2", params[0].Slot, params[1].Slot)
	}
	if local.Slot != 3 {
		t.Errorf("local slot = %d, want 3", local.Slot)
	}
	if got := fn.Locals.TableSize(); got != 4 {
		t.Errorf("TableSize() = %d, want 4", got)
	}
	if got := fn.Signature.String(); got != "(int, boolean)" {
		t.Errorf("Signature = %s, want (int, boolean)", got)
	}
}

func TestFunctionLocals_StaticHasNoThis(t *testing.T) {
	main := NewMain(at(1))
	args, err := main.Locals.AddParameter("args", types.StringArray, at(1))
	if err != nil {
		t.Fatalf("AddParameter error: %v", err)
	}
	if main.Locals.This != nil {
		t.Error("static function should have no this")
	}
	if args.Slot != 0 {
		t.Errorf("args slot = %d, want 0", args.Slot)
	}
	if got := main.Locals.TableSize(); got != 1 {
		t.Errorf("TableSize() = %d, want 1", got)
	}
	if main.Signature.Arity() != 1 {
		t.Errorf("main arity = %d, want 1", main.Signature.Arity())
	}
}

func TestFunctionLocals_Errors(t *testing.T) {
	fn := NewMethod("f", types.Int, at(1))
	if _, err := fn.Locals.AddParameter("x", types.Int, at(1)); err != nil {
		t.Fatalf("AddParameter error: %v", err)
	}

	tests := []struct {
		name    string
		declare func() error
		want    error
	}{
		{
			name: "local shadows parameter",
			declare: func() error {
				_, err := fn.Locals.Define("x", types.Int, at(2))
				return err
			},
			want: ErrDuplicate,
		},
		{
			name: "parameter after local",
			declare: func() error {
				if _, err := fn.Locals.Define("y", types.Int, at(2)); err != nil {
					return err
				}
				_, err := fn.Locals.AddParameter("z", types.Int, at(2))
				return err
			},
			want: ErrOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.declare(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClass_Duplicates(t *testing.T) {
	r := NewRegistry()
	c := mustDeclare(t, r, "A", types.ClassUser)

	if _, err := c.AddMember("x", types.Int, at(2)); err != nil {
		t.Fatalf("AddMember error: %v", err)
	}
	if _, err := c.AddMember("x", types.Boolean, at(3)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second AddMember error = %v, want ErrDuplicate", err)
	}

	mustMethod(t, c, "foo", types.Int, types.Int)
	mustMethod(t, c, "foo", types.Int, types.Boolean)
	dup := NewMethod("foo", types.Boolean, at(4))
	if _, err := dup.Locals.AddParameter("q", types.Int, at(4)); err != nil {
		t.Fatal(err)
	}
	if err := c.AddMethod(dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("AddMethod with equal signature error = %v, want ErrDuplicate", err)
	}
	if got := len(c.Overloads("foo")); got != 2 {
		t.Errorf("len(Overloads(foo)) = %d, want 2", got)
	}

	if err := c.SetMain(NewMain(at(5))); err != nil {
		t.Fatalf("SetMain error: %v", err)
	}
	if err := c.SetMain(NewMain(at(6))); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second SetMain error = %v, want ErrDuplicate", err)
	}

	if _, err := r.Declare("A", types.ClassUser, at(7)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("redeclare class error = %v, want ErrDuplicate", err)
	}
}

func TestRegistry_ExternalMerges(t *testing.T) {
	r := NewRegistry()
	first := mustDeclare(t, r, "io", types.ClassExternal)
	second := mustDeclare(t, r, "io", types.ClassExternal)
	if first != second {
		t.Error("importing the same class twice should return one descriptor")
	}
	if len(r.Classes()) != 1 {
		t.Errorf("len(Classes()) = %d, want 1", len(r.Classes()))
	}
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	c := mustDeclare(t, r, "A", types.ClassUser)
	fn := mustMethod(t, c, "f", types.Int)
	mustDeclare(t, r, "io", types.ClassExternal)

	table := r.Freeze()

	if _, err := r.Declare("B", types.ClassUser, at(1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("Declare after Freeze error = %v, want ErrFrozen", err)
	}
	if _, err := c.AddMember("y", types.Int, at(1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddMember after Freeze error = %v, want ErrFrozen", err)
	}
	if _, err := fn.Locals.Define("z", types.Int, at(1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("Define after Freeze error = %v, want ErrFrozen", err)
	}
	if table.Lookup("A") != c {
		t.Error("Table.Lookup(A) should return the declared class")
	}
	if got := len(table.UserClasses()); got != 1 {
		t.Errorf("len(UserClasses()) = %d, want 1", got)
	}
}

func TestClass_SetSuperCycle(t *testing.T) {
	r := NewRegistry()
	a := mustDeclare(t, r, "A", types.ClassUser)
	b := mustDeclare(t, r, "B", types.ClassUser)
	c := mustDeclare(t, r, "C", types.ClassUser)

	if err := b.SetSuper(a); err != nil {
		t.Fatal(err)
	}
	if err := c.SetSuper(b); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		class *Class
		super *Class
	}{
		{"self", a, a},
		{"direct", a, b},
		{"transitive", a, c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.class.SetSuper(tt.super); !errors.Is(err, ErrCycle) {
				t.Errorf("SetSuper error = %v, want ErrCycle", err)
			}
			if tt.class.Super != nil {
				t.Error("failed SetSuper should leave the class unchanged")
			}
		})
	}

	if !c.Type.Extends(a.Type) {
		t.Error("C should extend A through B")
	}
}

func TestResolve_Order(t *testing.T) {
	r := NewRegistry()
	base := mustDeclare(t, r, "Base", types.ClassUser)
	derived := mustDeclare(t, r, "Derived", types.ClassUser)
	if err := derived.SetSuper(base); err != nil {
		t.Fatal(err)
	}

	inherited, _ := base.AddMember("inherited", types.Int, at(1))
	baseShadowed, _ := base.AddMember("shadowed", types.Int, at(1))
	ownShadowed, _ := derived.AddMember("shadowed", types.Boolean, at(2))
	field, _ := derived.AddMember("x", types.Int, at(2))

	fn := mustMethod(t, derived, "f", types.Int, types.Int) // parameter "a"
	local, _ := fn.Locals.Define("x", types.Boolean, at(3))

	main := NewMain(at(4))
	args, _ := main.Locals.AddParameter("args", types.StringArray, at(4))
	if err := derived.SetMain(main); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		fn   *Function
		id   string
		want *Variable
	}{
		{"local shadows field", fn, "x", local},
		{"parameter", fn, "a", fn.Locals.Parameters()[0]},
		{"own field", fn, "shadowed", ownShadowed},
		{"superclass field", fn, "inherited", inherited},
		{"this", fn, "this", fn.Locals.This},
		{"unresolved", fn, "nope", nil},
		{"main argument", main, "args", args},
		{"no fields from static context", main, "inherited", nil},
		{"no this in static context", main, "this", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.fn, tt.id); got != tt.want {
				t.Errorf("Resolve(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	if got := ResolveMember(base, "shadowed"); got != baseShadowed {
		t.Errorf("ResolveMember(Base, shadowed) = %v, want Base's field", got)
	}
	if field.Owner != derived {
		t.Errorf("field owner = %v, want Derived", field.Owner)
	}
}

func TestDeduce(t *testing.T) {
	r := NewRegistry()
	base := mustDeclare(t, r, "Base", types.ClassUser)
	c := mustDeclare(t, r, "C", types.ClassUser)
	if err := c.SetSuper(base); err != nil {
		t.Fatal(err)
	}

	fooInt := mustMethod(t, c, "foo", types.Int, types.Int)
	fooBool := mustMethod(t, c, "foo", types.Int, types.Boolean)
	barBase := mustMethod(t, base, "bar", types.Int, types.Int)
	fooBase := mustMethod(t, base, "foo", types.Int, types.IntArray)

	tests := []struct {
		name      string
		method    string
		sig       types.Signature
		want      *Function
		found     bool
		ambiguous bool
	}{
		{"exact int", "foo", types.NewSignature(types.Int), fooInt, true, false},
		{"exact boolean", "foo", types.NewSignature(types.Boolean), fooBool, true, false},
		{"wildcard is ambiguous", "foo", types.NewSignature(nil), fooInt, true, true},
		{"arity mismatch", "foo", types.NewSignature(types.Int, types.Int), nil, false, false},
		{"inherited", "bar", types.NewSignature(types.Int), barBase, true, false},
		{"defers to superclass when no local match", "foo", types.NewSignature(types.IntArray), fooBase, true, false},
		{"missing", "baz", types.NewSignature(), nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Deduce(c, tt.method, tt.sig)
			if d.Candidate != tt.want || d.Found != tt.found || d.Ambiguous != tt.ambiguous {
				t.Errorf("Deduce(%s%s) = {%v %v %v}, want {%v %v %v}",
					tt.method, tt.sig, d.Candidate, d.Found, d.Ambiguous, tt.want, tt.found, tt.ambiguous)
			}
		})
	}

	if d := Deduce(c, "foo", types.NewSignature(nil)); len(d.Candidates) != 2 {
		t.Errorf("ambiguous deduction has %d candidates, want 2", len(d.Candidates))
	}
}

func TestDeduceStatic(t *testing.T) {
	r := NewRegistry()
	io := mustDeclare(t, r, "io", types.ClassExternal)
	printInt := NewImported("println", types.NewSignature(types.Int), types.Void, true, at(1))
	if err := io.AddStatic(printInt); err != nil {
		t.Fatal(err)
	}

	user := mustDeclare(t, r, "A", types.ClassUser)
	main := NewMain(at(2))
	if err := user.SetMain(main); err != nil {
		t.Fatal(err)
	}
	child := mustDeclare(t, r, "B", types.ClassUser)
	if err := child.SetSuper(io); err != nil {
		t.Fatal(err)
	}

	if d := DeduceStatic(io, "println", types.NewSignature(types.Int)); d.Candidate != printInt {
		t.Errorf("DeduceStatic(io.println) = %v, want imported println", d.Candidate)
	}
	if d := DeduceStatic(io, "println", types.NewSignature(types.Boolean)); d.Found {
		t.Error("println(boolean) should not be found")
	}
	if d := DeduceStatic(user, "main", types.NewSignature(types.StringArray)); d.Found {
		t.Error("static deduction must not search the user class itself")
	}
	if d := DeduceStatic(child, "println", types.NewSignature(types.Int)); d.Candidate != printInt {
		t.Errorf("DeduceStatic(B.println) = %v, want inherited println", d.Candidate)
	}
	if err := user.AddStatic(NewImported("x", types.NewSignature(), types.Void, true, at(3))); err == nil {
		t.Error("AddStatic on a user class should fail")
	}
}
