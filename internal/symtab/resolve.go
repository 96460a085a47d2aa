package symtab

import "github.com/hassan/jmm/internal/semantic/types"

// Resolve looks up name from inside fn. The order is fixed: parameters and
// locals of fn, then members of the receiver's class and its superclasses
// (instance methods only), then the static scope of the class chain (static
// functions only). It returns nil when the name is not found.
func Resolve(fn *Function, name string) *Variable {
	if fn.Locals != nil {
		if name == "this" {
			return fn.Locals.This
		}
		if v := fn.Locals.Lookup(name); v != nil {
			return v
		}
	}
	if fn.Class == nil {
		return nil
	}
	if !fn.Static {
		return ResolveMember(fn.Class, name)
	}
	return ResolveStatic(fn.Class, name)
}

// ResolveMember finds a field of c or of the nearest superclass declaring it.
func ResolveMember(c *Class, name string) *Variable {
	for cur := c; cur != nil; cur = cur.Super {
		if v := cur.Member(name); v != nil {
			return v
		}
	}
	return nil
}

// ResolveStatic finds a variable in the static scope of c. The language
// has no static fields, so a static function only sees its own parameters
// and locals and this lookup never succeeds.
func ResolveStatic(c *Class, name string) *Variable {
	return nil
}

// Deduction is the outcome of overload deduction.
//
// Candidate is the selected function. When Ambiguous is set it is only the
// first of Candidates, and callers decide whether that is acceptable.
type Deduction struct {
	Candidate  *Function
	Found      bool
	Ambiguous  bool
	Candidates []*Function
}

// Deduce selects the instance method of c named name that accepts sig. The
// class's own overloads are tried first; when none of them accepts sig the
// search moves to the superclass.
func Deduce(c *Class, name string, sig types.Signature) Deduction {
	for cur := c; cur != nil; cur = cur.Super {
		if d := match(cur.Overloads(name), sig); d.Found {
			return d
		}
	}
	return Deduction{}
}

// DeduceStatic selects a static method named name accepting sig, as seen
// from c. A user class is never searched itself, only its superclasses;
// an external class offers the static methods imported for it.
func DeduceStatic(c *Class, name string, sig types.Signature) Deduction {
	cur := c
	if !c.IsExternal() {
		cur = c.Super
	}
	for ; cur != nil; cur = cur.Super {
		if d := match(cur.Statics(name), sig); d.Found {
			return d
		}
	}
	return Deduction{}
}

func match(fns []*Function, sig types.Signature) Deduction {
	var found []*Function
	for _, fn := range fns {
		if fn.Signature.Accepts(sig) {
			found = append(found, fn)
		}
	}
	if len(found) == 0 {
		return Deduction{}
	}
	return Deduction{
		Candidate:  found[0],
		Found:      true,
		Ambiguous:  len(found) > 1,
		Candidates: found,
	}
}
