package types

import "strings"

// Signature is the ordered list of parameter types of a method.
//
// When a signature is built from call arguments, a nil slot is a wildcard
// standing for an argument whose type is not known; such a signature matches
// any parameter type in that position. Declared signatures are always
// complete.
type Signature struct {
	Params []Type
}

// NewSignature creates a signature from parameter types.
func NewSignature(params ...Type) Signature {
	return Signature{Params: params}
}

// Arity returns the number of parameters.
func (s Signature) Arity() int {
	return len(s.Params)
}

// Complete reports whether no slot is a wildcard.
func (s Signature) Complete() bool {
	for _, p := range s.Params {
		if p == nil || IsUnknown(p) {
			return false
		}
	}
	return true
}

// Accepts reports whether a method declared with signature s can be called
// with arguments described by args: same arity, and every non-wildcard
// argument type compatible with the corresponding parameter.
func (s Signature) Accepts(args Signature) bool {
	if len(s.Params) != len(args.Params) {
		return false
	}
	for i, param := range s.Params {
		arg := args.Params[i]
		if arg == nil {
			continue
		}
		if !Typematch(param, arg) {
			return false
		}
	}
	return true
}

// Equal reports whether both signatures have identical parameter types.
// Wildcards are only equal to wildcards.
func (s Signature) Equal(other Signature) bool {
	if len(s.Params) != len(other.Params) {
		return false
	}
	for i, p := range s.Params {
		q := other.Params[i]
		if p == nil || q == nil {
			if p != q {
				return false
			}
			continue
		}
		if !p.Equals(q) {
			return false
		}
	}
	return true
}

// String renders the signature as "(int, boolean)", with "?" for wildcards.
func (s Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		if p == nil {
			parts[i] = "?"
		} else {
			parts[i] = p.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
