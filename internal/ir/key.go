package ir

import (
	"strconv"
	"strings"
)

// kind discriminates cache keys; it is not exported because only cacheable
// expression kinds have one.
type kind int

const (
	kindInteger kind = iota
	kindBoolean
	kindInvalid
	kindVariable
	kindUnresolved
	kindThis
	kindBinary
	kindNot
	kindBracket
	kindLength
	kindNewIntArray
	kindNewClass
	kindMethodCall
	kindStaticCall
)

// cacheKey identifies a pure expression by structure: its kind, a leaf
// value compared with ==, and the ids of its operands. Leaves are plain
// values for literals and names, and descriptor pointers for resolved
// variables, classes and methods, so equality is by value for the former
// and by identity for the latter.
type cacheKey struct {
	kind kind
	leaf any
	args string
}

func key(k kind, leaf any, operands ...Expr) cacheKey {
	if len(operands) == 0 {
		return cacheKey{kind: k, leaf: leaf}
	}
	ids := make([]string, len(operands))
	for i, op := range operands {
		ids[i] = strconv.Itoa(op.ID())
	}
	return cacheKey{kind: k, leaf: leaf, args: strings.Join(ids, ",")}
}

// cache holds the pure expressions of the function being built.
type cache map[cacheKey]Expr

// intern returns the cached expression for k, or stores and returns the one
// produced by build.
func (c cache) intern(k cacheKey, build func() Expr) Expr {
	if e, ok := c[k]; ok {
		return e
	}
	e := build()
	c[k] = e
	return e
}
