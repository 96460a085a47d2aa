package optimizer

import (
	"github.com/hassan/jmm/internal/ir"
)

// DeadCodeEliminationPass removes statements that can never run or that
// have no effect.
//
// EXAMPLE 1 - Constant condition:
//
//	Before:  if true { a := 1 } else { a := 2 }
//	After:   a := 1
//
// EXAMPLE 2 - Loop that never runs:
//
//	Before:  while false { a := a + 1 }
//	After:   (nothing)
//
// EXAMPLE 3 - Evaluation without effect:
//
//	Before:  eval %1      (%1 = local x)
//	After:   (nothing)
//
// `while true` is kept; it is the only way to write an infinite loop.
type DeadCodeEliminationPass struct{}

// Name returns the name of this optimization pass.
func (d *DeadCodeEliminationPass) Name() string {
	return "DeadCodeElimination"
}

// Run executes dead code elimination on the given function.
func (d *DeadCodeEliminationPass) Run(fn *ir.Function) error {
	fn.Body = d.prune(fn.Body)
	return nil
}

// prune returns stmts without dead statements. Bodies of kept statements
// are pruned in place.
func (d *DeadCodeEliminationPass) prune(stmts []ir.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, s := range stmts {
		switch s := s.(type) {
		case *ir.If:
			s.Then = d.prune(s.Then)
			s.Else = d.prune(s.Else)
			if c, ok := s.Cond.(*ir.BooleanConstant); ok {
				if c.Value {
					out = append(out, s.Then...)
				} else {
					out = append(out, s.Else...)
				}
				continue
			}
		case *ir.While:
			s.Body = d.prune(s.Body)
			if c, ok := s.Cond.(*ir.BooleanConstant); ok && !c.Value {
				continue
			}
		case *ir.ExprStmt:
			if pure(s.Expr) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// pure reports whether evaluating e can neither fail nor have an effect.
func pure(e ir.Expr) bool {
	switch e := e.(type) {
	case *ir.IntegerConstant, *ir.BooleanConstant, *ir.Variable, *ir.This:
		return true
	case *ir.Not:
		return pure(e.Operand)
	case *ir.BinaryOp:
		if e.Op == ir.OpDiv {
			return false
		}
		return pure(e.Left) && pure(e.Right)
	default:
		return false
	}
}
