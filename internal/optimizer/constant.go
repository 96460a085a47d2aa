package optimizer

import (
	"github.com/hassan/jmm/internal/ir"
)

// ConstantFoldingPass performs constant folding optimization.
//
// EXAMPLE:
//
//	Before:  %3 = + %1, %2      (%1 = const 2, %2 = const 3)
//	         %5 = * %3, %4      (%4 = const 4)
//	After:   %7 = const 20
//
// Integer arithmetic wraps at 32 bits like the target machine's. Division
// by zero is left in place so it still fails at run time. `&&` is lowered
// without short-circuit, so it is only folded when both sides are constant.
type ConstantFoldingPass struct{}

// Name returns the name of this optimization pass.
func (c *ConstantFoldingPass) Name() string {
	return "ConstantFolding"
}

// Run executes constant folding on the given function.
//
// ALGORITHM:
// 1. Visit every statement operand and the result in post-order
// 2. Rewrite each operand field with its folded replacement
// 3. Replace an operator node by a constant when its operands are constants
//
// Shared nodes are rewritten once; the memo hands every user the same
// replacement, so the DAG stays a DAG.
func (c *ConstantFoldingPass) Run(fn *ir.Function) error {
	f := &folder{fn: fn, memo: make(map[ir.Expr]ir.Expr)}
	f.stmts(fn.Body)
	if fn.Result != nil {
		fn.Result = f.expr(fn.Result)
	}
	return nil
}

type folder struct {
	fn   *ir.Function
	memo map[ir.Expr]ir.Expr
}

func (f *folder) stmts(stmts []ir.Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ir.Assignment:
			s.Value = f.expr(s.Value)
		case *ir.BracketAssignment:
			s.Index = f.expr(s.Index)
			s.Value = f.expr(s.Value)
		case *ir.ExprStmt:
			s.Expr = f.expr(s.Expr)
		case *ir.If:
			s.Cond = f.expr(s.Cond)
			f.stmts(s.Then)
			f.stmts(s.Else)
		case *ir.While:
			s.Cond = f.expr(s.Cond)
			f.stmts(s.Body)
		}
	}
}

func (f *folder) expr(e ir.Expr) ir.Expr {
	if r, ok := f.memo[e]; ok {
		return r
	}
	r := f.rewrite(e)
	f.memo[e] = r
	return r
}

func (f *folder) rewrite(e ir.Expr) ir.Expr {
	switch e := e.(type) {
	case *ir.BinaryOp:
		e.Left = f.expr(e.Left)
		e.Right = f.expr(e.Right)
		if folded := f.binary(e); folded != nil {
			return folded
		}
	case *ir.Not:
		e.Operand = f.expr(e.Operand)
		if b, ok := e.Operand.(*ir.BooleanConstant); ok {
			return f.fn.NewBoolean(!b.Value, e.Pos())
		}
	case *ir.Bracket:
		e.Array = f.expr(e.Array)
		e.Index = f.expr(e.Index)
	case *ir.Length:
		e.Array = f.expr(e.Array)
	case *ir.NewIntArray:
		e.Size = f.expr(e.Size)
	case *ir.MethodCall:
		e.Receiver = f.expr(e.Receiver)
		f.args(e.Args)
	case *ir.StaticCall:
		f.args(e.Args)
	}
	return e
}

func (f *folder) args(args []ir.Expr) {
	for i, a := range args {
		args[i] = f.expr(a)
	}
}

// binary returns the constant op evaluates to, or nil.
func (f *folder) binary(op *ir.BinaryOp) ir.Expr {
	if op.Op == ir.OpAnd {
		l, lok := op.Left.(*ir.BooleanConstant)
		r, rok := op.Right.(*ir.BooleanConstant)
		if !lok || !rok {
			return nil
		}
		return f.fn.NewBoolean(l.Value && r.Value, op.Pos())
	}

	l, lok := op.Left.(*ir.IntegerConstant)
	r, rok := op.Right.(*ir.IntegerConstant)
	if !lok || !rok {
		return nil
	}

	var result int32
	switch op.Op {
	case ir.OpAdd:
		result = l.Value + r.Value
	case ir.OpSub:
		result = l.Value - r.Value
	case ir.OpMul:
		result = l.Value * r.Value
	case ir.OpDiv:
		// Don't fold division by zero
		if r.Value == 0 {
			return nil
		}
		result = l.Value / r.Value
	case ir.OpLess:
		return f.fn.NewBoolean(l.Value < r.Value, op.Pos())
	default:
		return nil
	}
	return f.fn.NewInteger(result, op.Pos())
}
