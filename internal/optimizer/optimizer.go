// Package optimizer rewrites function DAGs after they are built and
// type-checked. It is only run on programs without MAJOR diagnostics.
package optimizer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hassan/jmm/internal/ir"
)

// Pass represents an optimization pass that can be applied to a function DAG.
//
// Each optimization is a separate pass that can be enabled, reordered and
// tested in isolation. A pass mutates the function in place.
type Pass interface {
	// Name returns a human-readable name for this pass
	Name() string

	// Run executes this optimization pass on the given function
	// Returns an error if the pass fails
	Run(fn *ir.Function) error
}

// Optimizer coordinates the execution of optimization passes.
type Optimizer struct {
	// passes is the list of optimization passes to run
	passes []Pass

	// maxIterations limits how many times we run all passes
	maxIterations int

	logger *slog.Logger
}

// NewOptimizer creates a new optimizer with default passes.
//
// DEFAULT PASS ORDER:
// 1. Constant folding - turns constant conditions into literals
// 2. Dead code elimination - drops the branches those literals make unreachable
func NewOptimizer() *Optimizer {
	return &Optimizer{
		passes: []Pass{
			&ConstantFoldingPass{},
			&DeadCodeEliminationPass{},
		},
		maxIterations: 10,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// AddPass adds a custom optimization pass.
func (o *Optimizer) AddPass(pass Pass) {
	o.passes = append(o.passes, pass)
}

// SetLogger sets the logger used to trace pass execution at Debug level.
func (o *Optimizer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		o.logger = logger
	}
}

// SetMaxIterations sets the maximum number of optimization iterations.
func (o *Optimizer) SetMaxIterations(max int) {
	if max > 0 {
		o.maxIterations = max
	}
}

// Optimize runs all optimization passes on every function of the program.
func (o *Optimizer) Optimize(prog *ir.Program) error {
	for _, fn := range prog.Functions() {
		if err := o.OptimizeFunction(fn); err != nil {
			return fmt.Errorf("optimization failed for function %s: %w", fn.Name(), err)
		}
	}
	return nil
}

// OptimizeFunction runs the passes on fn until the DAG stops changing or
// the iteration limit is reached.
//
// ALGORITHM:
// 1. Fingerprint the function
// 2. Run all passes once
// 3. Stop when the fingerprint is unchanged
func (o *Optimizer) OptimizeFunction(fn *ir.Function) error {
	before := fingerprint(fn)
	for i := 0; i < o.maxIterations; i++ {
		for _, pass := range o.passes {
			o.logger.Debug("running pass", "pass", pass.Name(), "function", fn.Name(), "iteration", i+1)
			if err := pass.Run(fn); err != nil {
				return fmt.Errorf("pass %s failed: %w", pass.Name(), err)
			}
		}

		after := fingerprint(fn)
		if after == before {
			return nil
		}
		before = after
	}
	return nil
}

// fingerprint summarizes the reachable DAG. Node ids are part of the dump,
// so any replaced node changes it.
func fingerprint(fn *ir.Function) string {
	return fn.Dump()
}

// Stats counts what the passes did to a program.
type Stats struct {
	// StatementsRemoved is the number of statements eliminated
	StatementsRemoved int

	// NodesBefore and NodesAfter count reachable expression nodes
	NodesBefore int
	NodesAfter  int
}

// Measure returns the reachable expression node and statement counts of a
// program. Call it before and after Optimize to fill Stats.
func Measure(prog *ir.Program) (nodes, stmts int) {
	for _, fn := range prog.Functions() {
		nodes += reachable(fn)
		stmts += fn.Statements()
	}
	return nodes, stmts
}

func reachable(fn *ir.Function) int {
	seen := make(map[ir.Expr]bool)
	count := 0
	visit := func(ir.Expr) { count++ }
	var walk func([]ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for _, s := range stmts {
			for _, op := range s.Operands() {
				ir.Walk(op, seen, visit)
			}
			switch s := s.(type) {
			case *ir.If:
				walk(s.Then)
				walk(s.Else)
			case *ir.While:
				walk(s.Body)
			}
		}
	}
	walk(fn.Body)
	ir.Walk(fn.Result, seen, visit)
	return count
}

// String returns a human-readable summary of optimization statistics.
func (s Stats) String() string {
	return fmt.Sprintf("Optimization Stats:\n"+
		"  Statements removed: %d\n"+
		"  Nodes: %d -> %d\n",
		s.StatementsRemoved,
		s.NodesBefore,
		s.NodesAfter)
}
