// Package compiler drives a source file through the phases:
//
//	parse -> populate -> build -> (optimize) -> codegen -> write
//
// Each file gets its own diagnostics accumulator. Code generation is
// skipped when any MAJOR diagnostic was reported; MINOR diagnostics do not
// stop it.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hassan/jmm/internal/codegen"
	"github.com/hassan/jmm/internal/config"
	"github.com/hassan/jmm/internal/diag"
	"github.com/hassan/jmm/internal/ir"
	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/optimizer"
	"github.com/hassan/jmm/internal/parser"
	"github.com/hassan/jmm/internal/semantic"
)

// Result is the outcome of compiling one file.
type Result struct {
	File        string
	Status      diag.Status
	Diagnostics []diag.Diagnostic

	// Units is empty when code generation was skipped.
	Units []codegen.Unit

	// IR is the dump of the program, set when the configuration asks for it.
	IR string

	// Written lists the files created for Units.
	Written []string
}

// Compiler compiles files with one configuration. It is safe to compile
// several files concurrently.
type Compiler struct {
	cfg     config.Config
	logger  *slog.Logger
	printer *diag.Printer

	dumpMu sync.Mutex
	dump   io.Writer
}

// New creates a compiler. Diagnostics go to stderr with excerpts read from
// the source files, IR dumps to stdout.
func New(cfg config.Config, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		cfg:     cfg,
		logger:  logger,
		printer: diag.NewPrinter(os.Stderr, diag.NewFileSource()),
		dump:    os.Stdout,
	}
}

// SetOutput redirects diagnostics and IR dumps. source provides the
// excerpts printed under each diagnostic.
func (c *Compiler) SetOutput(diagnostics io.Writer, source diag.Source, dump io.Writer) {
	c.printer = diag.NewPrinter(diagnostics, source)
	c.dump = dump
}

// Run compiles files concurrently, at most cfg.Jobs at a time, and returns
// the worst status among them. An I/O error stops the remaining files.
func (c *Compiler) Run(ctx context.Context, files []string) (diag.Status, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Jobs)

	statuses := make([]diag.Status, len(files))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.CompileFile(file)
			if err != nil {
				return err
			}
			statuses[i] = res.Status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return diag.StatusMajor, err
	}

	worst := diag.StatusOK
	for _, s := range statuses {
		worst = max(worst, s)
	}
	return worst, nil
}

// CompileFile reads, compiles and reports one file, then writes its units
// to the output directory.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	res, err := c.Compile(path, src)
	if err != nil {
		return res, err
	}
	if err := c.Report(res); err != nil {
		return res, err
	}
	if err := c.Write(res); err != nil {
		return res, err
	}
	return res, nil
}

// Compile runs the phases on src without touching the file system. The
// returned error is reserved for internal failures; defects in the source
// are diagnostics in the result.
func (c *Compiler) Compile(filename string, src []byte) (*Result, error) {
	res := &Result{File: filename}
	acc := diag.NewAccumulator()
	defer func() {
		res.Status = acc.Status()
		res.Diagnostics = acc.Diagnostics()
	}()

	start := time.Now()
	tree, err := parser.Parse(string(src), filename)
	c.phase(filename, "parse", start)
	if err != nil {
		acc.Report(syntaxDiagnostic(err))
		return res, nil
	}

	start = time.Now()
	table := semantic.New(acc).Analyze(tree)
	c.phase(filename, "populate", start)

	start = time.Now()
	prog := ir.NewBuilder(table, acc).BuildProgram()
	c.phase(filename, "build", start)

	if acc.Status() == diag.StatusMajor {
		c.dumpIR(res, prog)
		c.logger.Warn("skipping code generation", "file", filename, "status", acc.Status(), "diagnostics", acc.Len())
		return res, nil
	}

	if c.cfg.Optimize {
		start = time.Now()
		if err := c.optimize(filename, prog); err != nil {
			return res, err
		}
		c.phase(filename, "optimize", start)
	}
	c.dumpIR(res, prog)

	start = time.Now()
	units, err := codegen.New(c.cfg.ClassVersion).Program(prog)
	if err != nil {
		return res, fmt.Errorf("generate %s: %w", filename, err)
	}
	res.Units = units
	c.phase(filename, "codegen", start)
	return res, nil
}

func (c *Compiler) optimize(filename string, prog *ir.Program) error {
	o := optimizer.NewOptimizer()
	o.SetLogger(c.logger)

	nodes, stmts := optimizer.Measure(prog)
	if err := o.Optimize(prog); err != nil {
		return fmt.Errorf("optimize %s: %w", filename, err)
	}
	nodesAfter, stmtsAfter := optimizer.Measure(prog)
	stats := optimizer.Stats{
		StatementsRemoved: stmts - stmtsAfter,
		NodesBefore:       nodes,
		NodesAfter:        nodesAfter,
	}
	c.logger.Debug("optimized", "file", filename,
		"statements_removed", stats.StatementsRemoved,
		"nodes_before", stats.NodesBefore,
		"nodes_after", stats.NodesAfter)
	return nil
}

func (c *Compiler) dumpIR(res *Result, prog *ir.Program) {
	if !c.cfg.DumpIR {
		return
	}
	res.IR = prog.Dump()
	c.dumpMu.Lock()
	defer c.dumpMu.Unlock()
	fmt.Fprintf(c.dump, "; %s\n%s", res.File, res.IR)
}

// Report prints the diagnostics of res.
func (c *Compiler) Report(res *Result) error {
	if err := c.printer.PrintAll(res.Diagnostics); err != nil {
		return fmt.Errorf("print diagnostics: %w", err)
	}
	return nil
}

// Write creates <OutputDir>/<Class>.j for every unit of res.
func (c *Compiler) Write(res *Result) error {
	if len(res.Units) == 0 {
		return nil
	}
	start := time.Now()
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, u := range res.Units {
		path := filepath.Join(c.cfg.OutputDir, u.Name+".j")
		if err := os.WriteFile(path, []byte(u.Text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", u.Name, err)
		}
		res.Written = append(res.Written, path)
	}
	c.phase(res.File, "write", start)
	return nil
}

func (c *Compiler) phase(file, name string, start time.Time) {
	c.logger.Debug("phase done",
		slog.String("file", file),
		slog.String("phase", name),
		slog.Duration("duration", time.Since(start)))
}

// syntaxDiagnostic converts a front-end error into a MAJOR diagnostic.
func syntaxDiagnostic(err error) diag.Diagnostic {
	d := diag.Diagnostic{Kind: diag.SyntaxError, Severity: diag.Major, Message: err.Error()}

	var serr *parser.SyntaxError
	var lerr *lexer.Error
	switch {
	case errors.As(err, &serr):
		d.Pos = serr.Pos
		d.Message = serr.Message
		if d.Message == "" {
			d.Message = "Encountered " + serr.Found + "."
		}
		d.Alternatives = serr.Expected
	case errors.As(err, &lerr):
		d.Pos = lerr.Pos
		d.Message = lerr.Message
	}
	return d
}
