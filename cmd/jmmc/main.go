// Package main provides the jmmc command, the Java-- compiler.
//
// A compilation runs each source file through:
// 1. Lexical and syntax analysis
// 2. Population of the class table
// 3. IR construction with name resolution and type checking
// 4. Optimization (constant folding, dead branch elimination), with -O
// 5. Jasmin code generation, one <Class>.j per class
//
// The exit status is 0 when no defect was found, 1 when only minor defects
// were found and 2 when a major defect or an I/O error occurred.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/hassan/jmm/internal/compiler"
	"github.com/hassan/jmm/internal/config"
	"github.com/hassan/jmm/internal/diag"
)

type CLI struct {
	Compile CompileCmd `cmd:"" help:"Compile Java-- sources to Jasmin assembly."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

type CompileCmd struct {
	config.Config `embed:""`

	status diag.Status `kong:"-"`
}

func (c *CompileCmd) Run() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Config.SlogLevel()}))
	comp := compiler.New(c.Config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status, err := comp.Run(ctx, c.Inputs)
	if err != nil {
		return err
	}
	c.status = status
	if !c.Watch {
		return nil
	}

	return comp.Watch(ctx, c.Inputs, func(res *compiler.Result, err error) {
		if err == nil {
			logger.Info("compiled", "file", res.File, "status", res.Status, "units", len(res.Units))
		}
	})
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("jmmc"),
		kong.Description("Compiler for the Java-- language, emitting Jasmin assembly."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		ctx.Errorf("%s", err)
		os.Exit(diag.StatusMajor.ExitCode())
	}
	os.Exit(cli.Compile.status.ExitCode())
}
