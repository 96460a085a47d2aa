// Package config holds the settings of a compiler run. The struct is filled
// from command-line flags by kong and checked with validator tags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

// ClassVersions is the range of class-file versions the generated
// assembly is valid for. Methods carry no StackMapTable, which version 51
// and later require.
const ClassVersions = ">= 45.3, < 51"

// Config is the configuration of one compiler run.
type Config struct {
	Inputs       []string `arg:"" name:"file" help:"Source files to compile." validate:"required,min=1,dive,required"`
	OutputDir    string   `short:"o" name:"output" help:"Directory for generated .j files." default:"." type:"path" validate:"required"`
	ClassVersion string   `name:"class-version" help:"Class-file version written to every unit (empty to omit)." default:"49.0" validate:"omitempty,classversion"`
	Optimize     bool     `short:"O" help:"Fold constants and remove dead branches."`
	DumpIR       bool     `name:"dump-ir" help:"Print the IR of every function to stdout."`
	Jobs         int      `short:"j" help:"Files compiled concurrently." default:"4" validate:"gte=1,lte=256"`
	LogLevel     string   `name:"log-level" help:"Log level (debug, info, warn, error)." default:"warn" enum:"debug,info,warn,error" validate:"oneof=debug info warn error"`
	Watch        bool     `short:"w" help:"Recompile a file whenever it is written."`
}

// Default returns the configuration used when no flag is given.
func Default() Config {
	return Config{
		OutputDir:    ".",
		ClassVersion: "49.0",
		Jobs:         4,
		LogLevel:     "warn",
	}
}

var (
	constraint = mustConstraint(ClassVersions)
	validate   = newValidator()
)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("classversion", classVersion); err != nil {
		panic(err)
	}
	return v
}

// classVersion accepts "major.minor" strings within ClassVersions.
func classVersion(fl validator.FieldLevel) bool {
	return ValidClassVersion(fl.Field().String())
}

// ValidClassVersion reports whether v is a "major.minor" class-file version
// the generated assembly can target.
func ValidClassVersion(v string) bool {
	if strings.Count(v, ".") != 1 {
		return false
	}
	version, err := semver.StrictNewVersion(v + ".0")
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

// Validate checks c and returns every violation in one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fe.Field()+": "+describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s element(s)", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "classversion":
		return fmt.Sprintf("%q is not a class-file version %s", fe.Value(), ClassVersions)
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// SlogLevel returns the log level named by LogLevel, Warn when it is not
// a level name.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
