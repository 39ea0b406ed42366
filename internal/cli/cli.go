// Package cli implements the validate command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/mehmetkoksal-w/lorawan-devices/internal/cli/flags"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/config"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/logger"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/repository"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/validate"
	"github.com/mehmetkoksal-w/lorawan-devices/schemas"
)

// Env is what a run reads from and writes to. Run uses the process
// environment; tests supply their own.
type Env struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// Run parses args and validates the repository they point to.
func Run(args []string) error {
	return RunEnv(args, Env{
		Fs:     afero.NewOsFs(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	})
}

// RunEnv is Run with an explicit environment.
func RunEnv(args []string, env Env) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: validate --vendor <file>")
		fs.PrintDefaults()
	}
	vendor := flags.AddVendorFlag(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg, err := config.Resolve(*vendor, env.Getenv)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Debug("%s", buildInfo())

	set, err := schemas.NewSet()
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}
	v, err := validate.New(validate.Options{
		Schemas: set,
		Fs:      env.Fs,
		Layout:  repository.Layout{Root: cfg.Root},
		Stdout:  env.Stdout,
		Stderr:  env.Stderr,
	})
	if err != nil {
		return err
	}

	report, err := v.Run(cfg.VendorIndex)
	logger.Info("vendors: %d valid, %d invalid, %d without index; end devices: %d; profiles: %d (%d references)",
		report.VendorsValidated, report.VendorsInvalid, report.VendorsSkipped,
		report.EndDevices, report.Profiles, report.ProfileRefs)
	return err
}

// PrintError writes err to w unless it is a *validate.FatalError, whose
// details the validator has already written.
func PrintError(w io.Writer, err error) {
	var fatal *validate.FatalError
	if errors.As(err, &fatal) {
		return
	}
	fmt.Fprintf(w, "validate: %v\n", err)
}
