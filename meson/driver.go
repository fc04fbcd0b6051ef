// Package meson drives the kernel's meson build: setup with the right cross
// file, compile, and run targets that boot the result in an emulator.
package meson

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cryptix-os/helix/log"
	"github.com/cryptix-os/helix/shell"
	"github.com/cryptix-os/helix/util"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// RebuildPrompt is asked before a rebuild wipes the build directory
const RebuildPrompt = "this will regenerate your current build directory\ndo you want to proceed?"

// ErrNoBuildDir is returned by actions that need a configured build directory
var ErrNoBuildDir = errors.New("build directory does not exist")

// Driver runs meson for one build directory
type Driver struct {
	runner   shell.Runner
	fs       afero.Fs
	progress util.Progress
	opts     Options
}

// NewDriver returns a Driver. fs is used for build directory housekeeping.
func NewDriver(runner shell.Runner, fs afero.Fs, progress util.Progress, opts Options) *Driver {
	if progress == nil {
		progress = util.NoProgress{}
	}
	return &Driver{runner: runner, fs: fs, progress: progress, opts: opts}
}

// Options returns the driver's options
func (d *Driver) Options() Options {
	return d.opts
}

// EnsureBuildDir fails with ErrNoBuildDir unless the build directory exists
func (d *Driver) EnsureBuildDir() error {
	ok, err := afero.DirExists(d.fs, d.opts.BuildDir)
	if err != nil {
		return errors.Wrapf(err, "stat %s", d.opts.BuildDir)
	}
	if !ok {
		return errors.Wrapf(ErrNoBuildDir, "build directory %s does not exist, run the meson setup step before compiling", d.opts.BuildDir)
	}
	return nil
}

// Setup recreates the build directory from scratch
func (d *Driver) Setup(ctx context.Context) error {
	o := d.opts
	log.Trace("Setting the build directory => `%s`", o.BuildDir)
	log.Info("target architecture: %s", o.Arch)
	log.Info("build-type: %s", o.BuildType)
	log.Info("cxx: %s", o.Compiler)
	log.Info("cross-file: %s", o.CrossFile())

	buildType, err := o.BuildType.MesonBuildType()
	if err != nil {
		return err
	}

	if err := d.fs.RemoveAll(o.BuildDir); err != nil {
		return errors.Wrapf(err, "remove %s", o.BuildDir)
	}

	err = d.progress.Do(func() error {
		_, err := d.runner.Run(ctx, shell.Cmd("meson", "setup", o.BuildDir,
			"--cross-file="+o.CrossFile(),
			"--force-fallback-for=fmt",
			"--buildtype="+buildType,
		))
		return err
	}, "Configuring ", o.BuildDir)
	if err != nil {
		return errors.Wrap(err, "meson setup")
	}

	if err := d.fs.MkdirAll(filepath.Join(o.BuildDir, "iso_root"), 0755); err != nil {
		return errors.Wrap(err, "create iso_root")
	}
	log.Info("All selected builds are set up!")
	return nil
}

// Build compiles the build target with output streamed to the terminal
func (d *Driver) Build(ctx context.Context) error {
	if err := d.EnsureBuildDir(); err != nil {
		return err
	}

	log.Info("Starting compilation...")
	res, err := d.runner.TryRun(ctx, d.compile("build"))
	if err == nil && !res.Success() {
		err = &shell.Error{Cmd: res.Cmd, Code: res.Code}
	}
	if err != nil {
		log.Errorf("Compilation failed.")
		return errors.Wrap(err, "compilation failed")
	}

	log.Info("Compilation completed successfully.")
	return nil
}

// Rebuild asks confirm, then sets up and builds again. A negative answer is
// not an error.
func (d *Driver) Rebuild(ctx context.Context, confirm func(message string) (bool, error)) error {
	if err := d.EnsureBuildDir(); err != nil {
		return err
	}

	ok, err := confirm(RebuildPrompt)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("Rebuild cancelled")
		return nil
	}

	if err := d.Setup(ctx); err != nil {
		return err
	}
	return d.Build(ctx)
}

// Run compiles and executes the run_<firmware> target
func (d *Driver) Run(ctx context.Context, fw Firmware) error {
	if err := d.EnsureBuildDir(); err != nil {
		return err
	}
	if fw == "" {
		fw = UEFI
	}

	target := "run_" + string(fw)
	res, err := d.runner.TryRun(ctx, d.compile(target))
	if err != nil {
		return errors.Wrap(err, target)
	}
	if !res.Success() {
		return errors.Wrap(&shell.Error{Cmd: res.Cmd, Code: res.Code}, fmt.Sprintf("%s exited with code %d", target, res.Code))
	}
	return nil
}

func (d *Driver) compile(target string) shell.Command {
	return shell.Cmd("meson", "compile", "-C", d.opts.BuildDir, d.opts.JobsFlag(), target).Streamed()
}
