// Package shell runs external programs with captured or streamed output and
// turns non-zero exits into typed errors.
package shell

//go:generate mockgen -source=$GOFILE -destination=mocks/${GOFILE} -package=mocks

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/cryptix-os/helix/log"
	"github.com/pkg/errors"
)

// Command describes a single program invocation
type Command struct {
	Name string
	Args []string

	// Dir is the working directory, empty means the current one
	Dir string

	// Env is appended to the process environment
	Env []string

	Stdin io.Reader

	// Stream wires the child's stdout/stderr to the runner's writers instead
	// of capturing them
	Stream bool
}

// Cmd returns a captured Command for name and args
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Streamed returns a copy of c with Stream set
func (c Command) Streamed() Command {
	c.Stream = true
	return c
}

// Argv returns the full argument vector, program name first
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Result of a finished command. Captured output is whitespace-trimmed.
type Result struct {
	Cmd    []string
	Stdout string
	Stderr string
	Code   int
}

// Success reports a zero exit code
func (r *Result) Success() bool {
	return r.Code == 0
}

// Runner executes commands. Run fails on a non-zero exit, TryRun reports it
// in Result.Code.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
	TryRun(ctx context.Context, cmd Command) (*Result, error)
}

// Executor is the os/exec backed Runner
type Executor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns an Executor streaming to the process's own stdout/stderr
func NewExecutor() *Executor {
	return &Executor{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cmd and returns an *Error when it exits non-zero
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	res, err := e.exec(ctx, cmd)
	if err != nil {
		return res, err
	}

	if !res.Success() {
		log.Errorf("`%v` failed with exit code: `%d`,\n\terror message => %s\n%s", res.Cmd, res.Code, res.Stderr, res.Stdout)
		return res, &Error{Cmd: res.Cmd, Code: res.Code, Stdout: res.Stdout, Stderr: res.Stderr}
	}
	return res, nil
}

// TryRun executes cmd; a non-zero exit is not an error
func (e *Executor) TryRun(ctx context.Context, cmd Command) (*Result, error) {
	return e.exec(ctx, cmd)
}

func (e *Executor) exec(ctx context.Context, c Command) (*Result, error) {
	argv := c.Argv()
	log.Trace("running %v", argv)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	if c.Stream {
		cmd.Stdout = e.Stdout
		cmd.Stderr = e.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := &Result{
		Cmd:    argv,
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.Code = exitErr.ExitCode()
		return res, nil
	}

	if notFound(err) {
		log.Errorf("command not found => `%s`", c.Name)
		res.Code = CodeNotFound
		res.Stderr = "command not found: " + c.Name
		return res, &Error{Cmd: argv, Code: CodeNotFound, Stderr: res.Stderr}
	}

	if c.Dir != "" {
		return res, errors.Wrapf(err, "running %s in %s", c.Name, c.Dir)
	}
	return res, errors.Wrapf(err, "running %s", c.Name)
}

// notFound reports a failed executable lookup, a missing working directory
// is not one
func notFound(err error) bool {
	var lookErr *exec.Error
	if errors.As(err, &lookErr) {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && pathErr.Op != "chdir" && errors.Is(err, fs.ErrNotExist)
}
