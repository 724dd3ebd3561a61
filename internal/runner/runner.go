// Package runner invokes external commands: generators, the backend CLI and
// the package manager. Commands either stream their output to the terminal or
// run silently for read-only probes.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/supanext/cli/internal/output"
)

// Command describes one external command invocation.
type Command struct {
	// Name is the executable, looked up in PATH.
	Name string

	// Args are passed verbatim.
	Args []string

	// Dir is the absolute working directory. Empty means the process directory.
	Dir string
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd and streams its output. In quiet mode output is captured
	// and only surfaced in the returned error.
	Run(ctx context.Context, cmd Command) error

	// Output executes cmd silently and returns its combined output.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// CommandError reports a command that exited non-zero or could not start.
type CommandError struct {
	Cmd      Command
	ExitCode int
	Output   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s: exit status %d", e.Cmd, e.ExitCode)
	}
	if tail := lastLines(e.Output, 5); tail != "" {
		msg += "\n" + tail
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive streamed output. Nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Quiet captures streamed output instead of printing it.
	Quiet bool
}

// NewExecRunner creates a runner streaming to the process stdout/stderr.
func NewExecRunner(quiet bool) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Quiet:  quiet,
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	output.Command(cmd.Dir, cmd.Name, cmd.Args...)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin

	var captured bytes.Buffer
	if r.Quiet {
		c.Stdout = &captured
		c.Stderr = &captured
		c.Stdin = nil
	} else {
		c.Stdout = r.Stdout
		c.Stderr = r.Stderr
	}

	if err := c.Run(); err != nil {
		return newCommandError(cmd, err, captured.String())
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	output.Command(cmd.Dir, cmd.Name, cmd.Args...)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	out, err := c.CombinedOutput()
	if err != nil {
		return out, newCommandError(cmd, err, string(out))
	}
	return out, nil
}

func newCommandError(cmd Command, err error, out string) *CommandError {
	ce := &CommandError{Cmd: cmd, Output: out, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
	}
	return ce
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
