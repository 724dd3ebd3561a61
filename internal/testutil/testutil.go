// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/supanext/cli/internal/runner"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// CountFiles returns the number of regular files below dir.
func CountFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to walk %s: %v", dir, err)
	}
	return n
}

type effect struct {
	match string
	fn    func(cmd runner.Command) error
}

// FakeRunner records commands instead of executing them. Effects registered
// with On simulate what an external tool would write; FailOn makes matching
// commands fail. Matching is by substring of the rendered command line.
type FakeRunner struct {
	mu       sync.Mutex
	commands []runner.Command
	effects  []effect
	failures map[string]error

	// Missing lists executables whose version probe fails.
	Missing map[string]bool
}

// NewFakeRunner creates a fake runner where every probe succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		failures: make(map[string]error),
		Missing:  make(map[string]bool),
	}
}

// On registers fn to run whenever a command line contains match.
func (f *FakeRunner) On(match string, fn func(cmd runner.Command) error) {
	f.effects = append(f.effects, effect{match: match, fn: fn})
}

// FailOn makes commands whose line contains match fail.
func (f *FakeRunner) FailOn(match string) {
	f.failures[match] = fmt.Errorf("simulated failure: %s", match)
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) error {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	line := cmd.String()
	for match, err := range f.failures {
		if strings.Contains(line, match) {
			return &runner.CommandError{Cmd: cmd, ExitCode: 1, Err: err}
		}
	}
	for _, e := range f.effects {
		if strings.Contains(line, e.match) {
			if err := e.fn(cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// Output implements runner.Runner. Version probes answer "1.0.0".
func (f *FakeRunner) Output(ctx context.Context, cmd runner.Command) ([]byte, error) {
	if f.Missing[cmd.Name] {
		f.mu.Lock()
		f.commands = append(f.commands, cmd)
		f.mu.Unlock()
		return nil, &runner.CommandError{Cmd: cmd, Err: fmt.Errorf("executable file not found in $PATH")}
	}
	if err := f.Run(ctx, cmd); err != nil {
		return nil, err
	}
	return []byte("1.0.0\n"), nil
}

// Commands returns the recorded commands in order.
func (f *FakeRunner) Commands() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.commands...)
}

// Lines returns the recorded command lines in order.
func (f *FakeRunner) Lines() []string {
	cmds := f.Commands()
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether any recorded command line contains match.
func (f *FakeRunner) Ran(match string) bool {
	return f.Index(match) >= 0
}

// Index returns the position of the first command line containing match, or -1.
func (f *FakeRunner) Index(match string) int {
	for i, line := range f.Lines() {
		if strings.Contains(line, match) {
			return i
		}
	}
	return -1
}
