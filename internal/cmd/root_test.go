package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/runner"
	"github.com/supanext/cli/internal/testutil"
)

// stubPrompter answers every prompt with fixed values and records which ran.
type stubPrompter struct {
	calls  []string
	cancel bool
}

func (p *stubPrompter) ask(axis string) error {
	p.calls = append(p.calls, axis)
	if p.cancel {
		return oerrors.ErrCancelled
	}
	return nil
}

func (p *stubPrompter) Name(context.Context) (string, error) {
	return "prompted", p.ask("name")
}

func (p *stubPrompter) Architecture(context.Context) (project.Architecture, error) {
	return project.SingleApp, p.ask("architecture")
}

func (p *stubPrompter) Template(context.Context) (project.TemplateType, error) {
	return project.Bare, p.ask("template")
}

func (p *stubPrompter) UIComponents(context.Context) (project.UIComponents, error) {
	return project.AllComponents, p.ask("ui")
}

type harness struct {
	cwd      string
	fake     *testutil.FakeRunner
	prompter *stubPrompter
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		cwd:      t.TempDir(),
		fake:     testutil.NewFakeRunner(),
		prompter: &stubPrompter{},
	}
	settings := testutil.WriteFile(t, t.TempDir(), "settings.yaml", "packageManager: pnpm\n")
	t.Setenv("SUPANEXT_CONFIG", settings)
	prev := output.SetStdout(&h.stdout)
	t.Cleanup(func() {
		output.SetStdout(prev)
		output.SetupLogging(output.LogConfig{})
	})
	return h
}

func (h *harness) execute(args ...string) error {
	deps := DefaultDeps()
	deps.Prompter = h.prompter
	deps.Interactive = func() bool { return true }
	deps.NewRunner = func(bool) runner.Runner { return h.fake }
	deps.Getwd = func() (string, error) { return h.cwd, nil }

	cmd := NewRootCmdWithDeps(deps)
	cmd.SetArgs(args)
	cmd.SetOut(&h.stdout)
	cmd.SetErr(&h.stderr)
	return cmd.Execute()
}

// simulateGenerators writes what the external generators and backend CLI
// would produce on disk.
func (h *harness) simulateGenerators(t *testing.T) {
	t.Helper()
	write := func(dir, name, content string) error {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		return os.WriteFile(p, []byte(content), 0o644)
	}

	h.fake.On("create-next-app", func(cmd runner.Command) error {
		dir := filepath.Join(cmd.Dir, cmd.Args[2])
		if err := write(dir, "package.json", `{"name": "web"}`); err != nil {
			return err
		}
		return write(dir, "tsconfig.json", `{"compilerOptions": {}}`)
	})
	h.fake.On("create-expo-app", func(cmd runner.Command) error {
		dir := filepath.Join(cmd.Dir, cmd.Args[2])
		if err := write(dir, "package.json", `{"name": "mobile"}`); err != nil {
			return err
		}
		if err := write(dir, "tsconfig.json", `{}`); err != nil {
			return err
		}
		return write(dir, "app.json", `{"expo": {}}`)
	})
	h.fake.On("supabase init", func(cmd runner.Command) error {
		return write(cmd.Dir, "supabase/config.toml", "[auth]\nsite_url = \"http://127.0.0.1:3000\"\n")
	})
	h.fake.On("migration new", func(cmd runner.Command) error {
		return write(cmd.Dir, "supabase/migrations/20250101000000_init_schema.sql", "")
	})
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "supanext [project-name]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"template", "architecture", "quiet", "force", "verbose", "dry-run", "version", "config", "output"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	for short, long := range map[string]string{"t": "template", "a": "architecture", "q": "quiet", "f": "force", "v": "version", "o": "output"} {
		f := cmd.Flags().ShorthandLookup(short)
		require.NotNil(t, f, "shorthand %s", short)
		assert.Equal(t, long, f.Name)
	}
}

func TestRoot_DryRun(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-t", "bare", "-a", "nextjs-only", "--dry-run")
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(h.cwd, "myapp"))
	assert.Empty(t, h.fake.Commands(), "dry run starts no process")
	assert.Empty(t, h.prompter.calls)
	assert.Contains(t, h.stdout.String(), "Dry run")
	assert.Contains(t, h.stdout.String(), "nextjs-only")
	assert.Contains(t, h.stdout.String(), "create web app")
}

func TestRoot_DryRunYAML(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-t", "opinionated", "-a", "monorepo", "--dry-run", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, h.stdout.String(), "architecture: monorepo\n")
	assert.Contains(t, h.stdout.String(), "packages/shared/")
}

func TestRoot_QuietMonorepo(t *testing.T) {
	h := newHarness(t)
	h.simulateGenerators(t)

	err := h.execute("myapp", "-t", "opinionated", "-a", "monorepo", "--quiet")
	require.NoError(t, err)

	root := filepath.Join(h.cwd, "myapp")
	assert.DirExists(t, filepath.Join(root, "apps", "web"))
	assert.DirExists(t, filepath.Join(root, "apps", "mobile"))
	assert.DirExists(t, filepath.Join(root, "packages", "shared"))
	assert.FileExists(t, filepath.Join(root, "package.json"))
	assert.FileExists(t, filepath.Join(root, "pnpm-workspace.yaml"))

	assert.Empty(t, h.prompter.calls)
	assert.Empty(t, h.stdout.String(), "quiet runs print nothing on success")
	assert.Empty(t, h.stderr.String())
}

func TestRoot_ExistingDirectory(t *testing.T) {
	h := newHarness(t)
	testutil.WriteFile(t, filepath.Join(h.cwd, "myapp"), "keep.txt", "keep")

	err := h.execute("myapp")
	require.Error(t, err)

	assert.Equal(t, oerrors.ExitFailure, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "myapp")
	assert.Contains(t, err.Error(), "--force")
	assert.Contains(t, h.stderr.String(), "Operation cancelled.")
	assert.Equal(t, 1, testutil.CountFiles(t, filepath.Join(h.cwd, "myapp")))
	assert.Empty(t, h.fake.Commands())
}

func TestRoot_ExistingDirectoryWithForce(t *testing.T) {
	h := newHarness(t)
	testutil.WriteFile(t, filepath.Join(h.cwd, "myapp"), "keep.txt", "keep")
	h.fake.FailOn("create-next-app")

	err := h.execute("myapp", "-a", "nextjs-only", "-t", "bare", "-f", "-q")
	require.Error(t, err)

	// The run got past the guard and failed in the first flow step.
	assert.True(t, h.fake.Ran("create-next-app"))
	assert.True(t, errors.Is(err, oerrors.ErrStepFailed))
	assert.Contains(t, h.stderr.String(), "partial project created at")
	assert.FileExists(t, filepath.Join(h.cwd, "myapp", "keep.txt"))
}

func TestRoot_InvalidArchitecture(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-a", "bad-value")
	require.Error(t, err)

	assert.Equal(t, oerrors.ExitFailure, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "monorepo, nextjs-only")
	assert.NoDirExists(t, filepath.Join(h.cwd, "myapp"))
}

func TestRoot_QuietMissingAxis(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-a", "monorepo", "--quiet")
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitFailure, exitErr.Code)
	assert.True(t, exitErr.Printed)
	assert.Equal(t, "validation failed: template is required in quiet mode (pass --template)\n", h.stderr.String())
	assert.Empty(t, h.prompter.calls)
}

func TestRoot_Cancel(t *testing.T) {
	h := newHarness(t)
	h.prompter.cancel = true

	err := h.execute()
	require.Error(t, err)

	assert.Equal(t, oerrors.ExitSuccess, oerrors.ExitCodeFromError(err))
	assert.Contains(t, h.stderr.String(), "Operation cancelled.")
	assert.Equal(t, []string{"name"}, h.prompter.calls)
}

func TestRoot_PromptsOnlyForMissing(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-a", "nextjs-only", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, []string{"template"}, h.prompter.calls)
}

func TestRoot_FlagMissingValue(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "--template")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitFailure, oerrors.ExitCodeFromError(err))
	assert.Contains(t, err.Error(), "template")
}

func TestRoot_QuietFlagMissingValue(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-q", "--template")
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitFailure, exitErr.Code)
	assert.True(t, exitErr.Printed)

	stderr := h.stderr.String()
	assert.Equal(t, 1, strings.Count(stderr, "\n"), "one line: %q", stderr)
	assert.True(t, strings.HasPrefix(stderr, "validation failed: "))
	assert.Contains(t, stderr, "--template")
	assert.Empty(t, h.prompter.calls)
}

func TestRoot_QuietEmptyFlagValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"template", []string{"myapp", "-q", "-a", "monorepo", "-t", ""}, `validation failed: invalid template "" (valid values: bare, opinionated)`},
		{"architecture", []string{"myapp", "-q", "--architecture=", "-t", "bare"}, `validation failed: invalid architecture "" (valid values: monorepo, nextjs-only)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			err := h.execute(tt.args...)
			require.Error(t, err)
			assert.Equal(t, oerrors.ExitFailure, oerrors.ExitCodeFromError(err))
			assert.Equal(t, tt.want+"\n", h.stderr.String())
			assert.Empty(t, h.prompter.calls)
		})
	}
}

func TestQuietRequested(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"-q"}, true},
		{[]string{"myapp", "--quiet", "--template"}, true},
		{[]string{"--quiet=true"}, true},
		{[]string{"-fq"}, true},
		{[]string{"-tq"}, false},
		{[]string{"--template", "-q"}, false},
		{[]string{"--", "-q"}, false},
		{[]string{"-test.v=true"}, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, quietRequested(tt.args))
		})
	}
}

func TestRoot_UnknownFlagsAndExtraArgsIgnored(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "extra", "--unknown", "-t", "bare", "-a", "monorepo", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, h.stdout.String(), "myapp/\n")
	assert.NoDirExists(t, filepath.Join(h.cwd, "extra"))
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	h := newHarness(t)

	err := h.execute("myapp", "-t", "bare", "-a", "monorepo", "--dry-run", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestRoot_Version(t *testing.T) {
	h := newHarness(t)

	err := h.execute("--version")
	require.NoError(t, err)
	assert.Contains(t, h.stdout.String(), "supanext:")
	assert.Contains(t, h.stdout.String(), "Node.js:")
}
