package provision

import (
	"context"
	"errors"
	"path"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supanext/cli/internal/config"
	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/runner"
	"github.com/supanext/cli/internal/steps"
	"github.com/supanext/cli/internal/testutil"
)

const target = "/work/my-app"

const generatedConfig = `project_id = "my-app"

[auth]
enabled = true
site_url = "http://127.0.0.1:3000"
additional_redirect_urls = ["https://127.0.0.1:3000"]
`

// rel converts an absolute command directory into a project-relative path.
func rel(dir string) string {
	r := strings.TrimPrefix(strings.TrimPrefix(dir, target), "/")
	if r == "" {
		return "."
	}
	return r
}

// simulateTools registers effects standing in for the external generators and
// the backend CLI.
func simulateTools(t *testing.T, fs billy.Filesystem, fake *testutil.FakeRunner, withMigration bool) {
	t.Helper()
	write := func(p, content string) error {
		return util.WriteFile(fs, p, []byte(content), 0o644)
	}

	fake.On("create-next-app", func(cmd runner.Command) error {
		dir := path.Join(rel(cmd.Dir), cmd.Args[2])
		if cmd.Dir == path.Dir(target) {
			dir = "."
		}
		if err := write(path.Join(dir, "package.json"), `{"name": "web", "scripts": {"dev": "next dev"}}`); err != nil {
			return err
		}
		return write(path.Join(dir, "tsconfig.json"), `{"compilerOptions": {"paths": {"@/*": ["./src/*"]}}}`)
	})
	fake.On("create-expo-app", func(cmd runner.Command) error {
		dir := path.Join(rel(cmd.Dir), cmd.Args[2])
		for p, c := range map[string]string{
			"package.json":  `{"name": "mobile", "main": "index.ts"}`,
			"app.json":      `{"expo": {"name": "mobile"}}`,
			"tsconfig.json": `{"extends": "expo/tsconfig.base"}`,
			"App.tsx":       "export default function App() {}",
		} {
			if err := write(path.Join(dir, p), c); err != nil {
				return err
			}
		}
		return nil
	})
	fake.On("supabase init", func(cmd runner.Command) error {
		return write(path.Join(rel(cmd.Dir), steps.BackendConfigPath), generatedConfig)
	})
	if withMigration {
		fake.On("migration new", func(cmd runner.Command) error {
			return write(path.Join(rel(cmd.Dir), "supabase/migrations/20250601120000_init_schema.sql"), "")
		})
	}
}

func newLibrary(arch project.Architecture, tmpl project.TemplateType, ui project.UIComponents) (*steps.Library, billy.Filesystem, *testutil.FakeRunner) {
	fs := memfs.New()
	fake := testutil.NewFakeRunner()
	cfg := project.RunConfiguration{
		Name:         "my-app",
		Architecture: arch,
		Template:     tmpl,
		UIComponents: ui,
		TargetPath:   target,
	}
	return steps.New(fs, fake, cfg, config.DefaultSettings()), fs, fake
}

func exists(fs billy.Filesystem, p string) bool {
	_, err := fs.Stat(p)
	return err == nil
}

func TestSingleAppFlow_Bare(t *testing.T) {
	lib, fs, fake := newLibrary(project.SingleApp, project.Bare, project.MinimalComponents)
	simulateTools(t, fs, fake, true)

	result, err := Provision(context.Background(), lib)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, []string{
		"check prerequisites",
		"create web app",
		"verify project root",
		"initialize backend",
		"install backend client",
		"write web sources",
		"create initial migration",
		"patch backend config",
		"write deployment guide and scripts",
		"write README and AI context",
		"write build config",
	}, result.Completed)

	for _, p := range []string{
		".env.example", ".env.local",
		"src/lib/supabase/client.ts", "src/middleware.ts", "src/types/index.ts",
		"DEPLOYMENT.md", "README.md", "CLAUDE.md", "next.config.ts",
	} {
		assert.True(t, exists(fs, p), "%s missing", p)
	}
	assert.False(t, exists(fs, "src/stores/app-store.ts"), "bare template has no store")
	assert.False(t, fake.Ran("shadcn"))
	assert.False(t, fake.Ran("zod"))

	// Every command gets an absolute directory inside or next to the target.
	for _, c := range fake.Commands() {
		if c.Dir == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(c.Dir, "/work"), "%s ran in %q", c, c.Dir)
	}
}

func TestSingleAppFlow_Opinionated(t *testing.T) {
	lib, fs, fake := newLibrary(project.SingleApp, project.Opinionated, project.AllComponents)
	simulateTools(t, fs, fake, true)

	result, err := Provision(context.Background(), lib)
	require.NoError(t, err)

	assert.True(t, fake.Ran("shadcn@latest add --all"))
	assert.Less(t, fake.Index("shadcn@latest init"), fake.Index("pnpm add zod"))
	assert.True(t, exists(fs, "src/stores/app-store.ts"))
	assert.True(t, exists(fs, ".prettierrc"))
	assert.Contains(t, result.Completed, "install UI components")
}

func TestSingleAppFlow_OptionalFailuresTolerated(t *testing.T) {
	lib, fs, fake := newLibrary(project.SingleApp, project.Opinionated, project.AllComponents)
	simulateTools(t, fs, fake, true)
	fake.FailOn("shadcn@latest add")
	fake.FailOn("add zustand")

	result, err := Provision(context.Background(), lib)
	require.NoError(t, err)

	var warned []string
	for _, w := range result.Warnings {
		warned = append(warned, w.Step)
	}
	assert.Equal(t, []string{"install UI components", "write state store"}, warned)
	assert.True(t, exists(fs, "next.config.ts"), "run continued to the last step")
}

func TestSingleAppFlow_RequiredFailureAborts(t *testing.T) {
	lib, fs, fake := newLibrary(project.SingleApp, project.Bare, project.MinimalComponents)
	simulateTools(t, fs, fake, true)
	fake.FailOn("supabase init")

	result, err := Provision(context.Background(), lib)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrStepFailed))
	assert.Contains(t, oerrors.SingleLine(err), "partial project created at "+target)

	assert.Equal(t, []string{"check prerequisites", "create web app", "verify project root"}, result.Completed)
	assert.False(t, fake.Ran("@supabase/supabase-js"))
	assert.True(t, exists(fs, "package.json"), "partial output is left in place")
}

func TestSingleAppFlow_MissingMigrationIsRequired(t *testing.T) {
	lib, fs, fake := newLibrary(project.SingleApp, project.Bare, project.MinimalComponents)
	simulateTools(t, fs, fake, false)

	_, err := Provision(context.Background(), lib)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	assert.False(t, exists(fs, "README.md"))
}

func TestMonorepoFlow_Opinionated(t *testing.T) {
	lib, fs, fake := newLibrary(project.Monorepo, project.Opinionated, project.MinimalComponents)
	simulateTools(t, fs, fake, true)

	result, err := Provision(context.Background(), lib)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	for _, p := range []string{
		"package.json",
		"pnpm-workspace.yaml",
		"tsconfig.json",
		"apps/web/package.json",
		"apps/mobile/package.json",
		"apps/mobile/app/_layout.tsx",
		"apps/mobile/metro.config.js",
		"packages/shared/package.json",
		"packages/shared/src/index.ts",
		"apps/web/src/lib/supabase/server.ts",
		"apps/web/next.config.ts",
		"DEPLOYMENT.md",
		"README.md",
		"CLAUDE.md",
	} {
		assert.True(t, exists(fs, p), "%s missing", p)
	}

	// Ordering: workspace before generators, generators before the workspace
	// install, backend after the install.
	assert.Less(t, fake.Index("create-next-app"), fake.Index("create-expo-app"))
	assert.Less(t, fake.Index("create-expo-app"), fake.Index("expo install"))
	assert.Less(t, fake.Index("@react-native-reusables/cli@latest add --all"), fake.Index("pnpm install"))
	assert.Less(t, fake.Index("pnpm install"), fake.Index("supabase init"))

	for _, c := range fake.Commands() {
		if strings.Contains(c.String(), "supabase init") {
			assert.Equal(t, target+"/apps/web", c.Dir)
		}
	}
	assert.False(t, exists(fs, "apps/mobile/components/ui/button.tsx"), "primary UI path succeeded")
}

func TestMonorepoFlow_MobileUIFallback(t *testing.T) {
	lib, fs, fake := newLibrary(project.Monorepo, project.Opinionated, project.MinimalComponents)
	simulateTools(t, fs, fake, true)
	fake.FailOn("@react-native-reusables/cli@latest")

	result, err := Provision(context.Background(), lib)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "install mobile UI components", result.Warnings[0].Step)
	assert.True(t, exists(fs, "apps/mobile/components/ui/button.tsx"))
	assert.True(t, exists(fs, "apps/mobile/components/ui/card.tsx"))
	assert.True(t, fake.Ran("pnpm add nativewind"))
}

func TestMonorepoFlow_MobileUIFallbackFailureAborts(t *testing.T) {
	lib, fs, fake := newLibrary(project.Monorepo, project.Opinionated, project.MinimalComponents)
	simulateTools(t, fs, fake, true)
	fake.FailOn("@react-native-reusables/cli@latest")
	fake.FailOn("add nativewind")

	_, err := Provision(context.Background(), lib)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrStepFailed))
	assert.False(t, fake.Ran("pnpm install"))
}

func TestMonorepoFlow_MigrationAndConfigPatchTolerated(t *testing.T) {
	lib, fs, fake := newLibrary(project.Monorepo, project.Bare, project.MinimalComponents)
	simulateTools(t, fs, fake, false)

	result, err := Provision(context.Background(), lib)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "create initial migration", result.Warnings[0].Step)
	assert.True(t, exists(fs, "README.md"))
}

func TestMonorepoFlow_BareSkipsMobileUI(t *testing.T) {
	lib, fs, fake := newLibrary(project.Monorepo, project.Bare, project.MinimalComponents)
	simulateTools(t, fs, fake, true)

	pipeline := NewFlow(lib)
	assert.NotContains(t, pipeline.Names(), "install mobile UI components")
	assert.NotContains(t, pipeline.Names(), "install UI components")

	_, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, fake.Ran("reusables"))
}

func TestSingleAppFlow_MigrationRewritesOnlyNewestFile(t *testing.T) {
	lib, fs, fake := newLibrary(project.SingleApp, project.Bare, project.MinimalComponents)
	simulateTools(t, fs, fake, true)

	older := map[string]string{
		"supabase/migrations/20240101000000_init_schema.sql": "-- older\n",
		"supabase/migrations/20240601000000_seed.sql":        "-- seed\n",
	}
	fake.On("supabase init", func(runner.Command) error {
		for p, c := range older {
			if err := util.WriteFile(fs, p, []byte(c), 0o644); err != nil {
				return err
			}
		}
		return nil
	})

	_, err := Provision(context.Background(), lib)
	require.NoError(t, err)

	for p, c := range older {
		data, err := util.ReadFile(fs, p)
		require.NoError(t, err)
		assert.Equal(t, c, string(data), "%s must be untouched", p)
	}

	data, err := util.ReadFile(fs, "supabase/migrations/20250601120000_init_schema.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "create table")
}
