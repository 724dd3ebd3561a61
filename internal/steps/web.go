package steps

import (
	"context"
	"fmt"
	"path"

	"github.com/supanext/cli/internal/templates"
)

// CreateWebApp runs the web generator into dir. The generator creates dir
// itself, so it runs from the parent directory.
func (l *Library) CreateWebApp(ctx context.Context, dir string) error {
	abs := l.Abs(dir)
	parent, name := parentAndBase(abs)

	args := []string{
		name,
		"--typescript",
		"--tailwind",
		"--eslint",
		"--app",
		"--src-dir",
		"--import-alias", "@/*",
		l.pm.GeneratorFlag(),
		"--yes",
	}
	if l.cfg.IsMonorepo() {
		args = append(args, "--disable-git")
	}
	return l.run(ctx, l.pm.Exec(parent, l.settings.Tools.WebGenerator, args...))
}

// VerifyAppRoot checks that a generator produced dir with a package.json.
func (l *Library) VerifyAppRoot(dir string) error {
	manifest := path.Join(dir, "package.json")
	if !l.Exists(manifest) {
		return fmt.Errorf("expected %s after generation, but it does not exist", l.Abs(manifest))
	}
	return nil
}

// InstallUI initializes the UI generator in the web app at dir. With all set,
// every available component is added as well.
func (l *Library) InstallUI(ctx context.Context, dir string, all bool) error {
	if err := l.exec(ctx, dir, l.settings.Tools.UIGenerator, "init", "--yes", "--defaults"); err != nil {
		return err
	}
	if !all {
		return nil
	}
	return l.exec(ctx, dir, l.settings.Tools.UIGenerator, "add", "--all", "--yes", "--overwrite")
}

// InstallValidation adds the schema validation library.
func (l *Library) InstallValidation(ctx context.Context, dir string) error {
	return l.run(ctx, l.pm.Add(l.Abs(dir), "zod"))
}

// WriteWebSources writes the env templates, Supabase client accessors, the
// session middleware and the types placeholder.
func (l *Library) WriteWebSources(dir string) error {
	return l.WritePayloads(
		File{path.Join(dir, ".env.example"), templates.WebEnv},
		File{path.Join(dir, ".env.local"), templates.WebEnv},
		File{path.Join(dir, "src/lib/supabase/client.ts"), templates.WebSupabaseClient},
		File{path.Join(dir, "src/lib/supabase/server.ts"), templates.WebSupabaseServer},
		File{path.Join(dir, "src/lib/supabase/middleware.ts"), templates.WebSupabaseSession},
		File{path.Join(dir, "src/middleware.ts"), templates.WebMiddleware},
		File{path.Join(dir, "src/types/index.ts"), templates.WebTypes},
	)
}

// WriteStore installs the state library and writes the store scaffold.
func (l *Library) WriteStore(ctx context.Context, dir string) error {
	if err := l.run(ctx, l.pm.Add(l.Abs(dir), "zustand")); err != nil {
		return err
	}
	return l.WritePayloads(File{path.Join(dir, "src/stores/app-store.ts"), templates.WebStore})
}

// WriteFormatConfig installs the formatter and writes its configuration.
func (l *Library) WriteFormatConfig(ctx context.Context, dir string) error {
	if err := l.WritePayloads(
		File{path.Join(dir, ".prettierrc"), templates.WebPrettierConfig},
		File{path.Join(dir, ".prettierignore"), templates.WebPrettierIgnore},
	); err != nil {
		return err
	}
	return l.run(ctx, l.pm.AddDev(l.Abs(dir), "prettier"))
}

// WriteNextConfig replaces the generated framework config with one requesting
// standalone output. Monorepo builds also transpile the shared package.
func (l *Library) WriteNextConfig(dir string) error {
	for _, stale := range []string{"next.config.js", "next.config.mjs"} {
		if err := l.removeIfExists(path.Join(dir, stale)); err != nil {
			return err
		}
	}
	return l.WritePayloads(File{path.Join(dir, "next.config.ts"), templates.WebNextConfig})
}
