package steps

import (
	"context"
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5/util"

	"github.com/supanext/cli/internal/migration"
	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/templates"
	"github.com/supanext/cli/internal/tomlpatch"
)

// BackendConfigPath is the backend CLI config file relative to an app root.
const BackendConfigPath = "supabase/config.toml"

// InitBackend initializes the backend project in dir. On a forced re-run the
// existing backend config is overwritten.
func (l *Library) InitBackend(ctx context.Context, dir string) error {
	args := []string{"init", "--with-vscode-settings=false", "--with-intellij-settings=false"}
	if l.cfg.Force {
		args = append(args, "--force")
	}
	return l.exec(ctx, dir, l.settings.Tools.BackendCLI, args...)
}

// InstallBackendClient adds the backend client libraries and the backend CLI
// as a dev dependency, so that package.json scripts can call it.
func (l *Library) InstallBackendClient(ctx context.Context, dir string) error {
	if err := l.run(ctx, l.pm.Add(l.Abs(dir), "@supabase/supabase-js", "@supabase/ssr")); err != nil {
		return err
	}
	return l.run(ctx, l.pm.AddDev(l.Abs(dir), "supabase"))
}

// CreateMigration asks the backend CLI for a new migration, then replaces the
// body of the newest matching file with the initial schema.
func (l *Library) CreateMigration(ctx context.Context, dir string) error {
	name := l.settings.MigrationName
	if err := l.exec(ctx, dir, l.settings.Tools.BackendCLI, "migration", "new", name); err != nil {
		return err
	}

	body, err := l.renderer().Render(templates.BackendSchema)
	if err != nil {
		return err
	}

	file, err := migration.ReplaceLatest(l.fs, path.Join(dir, migration.Dir), name, body)
	if err != nil {
		return err
	}
	output.Debug("wrote initial schema", "migration", file)
	return nil
}

// PatchBackendConfig sets the auth site URL, the redirect allow-list and the
// custom access token hook in the backend config, keeping everything else.
func (l *Library) PatchBackendConfig(dir string) error {
	file := path.Join(dir, BackendConfigPath)
	data, err := util.ReadFile(l.fs, file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	doc, err := tomlpatch.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	auth := l.settings.Auth
	hookTable := "auth.hook.custom_access_token"
	edits := []struct {
		table, key string
		value      any
	}{
		{"auth", "site_url", auth.SiteURL},
		{"auth", "additional_redirect_urls", auth.RedirectURLs},
		{hookTable, "enabled", true},
		{hookTable, "uri", "pg-functions://postgres/public/" + auth.HookFunction},
	}
	for _, e := range edits {
		if err := doc.Set(e.table, e.key, e.value); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}

	return l.WriteFile(file, doc.Bytes())
}
