package steps

import (
	"context"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/supanext/cli/internal/manifest"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/templates"
)

// workspaceGlobs lists the workspace package locations.
var workspaceGlobs = []string{project.AppsDir + "/*", project.PackagesDir + "/*"}

// pnpmWorkspace is the pnpm-workspace.yaml document.
type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// WriteWorkspace writes the root manifest, the pnpm workspace declaration and
// the shared package with its own compiler config.
func (l *Library) WriteWorkspace() error {
	root := manifest.FromMap(map[string]any{
		"name":       project.PackageName(l.cfg.Name),
		"version":    "0.1.0",
		"private":    true,
		"workspaces": toAny(workspaceGlobs),
	})
	if err := manifest.Write(l.fs, "package.json", root); err != nil {
		return err
	}

	ws, err := yaml.Marshal(pnpmWorkspace{Packages: workspaceGlobs})
	if err != nil {
		return fmt.Errorf("encoding pnpm-workspace.yaml: %w", err)
	}
	if err := l.WriteFile("pnpm-workspace.yaml", ws); err != nil {
		return err
	}

	shared := manifest.FromMap(map[string]any{
		"name":    l.cfg.SharedPackageName(),
		"version": "0.1.0",
		"private": true,
		"main":    "src/index.ts",
		"types":   "src/index.ts",
		"scripts": map[string]any{
			"typecheck": "tsc --noEmit",
		},
		"devDependencies": map[string]any{
			"typescript": "^5",
		},
	})
	if err := manifest.Write(l.fs, path.Join(project.SharedDir, "package.json"), shared); err != nil {
		return err
	}

	sharedTS := manifest.FromMap(map[string]any{
		"compilerOptions": map[string]any{
			"target":           "ES2022",
			"module":           "ESNext",
			"moduleResolution": "Bundler",
			"strict":           true,
			"composite":        true,
			"declaration":      true,
			"skipLibCheck":     true,
			"rootDir":          "src",
			"outDir":           "dist",
		},
		"include": []any{"src"},
	})
	if err := manifest.Write(l.fs, path.Join(project.SharedDir, "tsconfig.json"), sharedTS); err != nil {
		return err
	}

	return l.WritePayloads(File{path.Join(project.SharedDir, "src/index.ts"), templates.SharedIndex})
}

// WriteRootTSConfig writes the root compiler config referencing every app and
// the shared package.
func (l *Library) WriteRootTSConfig() error {
	doc := manifest.FromMap(map[string]any{
		"files": []any{},
		"references": []any{
			map[string]any{"path": project.WebAppDir},
			map[string]any{"path": project.MobileAppDir},
			map[string]any{"path": project.SharedDir},
		},
	})
	return manifest.Write(l.fs, "tsconfig.json", doc)
}

// CreateAppsDir creates the directory the app generators write into.
func (l *Library) CreateAppsDir() error {
	if err := l.fs.MkdirAll(project.AppsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", project.AppsDir, err)
	}
	return nil
}

// LinkSharedPackage lets the app at dir import the shared package: a path
// alias in its tsconfig and a workspace dependency in its manifest.
func (l *Library) LinkSharedPackage(dir string) error {
	shared := l.cfg.SharedPackageName()
	rel := relativeTo(dir, project.SharedDir)

	err := manifest.Edit(l.fs, path.Join(dir, "tsconfig.json"), false, func(d *manifest.Document) error {
		if err := d.Set([]any{rel + "/src/index.ts"}, "compilerOptions", "paths", shared); err != nil {
			return err
		}
		return d.Set([]any{rel + "/src/*"}, "compilerOptions", "paths", shared+"/*")
	})
	if err != nil {
		return err
	}

	return manifest.Edit(l.fs, path.Join(dir, "package.json"), false, func(d *manifest.Document) error {
		return d.Set(l.workspaceVersion(), "dependencies", shared)
	})
}

// WriteMetroConfig lets the mobile bundler watch the workspace root.
func (l *Library) WriteMetroConfig(dir string) error {
	return l.WritePayloads(File{path.Join(dir, "metro.config.js"), templates.MobileMetroConfig})
}

// InstallWorkspace installs dependencies for every workspace package.
func (l *Library) InstallWorkspace(ctx context.Context) error {
	return l.run(ctx, l.pm.Install(l.Abs(".")))
}

// workspaceVersion is the dependency range linking a workspace package.
func (l *Library) workspaceVersion() string {
	if l.pm.Name == "npm" {
		return "*"
	}
	return "workspace:*"
}

// relativeTo returns the slash path from dir to target, both project-relative.
func relativeTo(dir, target string) string {
	up := ""
	for d := path.Clean(dir); d != "." && d != "/"; d = path.Dir(d) {
		up += "../"
	}
	return path.Clean(up + target)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
