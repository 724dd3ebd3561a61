package steps

import (
	"path"

	"github.com/supanext/cli/internal/manifest"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/templates"
)

// ScriptSet selects which package.json scripts an app receives.
type ScriptSet string

const (
	// WebScripts are the Next.js and backend scripts.
	WebScripts ScriptSet = "web"

	// MobileScripts are the Expo scripts.
	MobileScripts ScriptSet = "mobile"

	// RootScripts delegate to workspace packages.
	RootScripts ScriptSet = "root"
)

// Scripts returns the script entries for set.
func (l *Library) Scripts(set ScriptSet) map[string]string {
	switch set {
	case MobileScripts:
		return map[string]string{
			"start":     "expo start",
			"android":   "expo start --android",
			"ios":       "expo start --ios",
			"web":       "expo start --web",
			"typecheck": "tsc --noEmit",
		}
	case RootScripts:
		web := path.Base(project.WebAppDir)
		mobile := path.Base(project.MobileAppDir)
		scripts := map[string]string{
			"dev":        l.pm.Filter(web, "dev"),
			"dev:mobile": l.pm.Filter(mobile, "start"),
			"build":      l.pm.Filter(web, "build"),
		}
		for _, s := range []string{"db:start", "db:stop", "db:reset", "db:link", "db:push", "db:types"} {
			scripts[s] = l.pm.Filter(web, s)
		}
		if l.cfg.IsOpinionated() {
			scripts["format"] = l.pm.Filter(web, "format")
		}
		return scripts
	default:
		scripts := map[string]string{
			"dev":       "next dev",
			"build":     "next build",
			"start":     "next start",
			"lint":      "next lint",
			"typecheck": "tsc --noEmit",
			"db:start":  "supabase start",
			"db:stop":   "supabase stop",
			"db:reset":  "supabase db reset",
			"db:link":   "supabase link",
			"db:push":   "supabase db push",
			"db:types":  "supabase gen types typescript --local > src/types/database.ts",
		}
		if l.cfg.IsOpinionated() {
			scripts["format"] = "prettier --write ."
		}
		return scripts
	}
}

// MergeScripts merges the script set into the manifest at dir. The root
// manifest is created when missing; app manifests must exist.
func (l *Library) MergeScripts(dir string, set ScriptSet) error {
	scripts := l.Scripts(set)
	create := set == RootScripts
	return manifest.Edit(l.fs, path.Join(dir, "package.json"), create, func(d *manifest.Document) error {
		return d.MergeScripts(scripts)
	})
}

// WriteDeploymentGuide writes DEPLOYMENT.md at the project root.
func (l *Library) WriteDeploymentGuide() error {
	return l.WritePayloads(File{"DEPLOYMENT.md", templates.DocsDeploymentGuide})
}

// WriteDocs writes the README and the AI assistant context file at the project root.
func (l *Library) WriteDocs() error {
	return l.WritePayloads(
		File{"README.md", templates.DocsReadme},
		File{"CLAUDE.md", templates.DocsAIContext},
	)
}
