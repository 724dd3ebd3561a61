// Package templates provides the embedded file payloads written into generated
// projects and renders them.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/supanext/cli/internal/config"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/runner"
)

//go:embed files
var payloadFS embed.FS

// Payloads use <% %> delimiters because JSX and TypeScript sources are full of "{{".
const (
	leftDelim  = "<%"
	rightDelim = "%>"
)

// Payload names, relative to the embedded files directory without the .tmpl suffix.
const (
	WebEnv              = "web/env"
	WebSupabaseClient   = "web/supabase-client.ts"
	WebSupabaseServer   = "web/supabase-server.ts"
	WebSupabaseSession  = "web/supabase-middleware.ts"
	WebMiddleware       = "web/middleware.ts"
	WebTypes            = "web/types.ts"
	WebStore            = "web/app-store.ts"
	WebPrettierConfig   = "web/prettierrc"
	WebPrettierIgnore   = "web/prettierignore"
	WebNextConfig       = "web/next.config.ts"
	MobileEnv           = "mobile/env"
	MobileSupabase      = "mobile/supabase.ts"
	MobileLayout        = "mobile/layout.tsx"
	MobileIndex         = "mobile/index.tsx"
	MobileBabelConfig   = "mobile/babel.config.js"
	MobileMetroConfig   = "mobile/metro.config.js"
	MobileButton        = "mobile/ui/button.tsx"
	MobileText          = "mobile/ui/text.tsx"
	MobileCard          = "mobile/ui/card.tsx"
	SharedIndex         = "shared/index.ts"
	BackendSchema       = "backend/schema.sql"
	DocsReadme          = "docs/README.md"
	DocsAIContext       = "docs/CLAUDE.md"
	DocsDeploymentGuide = "docs/DEPLOYMENT.md"
)

// Data contains the values available to payloads.
type Data struct {
	// Name is the project name as given.
	Name string

	// PackageName is the npm-safe form of Name.
	PackageName string

	// DisplayName is Name in title case, e.g. "my-app" becomes "My App".
	DisplayName string

	// Scheme is the mobile deep-link scheme.
	Scheme string

	// SharedPackage is the npm name of the shared workspace package.
	SharedPackage string

	Architecture string
	Template     string
	Monorepo     bool
	Opinionated  bool

	// WebDir is the web app directory relative to the project root.
	WebDir string

	// PackageManager is the package manager executable.
	PackageManager string

	// HookFunction names the custom access token hook function.
	HookFunction string

	pm runner.PackageManager
}

// NewData builds payload data for a resolved run.
func NewData(cfg project.RunConfiguration, settings *config.Settings, pm runner.PackageManager) Data {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return Data{
		Name:           cfg.Name,
		PackageName:    project.PackageName(cfg.Name),
		DisplayName:    DisplayName(cfg.Name),
		Scheme:         project.Scheme(cfg.Name),
		SharedPackage:  cfg.SharedPackageName(),
		Architecture:   string(cfg.Architecture),
		Template:       string(cfg.Template),
		Monorepo:       cfg.IsMonorepo(),
		Opinionated:    cfg.IsOpinionated(),
		WebDir:         cfg.WebDir(),
		PackageManager: pm.Name,
		HookFunction:   settings.Auth.HookFunction,
		pm:             pm,
	}
}

// Run returns the command line running a package.json script.
func (d Data) Run(script string) string {
	return d.pm.RunScript(script)
}

// DisplayName converts a project name into a human-readable title.
func DisplayName(name string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name))
	if len(words) == 0 {
		return name
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Renderer handles template rendering with data substitution.
type Renderer struct {
	data Data
}

// NewRenderer creates a new renderer with the given template data.
func NewRenderer(data Data) *Renderer {
	return &Renderer{data: data}
}

// Data returns the renderer's template data.
func (r *Renderer) Data() Data {
	return r.data
}

// Render renders the named payload.
func (r *Renderer) Render(name string) ([]byte, error) {
	content, err := fs.ReadFile(payloadFS, path.Join("files", name+".tmpl"))
	if err != nil {
		return nil, fmt.Errorf("reading payload %s: %w", name, err)
	}

	out, err := r.RenderFile(name, content)
	if err != nil {
		return nil, fmt.Errorf("rendering payload %s: %w", name, err)
	}
	return out, nil
}

// RenderFile renders a single template file and returns the content.
func (r *Renderer) RenderFile(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).
		Delims(leftDelim, rightDelim).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

// ListPayloads returns all payload names.
func ListPayloads() ([]string, error) {
	var names []string

	err := fs.WalkDir(payloadFS, "files", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".tmpl") {
			return nil
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(p, "files/"), ".tmpl"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing payloads: %w", err)
	}

	return names, nil
}
