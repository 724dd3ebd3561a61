// Package project defines the run configuration resolved before provisioning:
// the project name, the architecture and template axes, and the paths derived
// from them.
package project

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Architecture selects the shape of the generated project.
type Architecture string

const (
	// SingleApp generates a single Next.js application.
	SingleApp Architecture = "nextjs-only"

	// Monorepo generates a workspace with web and mobile apps and a shared package.
	Monorepo Architecture = "monorepo"
)

// ValidArchitectures returns all valid architecture values.
func ValidArchitectures() []string {
	return []string{string(Monorepo), string(SingleApp)}
}

// IsValid checks if the architecture is a known value. Matching is case-sensitive.
func (a Architecture) IsValid() bool {
	switch a {
	case SingleApp, Monorepo:
		return true
	default:
		return false
	}
}

// Description returns the prompt label for the architecture.
func (a Architecture) Description() string {
	switch a {
	case SingleApp:
		return "Next.js only: a single web app backed by Supabase"
	case Monorepo:
		return "Monorepo: Next.js web + Expo mobile + shared package"
	default:
		return string(a)
	}
}

// TemplateType selects how much tooling the generated project carries.
type TemplateType string

const (
	// Bare installs only what the stack needs to run.
	Bare TemplateType = "bare"

	// Opinionated adds UI components, validation, state management and formatting.
	Opinionated TemplateType = "opinionated"
)

// ValidTemplates returns all valid template values.
func ValidTemplates() []string {
	return []string{string(Bare), string(Opinionated)}
}

// IsValid checks if the template type is a known value. Matching is case-sensitive.
func (t TemplateType) IsValid() bool {
	switch t {
	case Bare, Opinionated:
		return true
	default:
		return false
	}
}

// Description returns the prompt label for the template type.
func (t TemplateType) Description() string {
	switch t {
	case Bare:
		return "Bare: minimal dependencies"
	case Opinionated:
		return "Opinionated: shadcn/ui, zod, zustand, prettier"
	default:
		return string(t)
	}
}

// UIComponents selects how much of the UI component library is installed.
type UIComponents string

const (
	// AllComponents installs every component the UI generator offers.
	AllComponents UIComponents = "all"

	// MinimalComponents only initializes the UI generator.
	MinimalComponents UIComponents = "minimal"
)

// RunConfiguration is the fully resolved input to a provisioning run.
// It is passed by value and never mutated after resolution.
type RunConfiguration struct {
	Name         string
	Architecture Architecture
	Template     TemplateType
	UIComponents UIComponents

	Quiet   bool
	Verbose bool
	Force   bool
	DryRun  bool

	// TargetPath is the absolute directory the project is created in.
	TargetPath string
}

// IsOpinionated reports whether the opinionated template was selected.
func (c RunConfiguration) IsOpinionated() bool {
	return c.Template == Opinionated
}

// IsMonorepo reports whether the monorepo architecture was selected.
func (c RunConfiguration) IsMonorepo() bool {
	return c.Architecture == Monorepo
}

// TargetPathFor derives the target path for name relative to cwd.
func TargetPathFor(cwd, name string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(cwd, name))
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}
	return abs, nil
}

// Relative paths inside a generated project.
const (
	WebAppDir    = "apps/web"
	MobileAppDir = "apps/mobile"
	SharedDir    = "packages/shared"
	AppsDir      = "apps"
	PackagesDir  = "packages"
)

// WebDir returns the web app directory relative to the project root:
// "." for a single app, apps/web in a monorepo.
func (c RunConfiguration) WebDir() string {
	if c.IsMonorepo() {
		return WebAppDir
	}
	return "."
}

// SharedPackageName returns the npm name of the shared workspace package.
func (c RunConfiguration) SharedPackageName() string {
	return "@" + PackageName(c.Name) + "/shared"
}

// PackageName converts a project name into a valid npm package name.
func PackageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-._")
	if out == "" {
		return "app"
	}
	return out
}

// Scheme converts a project name into a deep-link URL scheme.
func Scheme(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out[0] >= '0' && out[0] <= '9' {
		out = "app" + out
	}
	return out
}
