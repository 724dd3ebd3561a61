// Package plan describes what a run would create without touching the
// filesystem or starting any process.
package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/project"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats returns the supported output formats.
func ValidFormats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// Entry is a top-level path the run would create.
type Entry struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Plan is the dry-run report.
type Plan struct {
	Name         string   `json:"name"`
	Architecture string   `json:"architecture"`
	Template     string   `json:"template"`
	UIComponents string   `json:"uiComponents"`
	TargetPath   string   `json:"targetPath"`
	Force        bool     `json:"force"`
	Files        []Entry  `json:"files"`
	Steps        []string `json:"steps"`
}

// New builds the plan for cfg. stepNames lists the provisioning steps in order.
func New(cfg project.RunConfiguration, stepNames []string) *Plan {
	return &Plan{
		Name:         cfg.Name,
		Architecture: string(cfg.Architecture),
		Template:     string(cfg.Template),
		UIComponents: string(cfg.UIComponents),
		TargetPath:   cfg.TargetPath,
		Force:        cfg.Force,
		Files:        files(cfg),
		Steps:        stepNames,
	}
}

// files lists the paths the architecture produces. Directories end in "/".
func files(cfg project.RunConfiguration) []Entry {
	web := cfg.WebDir()
	var entries []Entry
	add := func(p, desc string) {
		entries = append(entries, Entry{Path: p, Description: desc})
	}

	if cfg.IsMonorepo() {
		add("package.json", "workspace manifest")
		add("pnpm-workspace.yaml", "workspace packages")
		add("tsconfig.json", "project references")
		add(project.WebAppDir+"/", "Next.js web app")
		add(project.MobileAppDir+"/", "Expo mobile app")
		add(project.SharedDir+"/", "shared package "+cfg.SharedPackageName())
	} else {
		add("package.json", "Next.js app manifest")
		add("next.config.ts", "standalone build output")
		add("src/lib/supabase/", "Supabase clients")
	}

	add(path.Join(web, "src/types")+"/", "type definitions")
	add(path.Join(web, "supabase")+"/", "Supabase config and migrations")

	if cfg.IsOpinionated() {
		ui := "UI components (" + string(cfg.UIComponents) + ")"
		add(path.Join(web, "src/components/ui")+"/", ui)
		if cfg.IsMonorepo() {
			add(path.Join(project.MobileAppDir, "components/ui")+"/", "mobile UI components")
		}
	}

	add("README.md", "project overview")
	add("CLAUDE.md", "AI assistant context")
	add("DEPLOYMENT.md", "deployment guide")

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// Write renders the plan in format.
func (p *Plan) Write(w io.Writer, format string) error {
	switch format {
	case "", FormatText:
		_, err := io.WriteString(w, p.Text(output.GetStyles()))
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
	}
}

// Text renders the human-readable plan: the resolved configuration, the file
// tree and the ordered step list.
func (p *Plan) Text(styles *output.Styles) string {
	var b strings.Builder

	b.WriteString(styles.Bold.Render("Dry run: nothing will be written"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Project", styles.Noun.Render(p.Name)},
		{"Architecture", p.Architecture},
		{"Template", p.Template},
		{"UI components", p.UIComponents},
		{"Target", styles.Noun.Render(p.TargetPath)},
	}
	if p.Force {
		rows = append(rows, [2]string{"Force", styles.Warning.Render("existing directory will be reused")})
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-14s %s\n", row[0]+":", row[1])
	}
	b.WriteString("\n")

	tree := make(map[string]string, len(p.Files))
	for _, f := range p.Files {
		tree[f.Path] = f.Description
	}
	b.WriteString(output.RenderFileTree(p.Name, tree, styles))

	if len(p.Steps) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Bold.Render("Steps"))
		b.WriteString("\n")
		for i, s := range p.Steps {
			fmt.Fprintf(&b, "  %2d. %s\n", i+1, s)
		}
	}
	return b.String()
}
