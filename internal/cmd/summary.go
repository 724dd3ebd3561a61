package cmd

import (
	"fmt"
	"path"

	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/provision"
	"github.com/supanext/cli/internal/runner"
)

// printSummary reports the finished run and the commands to start working.
func printSummary(cfg project.RunConfiguration, pm runner.PackageManager, result *provision.Result) {
	output.Result("%s", output.FormatCheckmark(fmt.Sprintf("Created %s in %s", cfg.Name, cfg.TargetPath)))

	if len(result.Warnings) > 0 {
		output.Println("")
		output.Println(output.StyleSummary.Render(fmt.Sprintf("%d optional step(s) did not complete:", len(result.Warnings))))
		for _, w := range result.Warnings {
			output.Println("  " + output.FormatWarning(w.Step+": "+w.Message))
		}
	}

	output.Println("")
	output.Println(output.StyleSummary.Render("Next steps:"))
	for _, line := range nextSteps(cfg, pm) {
		output.Println("  " + line)
	}
}

func nextSteps(cfg project.RunConfiguration, pm runner.PackageManager) []string {
	env := path.Join(cfg.WebDir(), ".env.local")
	lines := []string{
		output.StyleNoun.Render("cd " + cfg.Name),
		"Add your Supabase URL and keys to " + output.StyleNoun.Render(env),
		output.StyleNoun.Render(pm.RunScript("db:start")) + "  start the local Supabase stack",
		output.StyleNoun.Render(pm.RunScript("dev")) + "  start the web app",
	}
	if cfg.IsMonorepo() {
		lines = append(lines,
			"Add your Supabase URL and anon key to "+output.StyleNoun.Render(path.Join(project.MobileAppDir, ".env.local")),
			output.StyleNoun.Render(pm.RunScript("dev:mobile"))+"  start the mobile app",
		)
	}
	return lines
}
