package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/supanext/cli/internal/output"
)

// PackageManager knows how to express installs, one-off package executions and
// script invocations for one JavaScript package manager.
type PackageManager struct {
	// Name is the executable: pnpm, npm, yarn or bun.
	Name string

	// Version is the probed version, empty when not probed.
	Version string
}

// detectionOrder is the probe order when the preference is "auto".
var detectionOrder = []string{"pnpm", "bun", "yarn", "npm"}

// KnownPackageManagers returns all supported package manager names.
func KnownPackageManagers() []string {
	return []string{"pnpm", "npm", "yarn", "bun"}
}

// DetectPackageManager resolves the package manager to use. A preference other
// than "auto" is probed and must be present; "auto" picks the first manager
// whose silent version probe succeeds.
func DetectPackageManager(ctx context.Context, r Runner, preference string) (PackageManager, error) {
	candidates := detectionOrder
	if preference != "" && preference != "auto" {
		candidates = []string{preference}
	}

	for _, name := range candidates {
		out, err := r.Output(ctx, Command{Name: name, Args: []string{"--version"}})
		if err != nil {
			output.Debug("package manager probe failed", "name", name, "error", err)
			continue
		}
		pm := PackageManager{Name: name, Version: strings.TrimSpace(string(out))}
		output.Debug("detected package manager", "name", pm.Name, "version", pm.Version)
		return pm, nil
	}

	if len(candidates) == 1 {
		return PackageManager{}, fmt.Errorf("package manager %q not found in PATH", candidates[0])
	}
	return PackageManager{}, fmt.Errorf("no package manager found in PATH (tried %s)", strings.Join(candidates, ", "))
}

// Add returns the command installing pkgs into the package in dir.
func (pm PackageManager) Add(dir string, pkgs ...string) Command {
	verb := "add"
	if pm.Name == "npm" {
		verb = "install"
	}
	return Command{Name: pm.Name, Args: append([]string{verb}, pkgs...), Dir: dir}
}

// AddDev returns the command installing pkgs as dev dependencies.
func (pm PackageManager) AddDev(dir string, pkgs ...string) Command {
	cmd := pm.Add(dir, pkgs...)
	flag := "-D"
	if pm.Name == "npm" {
		flag = "--save-dev"
	}
	cmd.Args = append([]string{cmd.Args[0], flag}, cmd.Args[1:]...)
	return cmd
}

// Install returns the command installing every dependency of the workspace in dir.
func (pm PackageManager) Install(dir string) Command {
	return Command{Name: pm.Name, Args: []string{"install"}, Dir: dir}
}

// Exec returns the command fetching and running the package spec once,
// the equivalent of npx.
func (pm PackageManager) Exec(dir, spec string, args ...string) Command {
	switch pm.Name {
	case "pnpm":
		return Command{Name: "pnpm", Args: append([]string{"dlx", spec}, args...), Dir: dir}
	case "yarn":
		return Command{Name: "yarn", Args: append([]string{"dlx", spec}, args...), Dir: dir}
	case "bun":
		return Command{Name: "bunx", Args: append([]string{spec}, args...), Dir: dir}
	default:
		return Command{Name: "npx", Args: append([]string{"--yes", spec}, args...), Dir: dir}
	}
}

// RunScript returns the shell text that runs a package.json script, for docs
// and generated scripts.
func (pm PackageManager) RunScript(script string) string {
	if pm.Name == "npm" {
		return "npm run " + script
	}
	return pm.Name + " " + script
}

// Filter returns the shell text that runs script in one workspace package.
func (pm PackageManager) Filter(pkg, script string) string {
	switch pm.Name {
	case "pnpm":
		return fmt.Sprintf("pnpm --filter %s %s", pkg, script)
	case "yarn":
		return fmt.Sprintf("yarn workspace %s %s", pkg, script)
	case "bun":
		return fmt.Sprintf("bun run --filter %s %s", pkg, script)
	default:
		return fmt.Sprintf("npm run %s --workspace %s", script, pkg)
	}
}

// GeneratorFlag returns the flag telling create-next-app which package manager to use.
func (pm PackageManager) GeneratorFlag() string {
	return "--use-" + pm.Name
}
