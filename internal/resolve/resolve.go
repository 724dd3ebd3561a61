// Package resolve turns command-line input into a RunConfiguration. Each axis
// comes from its flag when present, from a prompt in interactive mode, and is
// a validation error in quiet mode.
package resolve

import (
	"context"
	"fmt"
	"strings"

	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/project"
)

// Input holds the raw command-line values. A value counts as supplied when
// its Set flag is true or it is non-empty; a supplied empty value is invalid.
type Input struct {
	Name            string
	NameSet         bool
	Architecture    string
	ArchitectureSet bool
	Template        string
	TemplateSet     bool

	Quiet   bool
	Verbose bool
	Force   bool
	DryRun  bool
}

// Prompter asks the user for values missing from the command line.
type Prompter interface {
	Name(ctx context.Context) (string, error)
	Architecture(ctx context.Context) (project.Architecture, error)
	Template(ctx context.Context) (project.TemplateType, error)
	// UIComponents asks whether every UI component should be installed.
	UIComponents(ctx context.Context) (project.UIComponents, error)
}

// Resolver fills in a RunConfiguration.
type Resolver struct {
	// Prompter is only consulted in interactive mode.
	Prompter Prompter

	// Interactive reports whether prompts can be shown. Defaults to
	// output.IsInteractive.
	Interactive func() bool

	// Cwd is the directory the project is created in.
	Cwd string
}

// Resolve resolves the name, architecture and template in that order, then
// the UI component choice, and derives the target path.
func (r *Resolver) Resolve(ctx context.Context, in Input) (project.RunConfiguration, error) {
	cfg := project.RunConfiguration{
		Quiet:   in.Quiet,
		Verbose: in.Verbose,
		Force:   in.Force,
		DryRun:  in.DryRun,
	}

	name, err := r.name(ctx, in)
	if err != nil {
		return project.RunConfiguration{}, err
	}
	cfg.Name = name

	arch, err := r.architecture(ctx, in)
	if err != nil {
		return project.RunConfiguration{}, err
	}
	cfg.Architecture = arch

	tmpl, err := r.template(ctx, in)
	if err != nil {
		return project.RunConfiguration{}, err
	}
	cfg.Template = tmpl

	ui, err := r.uiComponents(ctx, cfg)
	if err != nil {
		return project.RunConfiguration{}, err
	}
	cfg.UIComponents = ui

	cfg.TargetPath, err = project.TargetPathFor(r.Cwd, cfg.Name)
	if err != nil {
		return project.RunConfiguration{}, err
	}

	output.Debug("resolved configuration",
		"name", cfg.Name,
		"architecture", cfg.Architecture,
		"template", cfg.Template,
		"ui", cfg.UIComponents,
		"target", cfg.TargetPath,
	)
	return cfg, nil
}

func (r *Resolver) name(ctx context.Context, in Input) (string, error) {
	if name := strings.TrimSpace(in.Name); name != "" {
		return name, nil
	}
	if in.NameSet {
		return "", oerrors.NewValidationError("project name must not be empty", "", "name", "")
	}
	if err := r.canPrompt(in.Quiet, "project name", "pass the project name as the first argument"); err != nil {
		return "", err
	}
	name, err := r.Prompter.Name(ctx)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", oerrors.NewValidationError("project name must not be empty", "", "name", "")
	}
	return name, nil
}

func (r *Resolver) architecture(ctx context.Context, in Input) (project.Architecture, error) {
	if in.ArchitectureSet || in.Architecture != "" {
		arch := project.Architecture(in.Architecture)
		if !arch.IsValid() {
			return "", invalidValue("architecture", in.Architecture, project.ValidArchitectures())
		}
		return arch, nil
	}
	if err := r.canPrompt(in.Quiet, "architecture", "pass --architecture"); err != nil {
		return "", err
	}
	return r.Prompter.Architecture(ctx)
}

func (r *Resolver) template(ctx context.Context, in Input) (project.TemplateType, error) {
	if in.TemplateSet || in.Template != "" {
		tmpl := project.TemplateType(in.Template)
		if !tmpl.IsValid() {
			return "", invalidValue("template", in.Template, project.ValidTemplates())
		}
		return tmpl, nil
	}
	if err := r.canPrompt(in.Quiet, "template", "pass --template"); err != nil {
		return "", err
	}
	return r.Prompter.Template(ctx)
}

// uiComponents only asks for the single-app opinionated combination. Quiet
// runs install everything; the monorepo web app only gets a minimal init.
func (r *Resolver) uiComponents(ctx context.Context, cfg project.RunConfiguration) (project.UIComponents, error) {
	if cfg.Architecture != project.SingleApp || !cfg.IsOpinionated() {
		return project.MinimalComponents, nil
	}
	if cfg.Quiet {
		return project.AllComponents, nil
	}
	if err := r.canPrompt(false, "UI components", ""); err != nil {
		return "", err
	}
	return r.Prompter.UIComponents(ctx)
}

// canPrompt rejects a missing axis in quiet mode or without a terminal.
func (r *Resolver) canPrompt(quiet bool, axis, hint string) error {
	if quiet {
		return oerrors.NewValidationError(axis+" is required in quiet mode", "", axis, hint)
	}
	interactive := r.Interactive
	if interactive == nil {
		interactive = output.IsInteractive
	}
	if !interactive() || r.Prompter == nil {
		return oerrors.NewValidationError(
			fmt.Sprintf("%s is missing and stdin is not a terminal", axis), "", axis,
			"run with --quiet and pass every option explicitly")
	}
	return nil
}

func invalidValue(axis, value string, valid []string) error {
	return oerrors.NewValidationError(
		fmt.Sprintf("invalid %s %q", axis, value), "", axis,
		fmt.Sprintf("valid values: %s", strings.Join(valid, ", ")))
}
