package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/project"
)

// HuhPrompter asks questions with terminal forms.
type HuhPrompter struct{}

// Name prompts for the project name.
func (HuhPrompter) Name(ctx context.Context) (string, error) {
	var name string
	field := huh.NewInput().
		Title("Project name").
		Placeholder("my-app").
		Value(&name).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("project name is required")
			}
			return nil
		})
	return name, run(ctx, field)
}

// Architecture prompts for the architecture.
func (HuhPrompter) Architecture(ctx context.Context) (project.Architecture, error) {
	var arch project.Architecture
	field := huh.NewSelect[project.Architecture]().
		Title("Architecture").
		Options(
			huh.NewOption(project.SingleApp.Description(), project.SingleApp),
			huh.NewOption(project.Monorepo.Description(), project.Monorepo),
		).
		Value(&arch)
	return arch, run(ctx, field)
}

// Template prompts for the template type.
func (HuhPrompter) Template(ctx context.Context) (project.TemplateType, error) {
	var tmpl project.TemplateType
	field := huh.NewSelect[project.TemplateType]().
		Title("Template").
		Options(
			huh.NewOption(project.Bare.Description(), project.Bare),
			huh.NewOption(project.Opinionated.Description(), project.Opinionated),
		).
		Value(&tmpl)
	return tmpl, run(ctx, field)
}

// UIComponents asks whether every UI component should be installed.
func (HuhPrompter) UIComponents(ctx context.Context) (project.UIComponents, error) {
	all := true
	field := huh.NewConfirm().
		Title("Install all UI components?").
		Description("Choose no to only initialize the component library.").
		Affirmative("All").
		Negative("Minimal").
		Value(&all)
	if err := run(ctx, field); err != nil {
		return "", err
	}
	if all {
		return project.AllComponents, nil
	}
	return project.MinimalComponents, nil
}

// run shows a single-field form. Dismissing it is a cancellation.
func run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return oerrors.ErrCancelled
	}
	return err
}
