// Package provision runs the ordered provisioning flows. A failed required
// step stops the run and leaves partial output in place; a failed optional
// step is recorded as a warning and the run continues.
package provision

import (
	"context"
	"errors"
	"fmt"

	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/output"
)

// Step is one provisioning action.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string

	// Required steps abort the run on failure.
	Required bool

	// Silent steps produce no terminal output of their own and may run under a spinner.
	Silent bool

	// Run performs the action.
	Run func(ctx context.Context) error
}

// StepWarning records a tolerated failure.
type StepWarning struct {
	Step string `json:"step"`
	Err  error  `json:"-"`

	// Message is Err rendered on one line.
	Message string `json:"message"`
}

// Result summarizes a completed run.
type Result struct {
	// Completed lists the steps that succeeded, in order.
	Completed []string `json:"completed"`

	// Warnings lists tolerated failures, in order.
	Warnings []StepWarning `json:"warnings"`
}

// DegradedError reports a step that reached its goal through a fallback.
// The pipeline records it as a warning even for required steps.
type DegradedError struct {
	Err error
}

// Error implements the error interface.
func (e *DegradedError) Error() string {
	return "degraded: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DegradedError) Unwrap() error {
	return e.Err
}

// Pipeline runs steps strictly in order.
type Pipeline struct {
	steps      []Step
	targetPath string
}

// NewPipeline creates a pipeline for a project at targetPath.
func NewPipeline(targetPath string, steps ...Step) *Pipeline {
	return &Pipeline{steps: steps, targetPath: targetPath}
}

// Steps returns the pipeline's steps.
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Names returns the step names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step once. A required failure returns a step error naming
// the partial project; the result so far is returned alongside it.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Completed: make([]string, 0, len(p.steps)),
		Warnings:  make([]StepWarning, 0),
	}

	for i, step := range p.steps {
		output.Info(step.Name, "step", fmt.Sprintf("%d/%d", i+1, len(p.steps)))

		err := p.runStep(ctx, step)

		var degraded *DegradedError
		switch {
		case err == nil:
			result.Completed = append(result.Completed, step.Name)
			output.Debug("step completed", "step", step.Name)
			output.Result("%s", output.FormatCheckmark(step.Name))

		case errors.As(err, &degraded):
			result.Completed = append(result.Completed, step.Name)
			result.Warnings = append(result.Warnings, newWarning(step.Name, degraded.Err))
			output.Warn("step used fallback", "step", step.Name, "error", oerrors.SingleLine(degraded.Err))
			output.Result("%s", output.FormatWarning(step.Name+" (fallback)"))

		case step.Required:
			output.Error("required step failed", "step", step.Name)
			return result, oerrors.NewStepError(step.Name, p.targetPath, err)

		default:
			result.Warnings = append(result.Warnings, newWarning(step.Name, err))
			output.Warn("optional step failed, continuing", "step", step.Name, "error", oerrors.SingleLine(err))
			output.Result("%s", output.FormatWarning(step.Name+" (skipped)"))
		}
	}

	return result, nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step) error {
	if step.Silent {
		return output.RunWithSpinner(ctx, func() error {
			return step.Run(ctx)
		}, output.WithTitle(step.Name))
	}
	return step.Run(ctx)
}

func newWarning(step string, err error) StepWarning {
	return StepWarning{Step: step, Err: err, Message: oerrors.SingleLine(err)}
}
