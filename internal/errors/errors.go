// Package errors provides sentinel errors, structured error details and exit
// codes for the supanext CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes. The CLI only distinguishes success from failure.
const (
	// ExitSuccess indicates success, help/version output or a cancelled prompt.
	ExitSuccess = 0

	// ExitFailure indicates a validation failure or a failed required step.
	ExitFailure = 1
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a bad flag value, a missing quiet-mode axis or a
	// colliding target directory.
	ErrValidation = errors.New("validation error")

	// ErrCancelled indicates the user dismissed an interactive prompt.
	// It is not a failure.
	ErrCancelled = errors.New("cancelled")

	// ErrNotFound indicates a file the pipeline depends on could not be located.
	ErrNotFound = errors.New("not found")

	// ErrStepFailed indicates a required provisioning step failed.
	ErrStepFailed = errors.New("step failed")
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file or directory the error refers to (optional).
	Location string

	// Field is the flag or setting name (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Summary renders the error on a single line, for quiet mode.
func (e *DetailError) Summary() string {
	s := e.Type + ": " + e.Message
	if e.Hint != "" {
		s += " (" + e.Hint + ")"
	}
	return s
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// ExitError wraps an error with the process exit code it should produce.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed records whether the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError maps an error to a process exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, ErrCancelled) {
		return ExitSuccess
	}
	return ExitFailure
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewStepError reports a failed required step. The message always states that
// partial output was left behind, since nothing is rolled back.
func NewStepError(step, targetPath string, cause error) error {
	return &DetailError{
		Type:     "provisioning failed",
		Message:  fmt.Sprintf("step %q failed: %v", step, cause),
		Location: targetPath,
		Hint:     fmt.Sprintf("partial project created at %s; re-run with --force to retry", targetPath),
		Cause:    errors.Join(ErrStepFailed, cause),
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// SingleLine returns the one-line rendering of err used in quiet mode.
func SingleLine(err error) string {
	var detail *DetailError
	if errors.As(err, &detail) {
		return detail.Summary()
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}
