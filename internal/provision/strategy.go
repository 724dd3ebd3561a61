package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/supanext/cli/internal/output"
)

// Strategy is a two-tier action: when Primary fails, Fallback runs
// unconditionally. A Fallback failure is a hard failure.
type Strategy struct {
	Name     string
	Primary  func(ctx context.Context) error
	Fallback func(ctx context.Context) error
}

// Run executes the strategy. It returns nil when Primary succeeds, a
// *DegradedError carrying the primary failure when Fallback succeeds, and an
// error joining both failures otherwise.
func (s Strategy) Run(ctx context.Context) error {
	primaryErr := s.Primary(ctx)
	if primaryErr == nil {
		return nil
	}

	output.Warn("primary path failed, using fallback", "strategy", s.Name, "error", primaryErr)

	if err := s.Fallback(ctx); err != nil {
		return errors.Join(
			fmt.Errorf("%s primary: %w", s.Name, primaryErr),
			fmt.Errorf("%s fallback: %w", s.Name, err),
		)
	}
	return &DegradedError{Err: primaryErr}
}

// Step wraps the strategy as a required step. Primary failure alone is
// recorded as a warning.
func (s Strategy) Step() Step {
	return Step{Name: s.Name, Required: true, Run: s.Run}
}
