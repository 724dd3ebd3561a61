package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategy(t *testing.T) {
	primaryErr := errors.New("cli unavailable")
	fallbackErr := errors.New("install failed")

	tests := []struct {
		name         string
		primary      error
		fallback     error
		wantFallback bool
		wantDegraded bool
		wantErr      bool
	}{
		{name: "primary succeeds", primary: nil, wantFallback: false},
		{name: "primary fails, fallback succeeds", primary: primaryErr, fallback: nil, wantFallback: true, wantDegraded: true},
		{name: "both fail", primary: primaryErr, fallback: fallbackErr, wantFallback: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallbackRan := false
			s := Strategy{
				Name:    "install mobile UI components",
				Primary: func(context.Context) error { return tt.primary },
				Fallback: func(context.Context) error {
					fallbackRan = true
					return tt.fallback
				},
			}

			err := s.Run(context.Background())
			assert.Equal(t, tt.wantFallback, fallbackRan)

			var degraded *DegradedError
			switch {
			case tt.wantErr:
				require.Error(t, err)
				assert.False(t, errors.As(err, &degraded))
				assert.True(t, errors.Is(err, primaryErr))
				assert.True(t, errors.Is(err, fallbackErr))
			case tt.wantDegraded:
				require.True(t, errors.As(err, &degraded))
				assert.Equal(t, primaryErr, degraded.Err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestStrategy_FallbackFailureAbortsPipeline(t *testing.T) {
	after := false
	s := Strategy{
		Name:     "install mobile UI components",
		Primary:  func(context.Context) error { return errors.New("primary") },
		Fallback: func(context.Context) error { return errors.New("fallback") },
	}
	p := NewPipeline("/work/app", s.Step(), Step{Name: "after", Required: true, Run: func(context.Context) error {
		after = true
		return nil
	}})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.False(t, after)
}
