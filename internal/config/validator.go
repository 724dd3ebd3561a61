package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// ValidationError represents a settings validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("settings validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validator validates settings against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new settings validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Settings"))
	if !def.Exists() {
		return nil, fmt.Errorf("schema does not define #Settings")
	}

	return &Validator{
		ctx:    ctx,
		schema: def,
	}, nil
}

// Validate validates the given settings.
func (v *Validator) Validate(s *Settings) error {
	var errs ValidationErrors

	value := v.ctx.Encode(s)
	if value.Err() != nil {
		return fmt.Errorf("encoding settings: %w", value.Err())
	}

	if err := v.schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		// A failed disjunction reports one error per branch; keep the first per field.
		seen := make(map[string]bool)
		for _, e := range cueerrors.Errors(err) {
			field := settingsField(e.Path())
			if seen[field] {
				continue
			}
			seen[field] = true

			format, args := e.Msg()
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf(format, args...),
			})
		}
	}

	// CUE only checks the scheme prefix; make sure the rest parses too
	if s.Auth.SiteURL != "" {
		if u, err := url.Parse(s.Auth.SiteURL); err != nil || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "auth.siteURL",
				Message: "must be an absolute URL with a host",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// settingsField renders a CUE error path relative to the settings document,
// dropping the schema definition it was unified against.
func settingsField(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}
