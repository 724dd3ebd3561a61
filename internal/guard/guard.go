// Package guard checks the target directory before anything is written.
package guard

import (
	"fmt"
	"os"

	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/project"
)

// Check fails when the target path already exists, unless force is set. A
// regular file at the target path is always an error. Nothing is deleted.
func Check(cfg project.RunConfiguration) error {
	info, err := os.Stat(cfg.TargetPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", cfg.TargetPath, err)
	}

	if !info.IsDir() {
		return oerrors.NewValidationError(
			fmt.Sprintf("%s exists and is not a directory", cfg.TargetPath),
			cfg.TargetPath, "name",
			"choose a different project name")
	}

	if !cfg.Force {
		return oerrors.NewValidationError(
			fmt.Sprintf("directory %s already exists", cfg.TargetPath),
			cfg.TargetPath, "name",
			"use --force to generate into the existing directory")
	}

	if cfg.Verbose {
		output.Warn("directory already exists, continuing because of --force", "path", cfg.TargetPath)
	}
	return nil
}
