// Package migration locates migration files written by the backend CLI and
// replaces their body.
package migration

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/output"
)

// Dir is the migrations directory relative to an app root.
const Dir = "supabase/migrations"

// FindLatest returns the path of the most recent .sql file in dir whose name
// contains substring. Migration names start with a sortable timestamp, so the
// lexically greatest name is the newest; modification time breaks ties.
// Zero matches is a not-found error.
func FindLatest(fsys billy.Filesystem, dir, substring string) (string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}

	var matches []os.FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") || !strings.Contains(e.Name(), substring) {
			continue
		}
		matches = append(matches, e)
	}

	if len(matches) == 0 {
		return "", oerrors.NewNotFoundError(
			fmt.Sprintf("no migration matching %q", substring),
			dir,
			"the backend CLI did not create the migration file; run its migration command manually",
		)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Name() != matches[j].Name() {
			return matches[i].Name() > matches[j].Name()
		}
		return matches[i].ModTime().After(matches[j].ModTime())
	})

	return path.Join(dir, matches[0].Name()), nil
}

// ReplaceLatest overwrites the body of the newest migration matching substring
// and returns its path. Other files in dir are not touched.
func ReplaceLatest(fsys billy.Filesystem, dir, substring string, body []byte) (string, error) {
	file, err := FindLatest(fsys, dir, substring)
	if err != nil {
		return "", err
	}

	if err := util.WriteFile(fsys, file, body, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", file, err)
	}
	output.Debug("replaced migration body", "path", file, "bytes", len(body))
	return file, nil
}
