// Package steps is the library of provisioning actions. Every action is either
// a file write, whose content depends only on the run configuration, or an
// external command run in an explicit directory.
package steps

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/supanext/cli/internal/config"
	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/runner"
	"github.com/supanext/cli/internal/templates"
	"github.com/supanext/cli/internal/version"
)

// Library runs provisioning actions for one project. File paths are relative
// to the project root; command directories are absolute.
type Library struct {
	fs       billy.Filesystem
	runner   runner.Runner
	cfg      project.RunConfiguration
	settings *config.Settings
	pm       runner.PackageManager
}

// New creates a library writing through fsys, which must be rooted at cfg.TargetPath.
func New(fsys billy.Filesystem, r runner.Runner, cfg project.RunConfiguration, settings *config.Settings) *Library {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Library{
		fs:       fsys,
		runner:   r,
		cfg:      cfg,
		settings: settings,
	}
}

// NewForTarget creates a library on the OS filesystem rooted at cfg.TargetPath.
func NewForTarget(r runner.Runner, cfg project.RunConfiguration, settings *config.Settings) *Library {
	return New(osfs.New(cfg.TargetPath), r, cfg, settings)
}

// Config returns the run configuration.
func (l *Library) Config() project.RunConfiguration {
	return l.cfg
}

// PackageManager returns the package manager chosen by Preflight.
func (l *Library) PackageManager() runner.PackageManager {
	return l.pm
}

// SetPackageManager overrides the package manager, for callers that skip Preflight.
func (l *Library) SetPackageManager(pm runner.PackageManager) {
	l.pm = pm
}

// Abs returns the absolute path of a project-relative path.
func (l *Library) Abs(rel string) string {
	return filepath.Join(l.cfg.TargetPath, filepath.FromSlash(rel))
}

// Preflight checks that node and the package manager are installed and
// records the package manager for later steps.
func (l *Library) Preflight(ctx context.Context) error {
	out, err := l.runner.Output(ctx, runner.Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		return fmt.Errorf("node is required: %w", err)
	}
	node := string(trimNewline(out))
	output.Debug("detected node", "version", node)
	if !version.NodeSupported(node) {
		output.Warn("node may be too old for the generated project", "version", node, "status", version.SupportMessage(node))
	}

	pm, err := runner.DetectPackageManager(ctx, l.runner, l.settings.PackageManager)
	if err != nil {
		return err
	}
	l.pm = pm
	return nil
}

// renderer builds the payload renderer for the current package manager.
func (l *Library) renderer() *templates.Renderer {
	return templates.NewRenderer(templates.NewData(l.cfg, l.settings, l.pm))
}

// WriteFile writes data to rel, creating parent directories. An existing file
// is truncated.
func (l *Library) WriteFile(rel string, data []byte) error {
	if err := l.fs.MkdirAll(path.Dir(rel), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := util.WriteFile(l.fs, rel, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	output.Debug("wrote file", "path", rel, "bytes", len(data))
	return nil
}

// File pairs a project-relative destination with the payload rendered into it.
type File struct {
	Path    string
	Payload string
}

// WritePayloads renders and writes files in order.
func (l *Library) WritePayloads(files ...File) error {
	r := l.renderer()
	for _, f := range files {
		data, err := r.Render(f.Payload)
		if err != nil {
			return err
		}
		if err := l.WriteFile(f.Path, data); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether rel exists in the project.
func (l *Library) Exists(rel string) bool {
	_, err := l.fs.Stat(rel)
	return err == nil
}

// removeIfExists deletes rel when present.
func (l *Library) removeIfExists(rel string) error {
	if err := l.fs.Remove(rel); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", rel, err)
	}
	return nil
}

// run executes a streamed command.
func (l *Library) run(ctx context.Context, cmd runner.Command) error {
	return l.runner.Run(ctx, cmd)
}

// exec runs a package spec once through the package manager, in dir.
func (l *Library) exec(ctx context.Context, dir, spec string, args ...string) error {
	return l.run(ctx, l.pm.Exec(l.Abs(dir), spec, args...))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func parentAndBase(abs string) (string, string) {
	return filepath.Dir(abs), filepath.Base(abs)
}
