// Package version provides version information for the supanext CLI.
package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// MinNodeMajor is the oldest Node.js major version the generated projects support.
const MinNodeMajor = 18

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`
}

// NodeInfo describes the Node.js runtime found on PATH.
type NodeInfo struct {
	// Version is the runtime version, with a "v" prefix.
	Version string `json:"version"`

	// Path is the resolved executable path.
	Path string `json:"path"`

	// Supported indicates the major version is at least MinNodeMajor.
	Supported bool `json:"supported"`

	// Found indicates the runtime was found.
	Found bool `json:"found"`

	// Message explains an unsupported or undetectable runtime.
	Message string `json:"message,omitempty"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("supanext:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// NodeSupported reports whether version meets MinNodeMajor.
func NodeSupported(version string) bool {
	major, err := majorVersion(version)
	return err == nil && major >= MinNodeMajor
}

// SupportMessage explains whether version is supported.
func SupportMessage(version string) string {
	major, err := majorVersion(version)
	switch {
	case err != nil:
		return "unsupported - invalid version format"
	case major < MinNodeMajor:
		return fmt.Sprintf("unsupported - requires v%d or newer", MinNodeMajor)
	default:
		return "supported"
	}
}

func majorVersion(version string) (int, error) {
	version = strings.TrimPrefix(version, "v")
	major, _, _ := strings.Cut(version, ".")
	return strconv.Atoi(major)
}

// String returns a human-readable Node.js info string.
func (n NodeInfo) String() string {
	if !n.Found {
		return "  Version: not found\n  Path:    -"
	}

	status := "supported"
	if !n.Supported {
		status = n.Message
	}

	return fmt.Sprintf("  Version: %s (%s)\n  Path:    %s", n.Version, status, n.Path)
}

// FullVersionString returns complete version information including the Node.js runtime.
func FullVersionString(info Info, node NodeInfo) string {
	return fmt.Sprintf("%s\n\nNode.js:\n%s", info.String(), node.String())
}
