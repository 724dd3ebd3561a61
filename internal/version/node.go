package version

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/supanext/cli/internal/runner"
)

// nodeVersionRegex matches runtime version output like "v20.11.1".
var nodeVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// DetectNode finds the Node.js runtime and checks its version.
func DetectNode(ctx context.Context, r runner.Runner) NodeInfo {
	path, err := exec.LookPath("node")
	if err != nil {
		return NodeInfo{
			Found:   false,
			Message: "node not found in PATH",
		}
	}

	out, err := r.Output(ctx, runner.Command{Name: path, Args: []string{"--version"}})
	if err != nil {
		return NodeInfo{
			Path:    path,
			Found:   true,
			Message: "failed to get node version: " + err.Error(),
		}
	}

	version, err := extractVersion(string(out))
	if err != nil {
		return NodeInfo{
			Path:    path,
			Found:   true,
			Message: err.Error(),
		}
	}

	return NodeInfo{
		Version:   version,
		Path:      path,
		Found:     true,
		Supported: NodeSupported(version),
		Message:   SupportMessage(version),
	}
}

// extractVersion extracts the version number from runtime output.
func extractVersion(output string) (string, error) {
	match := nodeVersionRegex.FindString(output)
	if match == "" {
		return "", &versionParseError{output: strings.TrimSpace(output)}
	}

	if !strings.HasPrefix(match, "v") {
		match = "v" + match
	}
	return match, nil
}

// versionParseError indicates failure to parse runtime version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse node version from output: " + e.output
}
