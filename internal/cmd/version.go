package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/supanext/cli/internal/runner"
	"github.com/supanext/cli/internal/version"
)

// printVersion prints the CLI build information and the detected Node.js runtime.
func printVersion(ctx context.Context, w io.Writer, r runner.Runner) error {
	info := version.Get()
	node := version.DetectNode(ctx, r)
	_, err := fmt.Fprintln(w, version.FullVersionString(info, node))
	return err
}
