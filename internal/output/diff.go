package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// StructuralDiff computes a human-readable diff between two JSON or YAML
// documents. JSON is valid YAML, so patched manifests go through the same path.
// Returns "" when the documents are equivalent.
func StructuralDiff(before, after []byte, useColor bool) (string, error) {
	if len(bytes.TrimSpace(before)) == 0 && len(bytes.TrimSpace(after)) == 0 {
		return "", nil
	}

	from, err := parseInput("before", before)
	if err != nil {
		return "", fmt.Errorf("parsing original document: %w", err)
	}

	to, err := parseInput("after", after)
	if err != nil {
		return "", fmt.Errorf("parsing patched document: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing documents: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderReport(report, useColor)
}

// LogManifestDiff logs the structural diff of a patched file at debug level.
// Diff failures are logged and otherwise ignored.
func LogManifestDiff(path string, before, after []byte) {
	if !current.Verbose {
		return
	}

	diff, err := StructuralDiff(before, after, IsTTY() && !current.Quiet)
	if err != nil {
		Debug("could not diff manifest", "path", path, "error", err)
		return
	}
	if diff == "" {
		Debug("manifest unchanged", "path", path)
		return
	}
	Debug("patched manifest", "path", path)
	for _, line := range strings.Split(diff, "\n") {
		Debug("  " + line)
	}
}

func parseInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  name,
		Documents: docs,
	}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
