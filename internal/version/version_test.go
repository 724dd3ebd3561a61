package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion, "GoVersion should be populated")
	require.NotEmpty(t, info.Version, "Version should be populated")
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc123",
		BuildDate: "2026-01-29",
		GoVersion: "go1.25",
	}

	str := info.String()

	assert.Contains(t, str, "supanext")
	assert.Contains(t, str, "v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
}

func TestNodeSupported(t *testing.T) {
	tests := []struct {
		version string
		want    bool
		message string
	}{
		{"v20.11.1", true, "supported"},
		{"18.0.0", true, "supported"},
		{"v16.20.2", false, "unsupported - requires v18 or newer"},
		{"garbage", false, "unsupported - invalid version format"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeSupported(tt.version))
			assert.Equal(t, tt.message, SupportMessage(tt.version))
		})
	}
}

func TestExtractVersion(t *testing.T) {
	v, err := extractVersion("v22.3.0\n")
	require.NoError(t, err)
	assert.Equal(t, "v22.3.0", v)

	v, err = extractVersion("22.3.0-nightly2024")
	require.NoError(t, err)
	assert.Equal(t, "v22.3.0-nightly2024", v)

	_, err = extractVersion("command not found")
	assert.Error(t, err)
}

func TestNodeInfoString(t *testing.T) {
	assert.Contains(t, NodeInfo{}.String(), "not found")

	info := NodeInfo{Version: "v16.0.0", Path: "/usr/bin/node", Found: true, Message: "unsupported - requires v18 or newer"}
	assert.Contains(t, info.String(), "v16.0.0 (unsupported - requires v18 or newer)")

	full := FullVersionString(Info{Version: "v1.2.3"}, NodeInfo{Version: "v20.0.0", Path: "/n", Found: true, Supported: true})
	assert.Contains(t, full, "v1.2.3")
	assert.Contains(t, full, "Node.js:\n  Version: v20.0.0 (supported)")
}
