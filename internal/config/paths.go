package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for supanext.
type Paths struct {
	// ConfigFile is the path to the settings file.
	ConfigFile string

	// HomeDir is the supanext config directory.
	HomeDir string
}

// DefaultPaths returns the default paths, rooted in the user config directory.
func DefaultPaths() (*Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(configDir, "supanext")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		HomeDir:    home,
	}, nil
}

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveConfigPath resolves the settings file path using precedence:
// (1) --config flag, (2) SUPANEXT_CONFIG env, (3) default path.
func ResolveConfigPath(flagValue string) (string, ConfigSource, error) {
	if flagValue != "" {
		path, err := ExpandPath(flagValue)
		return path, SourceFlag, err
	}
	if env := os.Getenv("SUPANEXT_CONFIG"); env != "" {
		path, err := ExpandPath(env)
		return path, SourceEnv, err
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", SourceDefault, err
	}
	return paths.ConfigFile, SourceDefault, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}
