package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for supanext settings.
const envPrefix = "SUPANEXT"

// Loader handles loading and merging settings from defaults, file and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new settings loader with defaults and env bindings.
func NewLoader() *Loader {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("packageManager", defaults.PackageManager)
	v.SetDefault("tools.webGenerator", defaults.Tools.WebGenerator)
	v.SetDefault("tools.mobileGenerator", defaults.Tools.MobileGenerator)
	v.SetDefault("tools.backendCLI", defaults.Tools.BackendCLI)
	v.SetDefault("tools.uiGenerator", defaults.Tools.UIGenerator)
	v.SetDefault("tools.mobileUIGenerator", defaults.Tools.MobileUIGenerator)
	v.SetDefault("auth.siteURL", defaults.Auth.SiteURL)
	v.SetDefault("auth.redirectURLs", defaults.Auth.RedirectURLs)
	v.SetDefault("auth.hookFunction", defaults.Auth.HookFunction)
	v.SetDefault("migrationName", defaults.MigrationName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("packageManager", "SUPANEXT_PACKAGE_MANAGER")
	_ = v.BindEnv("auth.siteURL", "SUPANEXT_SITE_URL")
	_ = v.BindEnv("auth.redirectURLs", "SUPANEXT_REDIRECT_URLS")
	_ = v.BindEnv("migrationName", "SUPANEXT_MIGRATION_NAME")

	return &Loader{v: v}
}

// Load loads settings from configFile. A missing file is only an error when
// required is true (the path was given explicitly).
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string, required bool) (*Settings, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		l.v.SetConfigType("yaml")

		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
			if !missing || required {
				return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
			}
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	return &s, nil
}

// LoadSettings resolves the settings path from the --config flag, loads and
// validates the settings.
func LoadSettings(configFlag string) (*Settings, string, error) {
	path, source, err := ResolveConfigPath(configFlag)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path: %w", err)
	}

	s, err := NewLoader().Load(path, source != SourceDefault)
	if err != nil {
		return nil, path, err
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, path, err
	}
	if err := validator.Validate(s); err != nil {
		return nil, path, err
	}

	return s, path, nil
}
