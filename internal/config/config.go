// Package config loads the tool settings: which package manager and external
// tool versions to use, and the auth values written into generated backend
// configuration. Settings never decide the project name, architecture or
// template; those come from flags and prompts only.
package config

// Settings holds tool settings.
// Loaded from ~/.config/supanext/config.yaml, validated against the embedded CUE schema.
type Settings struct {
	// PackageManager selects the package manager for installs and scripts.
	// One of auto, pnpm, npm, yarn, bun. Env: SUPANEXT_PACKAGE_MANAGER
	PackageManager string `mapstructure:"packageManager" json:"packageManager"`

	// Tools pins the external generators and CLIs invoked through the package runner.
	Tools ToolSettings `mapstructure:"tools" json:"tools"`

	// Auth holds the values patched into the backend configuration file.
	Auth AuthSettings `mapstructure:"auth" json:"auth"`

	// MigrationName is passed to the backend CLI's migration command and used
	// to locate the generated migration file afterwards.
	MigrationName string `mapstructure:"migrationName" json:"migrationName"`
}

// ToolSettings pins external tool package specs.
type ToolSettings struct {
	WebGenerator      string `mapstructure:"webGenerator" json:"webGenerator"`
	MobileGenerator   string `mapstructure:"mobileGenerator" json:"mobileGenerator"`
	BackendCLI        string `mapstructure:"backendCLI" json:"backendCLI"`
	UIGenerator       string `mapstructure:"uiGenerator" json:"uiGenerator"`
	MobileUIGenerator string `mapstructure:"mobileUIGenerator" json:"mobileUIGenerator"`
}

// AuthSettings holds the auth section values for the backend config file.
type AuthSettings struct {
	// SiteURL is written to auth.site_url.
	SiteURL string `mapstructure:"siteURL" json:"siteURL"`

	// RedirectURLs is written to auth.additional_redirect_urls.
	RedirectURLs []string `mapstructure:"redirectURLs" json:"redirectURLs"`

	// HookFunction names the Postgres function registered as the custom access token hook.
	HookFunction string `mapstructure:"hookFunction" json:"hookFunction"`
}

// DefaultSettings returns Settings with all default values populated.
func DefaultSettings() *Settings {
	return &Settings{
		PackageManager: "auto",
		Tools: ToolSettings{
			WebGenerator:      "create-next-app@latest",
			MobileGenerator:   "create-expo-app@latest",
			BackendCLI:        "supabase",
			UIGenerator:       "shadcn@latest",
			MobileUIGenerator: "@react-native-reusables/cli@latest",
		},
		Auth: AuthSettings{
			SiteURL:      "http://localhost:3000",
			RedirectURLs: []string{"http://localhost:3000/auth/callback", "http://127.0.0.1:3000/auth/callback"},
			HookFunction: "custom_access_token_hook",
		},
		MigrationName: "init_schema",
	}
}
