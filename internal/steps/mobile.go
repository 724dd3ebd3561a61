package steps

import (
	"context"
	"path"

	"github.com/supanext/cli/internal/manifest"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/templates"
)

// routerPackages are installed into the mobile app through the framework's
// version-aware installer.
var routerPackages = []string{
	"expo-router",
	"react-native-safe-area-context",
	"react-native-screens",
	"expo-linking",
	"expo-constants",
	"expo-status-bar",
	"@supabase/supabase-js",
	"@react-native-async-storage/async-storage",
	"react-native-url-polyfill",
}

// fallbackUIPackages is the manual dependency set used when the mobile UI CLI fails.
var fallbackUIPackages = []string{
	"nativewind",
	"tailwindcss",
	"class-variance-authority",
	"clsx",
	"tailwind-merge",
}

// CreateMobileApp runs the mobile generator into dir.
func (l *Library) CreateMobileApp(ctx context.Context, dir string) error {
	parent, name := parentAndBase(l.Abs(dir))
	return l.run(ctx, l.pm.Exec(parent, l.settings.Tools.MobileGenerator, name, "--template", "blank-typescript", "--yes"))
}

// InstallMobileRouter installs the router package set into the mobile app.
func (l *Library) InstallMobileRouter(ctx context.Context, dir string) error {
	args := append([]string{"install"}, routerPackages...)
	return l.exec(ctx, dir, "expo", args...)
}

// WriteMobileRouter scaffolds the router layout and landing screen, points the
// manifest entry at the router, registers the router plugin and deep-link
// scheme, and rewrites the transpilation config.
func (l *Library) WriteMobileRouter(dir string) error {
	if err := l.WritePayloads(
		File{path.Join(dir, "app/_layout.tsx"), templates.MobileLayout},
		File{path.Join(dir, "app/index.tsx"), templates.MobileIndex},
		File{path.Join(dir, "lib/supabase.ts"), templates.MobileSupabase},
		File{path.Join(dir, ".env.example"), templates.MobileEnv},
		File{path.Join(dir, ".env.local"), templates.MobileEnv},
		File{path.Join(dir, "babel.config.js"), templates.MobileBabelConfig},
	); err != nil {
		return err
	}

	// The router entry replaces the generated root component.
	for _, stale := range []string{"App.tsx", "index.ts"} {
		if err := l.removeIfExists(path.Join(dir, stale)); err != nil {
			return err
		}
	}

	err := manifest.Edit(l.fs, path.Join(dir, "package.json"), false, func(d *manifest.Document) error {
		return d.Set("expo-router/entry", "main")
	})
	if err != nil {
		return err
	}

	return manifest.Edit(l.fs, path.Join(dir, "app.json"), true, func(d *manifest.Document) error {
		if err := d.AppendUnique("expo-router", "expo", "plugins"); err != nil {
			return err
		}
		return d.Set(project.Scheme(l.cfg.Name), "expo", "scheme")
	})
}

// InstallMobileUIAll is the primary mobile UI path: one CLI invocation adding
// every component.
func (l *Library) InstallMobileUIAll(ctx context.Context, dir string) error {
	return l.exec(ctx, dir, l.settings.Tools.MobileUIGenerator, "add", "--all", "--yes")
}

// InstallMobileUIFallback installs a smaller dependency set and writes minimal
// hand-written components.
func (l *Library) InstallMobileUIFallback(ctx context.Context, dir string) error {
	if err := l.run(ctx, l.pm.Add(l.Abs(dir), fallbackUIPackages...)); err != nil {
		return err
	}
	return l.WritePayloads(
		File{path.Join(dir, "components/ui/button.tsx"), templates.MobileButton},
		File{path.Join(dir, "components/ui/text.tsx"), templates.MobileText},
		File{path.Join(dir, "components/ui/card.tsx"), templates.MobileCard},
	)
}
