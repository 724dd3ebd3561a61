package provision

import (
	"context"

	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/steps"
)

// Provision builds the flow for the configured architecture and runs it.
func Provision(ctx context.Context, lib *steps.Library) (*Result, error) {
	return NewFlow(lib).Run(ctx)
}

// NewFlow returns the pipeline for the library's architecture.
func NewFlow(lib *steps.Library) *Pipeline {
	cfg := lib.Config()
	if cfg.IsMonorepo() {
		return NewPipeline(cfg.TargetPath, MonorepoSteps(lib)...)
	}
	return NewPipeline(cfg.TargetPath, SingleAppSteps(lib)...)
}

func preflight(lib *steps.Library) Step {
	return Step{Name: "check prerequisites", Required: true, Silent: true, Run: lib.Preflight}
}

// SingleAppSteps is the flow for a single Next.js app at the project root.
func SingleAppSteps(lib *steps.Library) []Step {
	const root = "."

	s := []Step{
		preflight(lib),
		{Name: "create web app", Required: true, Run: func(ctx context.Context) error {
			return lib.CreateWebApp(ctx, root)
		}},
		{Name: "verify project root", Required: true, Run: func(context.Context) error {
			return lib.VerifyAppRoot(root)
		}},
	}
	s = append(s, backendSteps(lib, root, true)...)
	s = append(s,
		Step{Name: "write deployment guide and scripts", Required: true, Run: func(context.Context) error {
			if err := lib.WriteDeploymentGuide(); err != nil {
				return err
			}
			return lib.MergeScripts(root, steps.WebScripts)
		}},
		Step{Name: "write README and AI context", Required: true, Run: func(context.Context) error {
			return lib.WriteDocs()
		}},
		Step{Name: "write build config", Required: true, Run: func(context.Context) error {
			return lib.WriteNextConfig(root)
		}},
	)
	return s
}

// backendSteps initializes the backend in the web app at dir and writes the
// web sources. In the single-app flow a missing migration aborts the run; the
// monorepo flow tolerates it.
func backendSteps(lib *steps.Library, dir string, migrationRequired bool) []Step {
	cfg := lib.Config()

	s := []Step{
		{Name: "initialize backend", Required: true, Run: func(ctx context.Context) error {
			return lib.InitBackend(ctx, dir)
		}},
		{Name: "install backend client", Required: true, Run: func(ctx context.Context) error {
			return lib.InstallBackendClient(ctx, dir)
		}},
	}

	if cfg.IsOpinionated() {
		all := cfg.UIComponents == project.AllComponents
		s = append(s,
			Step{Name: "install UI components", Required: false, Run: func(ctx context.Context) error {
				return lib.InstallUI(ctx, dir, all)
			}},
			Step{Name: "install validation library", Required: true, Run: func(ctx context.Context) error {
				return lib.InstallValidation(ctx, dir)
			}},
		)
	}

	s = append(s, Step{Name: "write web sources", Required: true, Run: func(context.Context) error {
		return lib.WriteWebSources(dir)
	}})

	if cfg.IsOpinionated() {
		s = append(s,
			Step{Name: "write state store", Required: false, Run: func(ctx context.Context) error {
				return lib.WriteStore(ctx, dir)
			}},
			Step{Name: "write format config", Required: false, Run: func(ctx context.Context) error {
				return lib.WriteFormatConfig(ctx, dir)
			}},
		)
	}

	s = append(s,
		Step{Name: "create initial migration", Required: migrationRequired, Run: func(ctx context.Context) error {
			return lib.CreateMigration(ctx, dir)
		}},
		Step{Name: "patch backend config", Required: false, Run: func(context.Context) error {
			return lib.PatchBackendConfig(dir)
		}},
	)
	return s
}

// MonorepoSteps is the flow for a workspace with web and mobile apps and a
// shared package.
func MonorepoSteps(lib *steps.Library) []Step {
	cfg := lib.Config()
	web, mobile := project.WebAppDir, project.MobileAppDir

	s := []Step{
		preflight(lib),
		{Name: "write workspace", Required: true, Run: func(context.Context) error {
			return lib.WriteWorkspace()
		}},
		{Name: "write root tsconfig", Required: true, Run: func(context.Context) error {
			return lib.WriteRootTSConfig()
		}},
		{Name: "create apps directory", Required: true, Run: func(context.Context) error {
			return lib.CreateAppsDir()
		}},
		{Name: "create web app", Required: true, Run: func(ctx context.Context) error {
			if err := lib.CreateWebApp(ctx, web); err != nil {
				return err
			}
			return lib.VerifyAppRoot(web)
		}},
		{Name: "create mobile app", Required: true, Run: func(ctx context.Context) error {
			if err := lib.CreateMobileApp(ctx, mobile); err != nil {
				return err
			}
			return lib.VerifyAppRoot(mobile)
		}},
		{Name: "install mobile router", Required: true, Run: func(ctx context.Context) error {
			return lib.InstallMobileRouter(ctx, mobile)
		}},
		{Name: "configure mobile router", Required: true, Run: func(context.Context) error {
			return lib.WriteMobileRouter(mobile)
		}},
	}

	if cfg.IsOpinionated() {
		s = append(s, MobileUIStrategy(lib, mobile).Step())
	}

	s = append(s,
		Step{Name: "link shared package", Required: true, Run: func(context.Context) error {
			if err := lib.LinkSharedPackage(web); err != nil {
				return err
			}
			if err := lib.LinkSharedPackage(mobile); err != nil {
				return err
			}
			if err := lib.WriteNextConfig(web); err != nil {
				return err
			}
			return lib.WriteMetroConfig(mobile)
		}},
		Step{Name: "install workspace dependencies", Required: true, Run: lib.InstallWorkspace},
	)

	s = append(s, backendSteps(lib, web, false)...)

	s = append(s,
		Step{Name: "write deployment guide and scripts", Required: true, Run: func(context.Context) error {
			if err := lib.WriteDeploymentGuide(); err != nil {
				return err
			}
			if err := lib.MergeScripts(".", steps.RootScripts); err != nil {
				return err
			}
			if err := lib.MergeScripts(web, steps.WebScripts); err != nil {
				return err
			}
			return lib.MergeScripts(mobile, steps.MobileScripts)
		}},
		Step{Name: "write README and AI context", Required: true, Run: func(context.Context) error {
			return lib.WriteDocs()
		}},
	)
	return s
}

// MobileUIStrategy installs mobile UI components with the UI CLI, falling back
// to a manual dependency set and hand-written component stubs.
func MobileUIStrategy(lib *steps.Library, dir string) Strategy {
	return Strategy{
		Name: "install mobile UI components",
		Primary: func(ctx context.Context) error {
			return lib.InstallMobileUIAll(ctx, dir)
		},
		Fallback: func(ctx context.Context) error {
			return lib.InstallMobileUIFallback(ctx, dir)
		},
	}
}
