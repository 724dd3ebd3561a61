// Package cmd provides the supanext command.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supanext/cli/internal/config"
	oerrors "github.com/supanext/cli/internal/errors"
	"github.com/supanext/cli/internal/guard"
	"github.com/supanext/cli/internal/output"
	"github.com/supanext/cli/internal/plan"
	"github.com/supanext/cli/internal/project"
	"github.com/supanext/cli/internal/provision"
	"github.com/supanext/cli/internal/resolve"
	"github.com/supanext/cli/internal/runner"
	"github.com/supanext/cli/internal/steps"
)

// Deps are the collaborators the command talks to. Tests replace them.
type Deps struct {
	Prompter    resolve.Prompter
	Interactive func() bool
	NewRunner   func(quiet bool) runner.Runner
	NewLibrary  func(r runner.Runner, cfg project.RunConfiguration, settings *config.Settings) *steps.Library
	Getwd       func() (string, error)
}

// DefaultDeps returns the production collaborators.
func DefaultDeps() Deps {
	return Deps{
		Prompter:    resolve.HuhPrompter{},
		Interactive: output.IsInteractive,
		NewRunner: func(quiet bool) runner.Runner {
			return runner.NewExecRunner(quiet)
		},
		NewLibrary: steps.NewForTarget,
		Getwd:      os.Getwd,
	}
}

type rootOptions struct {
	template     string
	architecture string
	quiet        bool
	force        bool
	verbose      bool
	dryRun       bool
	version      bool
	configFile   string
	outputFormat string
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(DefaultDeps())
}

// NewRootCmdWithDeps creates the root command with explicit collaborators.
func NewRootCmdWithDeps(deps Deps) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "supanext [project-name]",
		Short: "Scaffold a Next.js + Supabase project",
		Long: `supanext creates a Next.js project backed by Supabase, either as a single
web app or as a monorepo with an Expo mobile app and a shared package.

Missing options are asked for interactively. With --quiet nothing is asked
and every option must be given on the command line.

Examples:
  # Ask for everything
  supanext

  # Single web app with the minimal template
  supanext my-app -a nextjs-only -t bare

  # Monorepo for CI, no prompts
  supanext my-app -a monorepo -t opinionated --quiet

  # Show what would be created
  supanext my-app -a monorepo -t bare --dry-run -o yaml`,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts, deps)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.template, "template", "t", "",
		fmt.Sprintf("Template (%s)", strings.Join(project.ValidTemplates(), ", ")))
	flags.StringVarP(&opts.architecture, "architecture", "a", "",
		fmt.Sprintf("Architecture (%s)", strings.Join(project.ValidArchitectures(), ", ")))
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Never prompt; require every option as a flag")
	flags.BoolVarP(&opts.force, "force", "f", false, "Generate into an existing directory")
	flags.BoolVar(&opts.verbose, "verbose", false, "Log every external command before it runs")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the plan without writing anything")
	flags.BoolVarP(&opts.version, "version", "v", false, "Show version information")
	flags.StringVar(&opts.configFile, "config", "", "Path to settings file (env: SUPANEXT_CONFIG)")
	flags.StringVarP(&opts.outputFormat, "output", "o", plan.FormatText,
		fmt.Sprintf("Dry-run output format (%s)", strings.Join(plan.ValidFormats(), ", ")))

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		verr := oerrors.NewValidationError(err.Error(), "", "", "run 'supanext --help' for usage")
		return failure(c, opts.quiet || quietRequested(cliArgs()), verr)
	})

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions, deps Deps) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.version {
		return printVersion(ctx, cmd.OutOrStdout(), deps.NewRunner(true))
	}

	output.SetupLogging(output.LogConfig{Verbose: opts.verbose, Quiet: opts.quiet})

	fail := func(err error) error {
		return failure(cmd, opts.quiet, err)
	}

	if !slices.Contains(plan.ValidFormats(), opts.outputFormat) {
		return fail(oerrors.NewValidationError(
			fmt.Sprintf("invalid output format %q", opts.outputFormat), "", "output",
			fmt.Sprintf("valid values: %s", strings.Join(plan.ValidFormats(), ", "))))
	}

	settings, settingsPath, err := config.LoadSettings(opts.configFile)
	if err != nil {
		return fail(err)
	}
	output.Debug("loaded settings", "path", settingsPath, "packageManager", settings.PackageManager)

	cwd, err := deps.Getwd()
	if err != nil {
		return fail(fmt.Errorf("getting working directory: %w", err))
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	resolver := &resolve.Resolver{Prompter: deps.Prompter, Interactive: deps.Interactive, Cwd: cwd}
	cfg, err := resolver.Resolve(ctx, resolve.Input{
		Name:            name,
		NameSet:         len(args) > 0,
		Architecture:    opts.architecture,
		ArchitectureSet: cmd.Flags().Changed("architecture"),
		Template:        opts.template,
		TemplateSet:     cmd.Flags().Changed("template"),
		Quiet:           opts.quiet,
		Verbose:         opts.verbose,
		Force:           opts.force,
		DryRun:          opts.dryRun,
	})
	if errors.Is(err, oerrors.ErrCancelled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Operation cancelled.")
		return &oerrors.ExitError{Code: oerrors.ExitSuccess, Err: err, Printed: true}
	}
	if err != nil {
		return fail(err)
	}

	if err := guard.Check(cfg); err != nil {
		if !cfg.Quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "Operation cancelled.")
		}
		return fail(err)
	}

	lib := deps.NewLibrary(deps.NewRunner(cfg.Quiet), cfg, settings)

	if cfg.DryRun {
		p := plan.New(cfg, provision.NewFlow(lib).Names())
		if err := p.Write(cmd.OutOrStdout(), opts.outputFormat); err != nil {
			return fail(err)
		}
		return nil
	}

	result, err := provision.Provision(ctx, lib)
	if err != nil {
		return fail(err)
	}

	printSummary(cfg, lib.PackageManager(), result)
	return nil
}

// failure wraps err with its exit code. Quiet runs report it here on a single
// line; otherwise main prints the full report.
func failure(cmd *cobra.Command, quiet bool, err error) error {
	exitErr := &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err}
	if quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), oerrors.SingleLine(err))
		exitErr.Printed = true
	}
	return exitErr
}

// quietRequested reports whether args ask for quiet mode. Flag errors abort
// parsing, so a -q after the offending flag is never bound to the option.
func quietRequested(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--":
			return false
		case arg == "--quiet", arg == "--quiet=true":
			return true
		case len(arg) > 1 && arg[0] == '-' && arg[1] != '-':
			// short flag cluster such as -fq; a value flag swallows the rest
			for _, r := range arg[1:] {
				if r == 'q' {
					return true
				}
				if strings.ContainsRune("tao", r) {
					break
				}
			}
		}
	}
	return false
}

func cliArgs() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}
