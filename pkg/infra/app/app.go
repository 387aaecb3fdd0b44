// Package app provides the command line shell of a service, built with
// Cobra, Viper and Pflag.
//
// The shell registers the flags of every configuration section, loads the
// sections from a YAML file, the environment and the flags, then hands a
// config.Provider to the run function.
//
// Usage:
//
//	app.NewApp(
//	    app.WithName("master"),
//	    app.WithDescription("Tenant master service"),
//	    app.WithRunFunc(func(ctx context.Context, p config.Provider) error {
//	        return bootstrap.Run(ctx, module(p))
//	    }),
//	).Run()
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kart-io/version"
	"github.com/spf13/cobra"

	"github.com/kart-io/launchpad/pkg/infra/config"
)

// App is the main application structure.
type App struct {
	name        string
	shortDesc   string
	description string
	sections    *config.Sections
	runFunc     RunFunc
	cmd         *cobra.Command
	args        cobra.PositionalArgs
	silence     bool
	noVersion   bool
}

// RunFunc is the application's run function.
type RunFunc func(ctx context.Context, provider config.Provider) error

// Option configures an App.
type Option func(*App)

// WithName sets the application name. It also names the config file and
// prefixes environment variables.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithShortDescription sets the short description.
func WithShortDescription(desc string) Option {
	return func(a *App) {
		a.shortDesc = desc
	}
}

// WithDescription sets the long description.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithSections replaces the default sections whose flags are registered.
func WithSections(s *config.Sections) Option {
	return func(a *App) {
		a.sections = s
	}
}

// WithRunFunc sets the run function.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithArgs sets the positional args validation.
func WithArgs(args cobra.PositionalArgs) Option {
	return func(a *App) {
		a.args = args
	}
}

// WithSilence disables usage and error printing.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoVersion disables the version flag.
func WithNoVersion() Option {
	return func(a *App) {
		a.noVersion = true
	}
}

// NewApp creates a new application instance.
func NewApp(opts ...Option) *App {
	a := &App{
		name: filepath.Base(os.Args[0]),
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.sections == nil {
		a.sections = config.NewSections()
	}

	a.buildCommand()
	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:   a.name,
		Short: a.shortDesc,
		Long:  a.description,
		RunE:  a.runCommand,
		Args:  a.args,
		// usage is noise on runtime errors; --help prints it
		SilenceUsage: true,
	}
	if a.silence {
		cmd.SilenceErrors = true
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	if !a.noVersion {
		version.AddFlags(cmd.PersistentFlags())
	}
	cmd.PersistentFlags().BoolP("help", "h", false, "Help for "+a.name)

	a.sections.AddFlags(cmd.Flags())
	a.cmd = cmd
}

func (a *App) runCommand(cmd *cobra.Command, _ []string) error {
	if !a.noVersion {
		version.PrintAndExitIfRequested()
	}

	configFile, _ := cmd.Flags().GetString("config")
	loaded, err := config.NewLoader(a.name).Load(configFile, a.sections, cmd.Flags())
	if err != nil {
		return err
	}
	if _, err := loaded.WithDefaults(); err != nil {
		return fmt.Errorf("apply config defaults: %w", err)
	}

	if a.runFunc == nil {
		return nil
	}
	return a.runFunc(cmd.Context(), config.NewProvider(loaded))
}

// Execute runs the command with args until the run function returns or ctx
// is done.
func (a *App) Execute(ctx context.Context, args ...string) error {
	a.cmd.SetArgs(args)
	return a.cmd.ExecuteContext(ctx)
}

// Run executes the application with the process arguments and exits with
// status 1 on failure.
func (a *App) Run() {
	if err := a.cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command returns the cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
