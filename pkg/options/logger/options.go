// Package logger provides the logger section: the kart-io/logger LogOption
// plus the colorize/prettyLogs/defaultLevel shorthands.
package logger

import (
	"fmt"
	"strings"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"github.com/kart-io/logger/option"
	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// Options wraps the logger option.LogOption with launchpad shorthands.
type Options struct {
	*option.LogOption `mapstructure:",squash"`

	// Colorize enables colored console output in development mode.
	Colorize bool `json:"colorize" mapstructure:"colorize"`

	// PrettyLogs switches the format to human-readable console output.
	PrettyLogs bool `json:"pretty-logs" mapstructure:"pretty-logs"`

	// DefaultLevel overrides Level when set (debug|info|warn|error).
	DefaultLevel string `json:"default-level" mapstructure:"default-level"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		LogOption:    option.DefaultLogOption(),
		DefaultLevel: "info",
	}
}

// AddFlags adds flags for logger options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "log."
	fs.StringVar(&o.Engine, prefix+"engine", o.Engine, "Logging engine (zap|slog)")
	fs.StringVar(&o.Format, prefix+"format", o.Format, "Log format (json|console)")
	fs.StringSliceVar(&o.OutputPaths, prefix+"output-paths", o.OutputPaths, "Output paths for logs")
	fs.BoolVar(&o.Development, prefix+"development", o.Development, "Enable development mode")
	fs.BoolVar(&o.DisableCaller, prefix+"disable-caller", o.DisableCaller, "Disable caller detection")
	fs.BoolVar(&o.DisableStacktrace, prefix+"disable-stacktrace", o.DisableStacktrace, "Disable stacktrace capture")
	fs.BoolVar(&o.Colorize, prefix+"colorize", o.Colorize, "Colorize console output")
	fs.BoolVar(&o.PrettyLogs, prefix+"pretty-logs", o.PrettyLogs, "Human-readable console format")
	fs.StringVar(&o.DefaultLevel, prefix+"level", o.DefaultLevel, "Log level (debug|info|warn|error)")
}

// Complete applies the shorthands to the underlying LogOption.
func (o *Options) Complete() error {
	if o.LogOption == nil {
		o.LogOption = option.DefaultLogOption()
	}
	if o.DefaultLevel != "" {
		o.Level = strings.ToUpper(o.DefaultLevel)
	}
	if o.PrettyLogs {
		o.Format = "console"
	}
	if o.Colorize && o.Format == "console" {
		o.Development = true
	}
	return nil
}

// Validate validates the logger options.
func (o *Options) Validate() []error {
	if o == nil || o.LogOption == nil {
		return nil
	}
	var errs []error
	if o.DefaultLevel != "" {
		if _, err := core.ParseLevel(o.DefaultLevel); err != nil {
			errs = append(errs, fmt.Errorf("invalid log level %q: %w", o.DefaultLevel, err))
		}
	}
	if err := o.LogOption.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// CreateLogger creates a new logger instance based on the options.
func (o *Options) CreateLogger() (core.Logger, error) {
	if err := o.Complete(); err != nil {
		return nil, err
	}
	return logger.New(o.LogOption)
}
