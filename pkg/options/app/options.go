// Package app defines the mandatory application section: port, optional
// route prefix, API versioning and the CORS policy.
package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
	"github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/utils/validator"
)

const (
	// DefaultPort is used when neither the section nor PORT set one.
	DefaultPort = 3000

	// EnvProduction marks a production deployment.
	EnvProduction = "production"
)

// processEnv is read from the process environment as a fallback.
type processEnv struct {
	Port int    `env:"PORT"`
	Env  string `env:"APP_ENV" envDefault:"development"`
}

// Options is the app section.
type Options struct {
	// Prefix is prepended to every route, e.g. "api". No leading slash.
	Prefix string `json:"prefix" mapstructure:"prefix" validate:"urlprefix"`

	// Port is the listener port. Zero falls back to $PORT, then DefaultPort.
	Port int `json:"port" mapstructure:"port" validate:"gte=0,lte=65535"`

	// Env is the deployment environment; "production" marks requests encrypted.
	Env string `json:"env" mapstructure:"env"`

	// DefaultVersion is the API version used by the versioned route group.
	DefaultVersion string `json:"default-version" mapstructure:"default-version" validate:"omitempty,numeric"`

	CORS *middleware.CORSOptions `json:"cors" mapstructure:"cors"`
}

var _ options.IOptions = (*Options)(nil)

// NewOptions returns app options with defaults. Port stays zero so Complete
// can apply the environment fallback.
func NewOptions() *Options {
	return &Options{
		DefaultVersion: "1",
		CORS:           middleware.NewCORSOptions(),
	}
}

// AddFlags adds flags for the app section.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "app."
	fs.StringVar(&o.Prefix, prefix+"prefix", o.Prefix, "Global route prefix, e.g. api.")
	fs.IntVar(&o.Port, prefix+"port", o.Port, "Listener port. Falls back to $PORT, then 3000.")
	fs.StringVar(&o.Env, prefix+"env", o.Env, "Deployment environment. Falls back to $APP_ENV.")
	fs.StringVar(&o.DefaultVersion, prefix+"default-version", o.DefaultVersion, "Default API version for versioned routes.")
	if o.CORS == nil {
		o.CORS = middleware.NewCORSOptions()
	}
	o.CORS.AddFlags(fs, options.Join(prefixes...)+"app")
}

// Complete fills the port and environment from the process environment
// and defaults the API version.
func (o *Options) Complete() error {
	var pe processEnv
	if err := env.Parse(&pe); err != nil {
		return fmt.Errorf("parse app environment: %w", err)
	}
	if o.Port == 0 {
		o.Port = pe.Port
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Env == "" {
		o.Env = pe.Env
	}
	if o.DefaultVersion == "" {
		o.DefaultVersion = "1"
	}
	if o.CORS == nil {
		o.CORS = middleware.NewCORSOptions()
	}
	return nil
}

// Validate validates the app section.
func (o *Options) Validate() []error {
	if o == nil {
		return []error{fmt.Errorf("app section is required")}
	}
	var errs []error
	if ve := validator.StructWithLang(o, validator.LangEN); ve.HasErrors() {
		errs = append(errs, ve)
	}
	errs = append(errs, o.CORS.Validate()...)
	return errs
}

// IsProduction reports whether the app runs in production.
func (o *Options) IsProduction() bool {
	return o.Env == EnvProduction
}

// Addr returns the listen address on all interfaces.
func (o *Options) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", o.Port)
}
