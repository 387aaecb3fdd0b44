// Package swagger defines the optional API documentation section.
package swagger

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// Options is the swagger section. Its absence disables documentation;
// Enabled=false keeps it configured but switched off.
type Options struct {
	Enabled     *bool  `json:"enabled" mapstructure:"enabled"`
	Path        string `json:"swagger-path" mapstructure:"swagger-path"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description" mapstructure:"description"`
	Version     string `json:"version" mapstructure:"version"`
}

// NewOptions returns swagger options with defaults.
func NewOptions() *Options {
	return &Options{
		Path:    "/docs",
		Title:   "API",
		Version: "1.0",
	}
}

// IsEnabled reports whether publication is switched on. Unset means enabled.
func (o *Options) IsEnabled() bool {
	return o.Enabled == nil || *o.Enabled
}

// NormalizedPath returns Path with a single leading slash and no trailing one.
func (o *Options) NormalizedPath() string {
	return "/" + strings.Trim(o.Path, "/")
}

// AddFlags adds flags for the swagger section.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "swagger."
	fs.StringVar(&o.Path, prefix+"swagger-path", o.Path, "Documentation path, appended to the app prefix.")
	fs.StringVar(&o.Title, prefix+"title", o.Title, "Documentation title.")
	fs.StringVar(&o.Description, prefix+"description", o.Description, "Documentation description.")
	fs.StringVar(&o.Version, prefix+"version", o.Version, "Documented API version.")
}

// Validate validates the swagger section.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	if strings.Trim(o.Path, "/") == "" {
		return []error{errors.New("swagger-path must not be empty")}
	}
	return nil
}

var _ options.IOptions = (*Options)(nil)
