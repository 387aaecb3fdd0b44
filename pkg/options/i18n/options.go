// Package i18n defines the optional localization section.
package i18n

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
	"github.com/kart-io/launchpad/pkg/utils/validator"
)

// Options is the i18n section.
type Options struct {
	DefaultLanguage  string `json:"default-language" mapstructure:"default-language"`
	FallbackLanguage string `json:"fallback-language" mapstructure:"fallback-language"`
}

// NewOptions returns the documented fallback used when the section is absent.
func NewOptions() *Options {
	return &Options{
		DefaultLanguage:  validator.DefaultLanguage,
		FallbackLanguage: validator.DefaultLanguage,
	}
}

// Language returns the configured language, or the fallback when the
// configured one has no translator.
func (o *Options) Language() string {
	if o == nil {
		return validator.DefaultLanguage
	}
	if validator.Global().SupportsLanguage(o.DefaultLanguage) {
		return o.DefaultLanguage
	}
	if validator.Global().SupportsLanguage(o.FallbackLanguage) {
		return o.FallbackLanguage
	}
	return validator.DefaultLanguage
}

// AddFlags adds flags for the i18n section.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "i18n."
	fs.StringVar(&o.DefaultLanguage, prefix+"default-language", o.DefaultLanguage, "Language of validation messages (en|zh).")
	fs.StringVar(&o.FallbackLanguage, prefix+"fallback-language", o.FallbackLanguage, "Language used when the default has no translations.")
}

// Validate validates the i18n section.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	if o.FallbackLanguage != "" && !validator.Global().SupportsLanguage(o.FallbackLanguage) {
		return []error{fmt.Errorf("unsupported fallback language %q", o.FallbackLanguage)}
	}
	return nil
}

var _ options.IOptions = (*Options)(nil)
