// Package middleware holds the options of the global HTTP middleware chain.
package middleware

import (
	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// Options groups the global middleware settings. CORS is configured on the
// app section instead, since it is part of the mandatory app policy.
type Options struct {
	SecurityHeaders *SecurityHeadersOptions `json:"security-headers" mapstructure:"security-headers"`
	RequestID       *RequestIDOptions       `json:"request-id" mapstructure:"request-id"`
	BodyLimit       *BodyLimitOptions       `json:"body-limit" mapstructure:"body-limit"`
}

// NewOptions returns middleware options with defaults.
func NewOptions() *Options {
	return &Options{
		SecurityHeaders: NewSecurityHeadersOptions(),
		RequestID:       NewRequestIDOptions(),
		BodyLimit:       NewBodyLimitOptions(),
	}
}

// AddFlags adds flags for every middleware section.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefixes = append(prefixes, "middleware")
	o.SecurityHeaders.AddFlags(fs, prefixes...)
	o.RequestID.AddFlags(fs, prefixes...)
	o.BodyLimit.AddFlags(fs, prefixes...)
}

// Validate validates every middleware section.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	errs = append(errs, o.SecurityHeaders.Validate()...)
	errs = append(errs, o.RequestID.Validate()...)
	errs = append(errs, o.BodyLimit.Validate()...)
	return errs
}

var _ options.IOptions = (*Options)(nil)
