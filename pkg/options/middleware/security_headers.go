package middleware

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// SecurityHeadersOptions selects the response security headers.
type SecurityHeadersOptions struct {
	// EnableHSTS sets Strict-Transport-Security on encrypted requests.
	EnableHSTS            bool `json:"enable-hsts" mapstructure:"enable-hsts"`
	HSTSMaxAge            int  `json:"hsts-max-age" mapstructure:"hsts-max-age"`
	HSTSIncludeSubdomains bool `json:"hsts-include-subdomains" mapstructure:"hsts-include-subdomains"`

	// FrameOptionsValue is DENY or SAMEORIGIN. Empty omits the header.
	FrameOptionsValue string `json:"frame-options-value" mapstructure:"frame-options-value"`

	EnableContentTypeOptions bool `json:"enable-content-type-options" mapstructure:"enable-content-type-options"`

	// XSSProtectionValue is omitted when empty.
	XSSProtectionValue string `json:"xss-protection-value" mapstructure:"xss-protection-value"`

	ContentSecurityPolicy string `json:"content-security-policy" mapstructure:"content-security-policy"`
	ReferrerPolicy        string `json:"referrer-policy" mapstructure:"referrer-policy"`
}

// NewSecurityHeadersOptions returns the default header set.
func NewSecurityHeadersOptions() *SecurityHeadersOptions {
	return &SecurityHeadersOptions{
		EnableHSTS:               true,
		HSTSMaxAge:               31536000,
		HSTSIncludeSubdomains:    true,
		FrameOptionsValue:        "SAMEORIGIN",
		EnableContentTypeOptions: true,
		XSSProtectionValue:       "0",
		ReferrerPolicy:           "no-referrer",
	}
}

// AddFlags adds flags for the security headers to the specified FlagSet.
func (o *SecurityHeadersOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "security-headers."

	fs.BoolVar(&o.EnableHSTS, prefix+"enable-hsts", o.EnableHSTS, "Enable Strict-Transport-Security header on encrypted requests.")
	fs.IntVar(&o.HSTSMaxAge, prefix+"hsts-max-age", o.HSTSMaxAge, "HSTS max-age in seconds.")
	fs.BoolVar(&o.HSTSIncludeSubdomains, prefix+"hsts-include-subdomains", o.HSTSIncludeSubdomains, "Include subdomains in HSTS.")
	fs.StringVar(&o.FrameOptionsValue, prefix+"frame-options-value", o.FrameOptionsValue, "X-Frame-Options header value (DENY, SAMEORIGIN).")
	fs.BoolVar(&o.EnableContentTypeOptions, prefix+"enable-content-type-options", o.EnableContentTypeOptions, "Enable X-Content-Type-Options header.")
	fs.StringVar(&o.XSSProtectionValue, prefix+"xss-protection-value", o.XSSProtectionValue, "X-XSS-Protection header value.")
	fs.StringVar(&o.ContentSecurityPolicy, prefix+"content-security-policy", o.ContentSecurityPolicy, "Content-Security-Policy header value.")
	fs.StringVar(&o.ReferrerPolicy, prefix+"referrer-policy", o.ReferrerPolicy, "Referrer-Policy header value.")
}

func (o *SecurityHeadersOptions) Validate() []error {
	if o == nil {
		return nil
	}
	switch o.FrameOptionsValue {
	case "", "DENY", "SAMEORIGIN":
		return nil
	default:
		return []error{fmt.Errorf("invalid X-Frame-Options value %q", o.FrameOptionsValue)}
	}
}
