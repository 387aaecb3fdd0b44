package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// DefaultRequestIDHeader is the inbound and echoed request id header.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDOptions defines request ID middleware options.
type RequestIDOptions struct {
	Header string `json:"header" mapstructure:"header"`
}

// NewRequestIDOptions creates default request ID middleware options.
func NewRequestIDOptions() *RequestIDOptions {
	return &RequestIDOptions{Header: DefaultRequestIDHeader}
}

// AddFlags adds flags for request ID options to the specified FlagSet.
func (o *RequestIDOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Header, options.Join(prefixes...)+"request-id.header", o.Header, "Request ID header name.")
}

// Validate validates the request ID options.
func (o *RequestIDOptions) Validate() []error {
	if o == nil {
		return nil
	}
	if o.Header == "" {
		return []error{errors.New("request ID header name is required")}
	}
	return nil
}
