package http

import (
	"time"

	"github.com/kart-io/launchpad/pkg/infra/middleware"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
)

// Options configures the HTTP server.
type Options struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// MaxBodySize caps request bodies, in bytes.
	MaxBodySize int64
	// BodyLimitSkipPaths are path prefixes exempt from MaxBodySize.
	BodyLimitSkipPaths []string
	// RequestIDHeader is read and echoed for request ids.
	RequestIDHeader string
	// RequestID derives request ids. Nil uses the header or a fresh ULID.
	RequestID middleware.RequestIDFunc
}

// Option configures Options.
type Option func(*Options)

// NewOptions returns the server defaults.
func NewOptions() *Options {
	return &Options{
		Addr:              "0.0.0.0:3000",
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxBodySize:       mwopts.DefaultMaxBodySize,
		RequestIDHeader:   mwopts.DefaultRequestIDHeader,
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Options) { o.Addr = addr }
}

// WithMaxBodySize sets the request body cap.
func WithMaxBodySize(n int64) Option {
	return func(o *Options) { o.MaxBodySize = n }
}

// WithRequestID sets the request id header and derivation.
func WithRequestID(header string, fn middleware.RequestIDFunc) Option {
	return func(o *Options) {
		if header != "" {
			o.RequestIDHeader = header
		}
		o.RequestID = fn
	}
}

// WithMiddlewareOptions applies the body limit of the middleware section.
// The request id header stays fixed.
func WithMiddlewareOptions(mw *mwopts.Options) Option {
	return func(o *Options) {
		if mw == nil || mw.BodyLimit == nil {
			return
		}
		if mw.BodyLimit.MaxSize > 0 {
			o.MaxBodySize = mw.BodyLimit.MaxSize
		}
		o.BodyLimitSkipPaths = mw.BodyLimit.SkipPaths
	}
}
