package middleware

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// DefaultMaxBodySize is the largest request body accepted, 10 MiB.
const DefaultMaxBodySize int64 = 10_485_760

// BodyLimitOptions configures the request body size limit.
type BodyLimitOptions struct {
	// MaxSize is the largest accepted body in bytes.
	MaxSize int64 `json:"max-size" mapstructure:"max-size"`

	// SkipPaths are exact paths exempt from the limit.
	SkipPaths []string `json:"skip-paths" mapstructure:"skip-paths"`
}

// NewBodyLimitOptions returns the 10 MiB default.
func NewBodyLimitOptions() *BodyLimitOptions {
	return &BodyLimitOptions{
		MaxSize:   DefaultMaxBodySize,
		SkipPaths: []string{},
	}
}

func (o *BodyLimitOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Int64Var(&o.MaxSize, options.Join(prefixes...)+"body-limit.max-size", o.MaxSize, "Maximum request body size in bytes.")
	fs.StringSliceVar(&o.SkipPaths, options.Join(prefixes...)+"body-limit.skip-paths", o.SkipPaths, "Skip paths for body limit middleware.")
}

func (o *BodyLimitOptions) Validate() []error {
	if o == nil {
		return nil
	}
	if o.MaxSize <= 0 {
		return []error{errors.New("body limit max-size must be positive")}
	}
	return nil
}
