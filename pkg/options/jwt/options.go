// Package jwt provides the optional bearer token section.
//
// Configuration Example (YAML):
//
//	jwt:
//	  key: "your-secret-key-min-32-chars-long"
//	  signing-method: "HS256"
//	  expired: "2h"
//	  issuer: "launchpad"
//	  roles-claim: "roles"
package jwt

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

const (
	// DefaultSigningMethod is the default JWT signing algorithm.
	DefaultSigningMethod = "HS256"

	// DefaultExpired is the default token expiration time.
	DefaultExpired = 2 * time.Hour

	// DefaultIssuer is the default token issuer.
	DefaultIssuer = "launchpad"

	// DefaultRolesClaim is the claim holding the role list.
	DefaultRolesClaim = "roles"

	// MinKeyLength is the minimum required key length for security.
	MinKeyLength = 32
)

// SupportedSigningMethods contains all supported JWT signing algorithms.
var SupportedSigningMethods = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Options contains JWT configuration.
type Options struct {
	// Key is the HMAC secret used to sign and verify tokens.
	Key string `json:"key" mapstructure:"key"`

	// SigningMethod is the JWT signing algorithm.
	SigningMethod string `json:"signing-method" mapstructure:"signing-method"`

	// Expired is the token expiration duration.
	Expired time.Duration `json:"expired" mapstructure:"expired"`

	// Issuer is the token issuer (iss claim). Empty disables the check.
	Issuer string `json:"issuer" mapstructure:"issuer"`

	// Audience is the expected aud claim. Empty disables the check.
	Audience string `json:"audience" mapstructure:"audience"`

	// RolesClaim names the claim carrying [{"roleType": ...}] entries.
	RolesClaim string `json:"roles-claim" mapstructure:"roles-claim"`
}

var _ options.IOptions = (*Options)(nil)

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		SigningMethod: DefaultSigningMethod,
		Expired:       DefaultExpired,
		Issuer:        DefaultIssuer,
		RolesClaim:    DefaultRolesClaim,
	}
}

// Validate validates the JWT options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if !SupportedSigningMethods[o.SigningMethod] {
		errs = append(errs, fmt.Errorf("unsupported signing method: %s", o.SigningMethod))
	}
	if len(o.Key) < MinKeyLength {
		errs = append(errs, fmt.Errorf("jwt key must be at least %d characters, got: %d", MinKeyLength, len(o.Key)))
	}
	if o.Expired <= 0 {
		errs = append(errs, fmt.Errorf("expired must be positive, got: %v", o.Expired))
	}
	return errs
}

// Complete fills in default values for unset fields.
func (o *Options) Complete() error {
	if o.SigningMethod == "" {
		o.SigningMethod = DefaultSigningMethod
	}
	if o.Expired == 0 {
		o.Expired = DefaultExpired
	}
	if o.RolesClaim == "" {
		o.RolesClaim = DefaultRolesClaim
	}
	return nil
}

// AddFlags adds flags for JWT options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "jwt."
	fs.StringVar(&o.Key, prefix+"key", o.Key, "JWT signing key (min 32 chars)")
	fs.StringVar(&o.SigningMethod, prefix+"signing-method", o.SigningMethod, "JWT signing algorithm (HS256, HS384, HS512)")
	fs.DurationVar(&o.Expired, prefix+"expired", o.Expired, "JWT token expiration duration")
	fs.StringVar(&o.Issuer, prefix+"issuer", o.Issuer, "JWT token issuer (iss claim)")
	fs.StringVar(&o.Audience, prefix+"audience", o.Audience, "JWT token audience (aud claim)")
	fs.StringVar(&o.RolesClaim, prefix+"roles-claim", o.RolesClaim, "Claim carrying the role list")
}
