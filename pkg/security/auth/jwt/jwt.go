// Package jwt verifies HMAC-signed bearer tokens and turns their claims into
// a roles.TokenPayload.
//
// Usage:
//
//	auth, err := jwt.New[RoleType](opts)
//	if err != nil {
//	    return err
//	}
//	router.Use(auth.Middleware())
//	router.GET("/admin", roles.RequireEach(checker, Admin), handler)
package jwt

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/oklog/ulid/v2"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	jwtopts "github.com/kart-io/launchpad/pkg/options/jwt"
	"github.com/kart-io/launchpad/pkg/security/authz/roles"
	"github.com/kart-io/launchpad/pkg/utils/errors"
	"github.com/kart-io/launchpad/pkg/utils/json"
)

const bearerPrefix = "bearer "

// Authenticator signs and verifies tokens whose roles claim holds role
// types of R.
type Authenticator[R comparable] struct {
	opts   *jwtopts.Options
	method jwt.SigningMethod
}

// New creates an Authenticator from completed, valid options.
func New[R comparable](opts *jwtopts.Options) (*Authenticator[R], error) {
	if opts == nil {
		return nil, errors.ErrConfigMissing.WithMessage("jwt options are required")
	}
	if err := opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete jwt options: %w", err)
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validate jwt options: %w", stderrors.Join(errs...))
	}

	method := jwt.GetSigningMethod(opts.SigningMethod)
	if method == nil {
		return nil, fmt.Errorf("unsupported signing method: %s", opts.SigningMethod)
	}
	return &Authenticator[R]{opts: opts, method: method}, nil
}

// Sign issues a token for subject holding roleTypes.
func (a *Authenticator[R]) Sign(subject string, roleTypes ...R) (string, error) {
	now := time.Now()
	list := make([]roles.Role[R], 0, len(roleTypes))
	for _, r := range roleTypes {
		list = append(list, roles.Role[R]{RoleType: r})
	}

	claims := jwt.MapClaims{
		"sub":             subject,
		"iat":             now.Unix(),
		"nbf":             now.Unix(),
		"exp":             now.Add(a.opts.Expired).Unix(),
		"jti":             ulid.Make().String(),
		a.opts.RolesClaim: list,
	}
	if a.opts.Issuer != "" {
		claims["iss"] = a.opts.Issuer
	}
	if a.opts.Audience != "" {
		claims["aud"] = a.opts.Audience
	}

	signed, err := jwt.NewWithClaims(a.method, claims).SignedString([]byte(a.opts.Key))
	if err != nil {
		return "", errors.ErrInternal.WithCause(err).WithMessage("failed to sign token")
	}
	return signed, nil
}

// Verify checks the signature and the registered claims of tokenString and
// extracts its payload. A token without the roles claim yields a payload
// with nil Roles.
func (a *Authenticator[R]) Verify(tokenString string) (*roles.TokenPayload[R], error) {
	if tokenString == "" {
		return nil, errors.ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(a.opts.Key), nil
	}, jwt.WithValidMethods([]string{a.method.Alg()}))
	if err != nil {
		return nil, mapParseError(err)
	}

	if a.opts.Issuer != "" && !claims.VerifyIssuer(a.opts.Issuer, true) {
		return nil, errors.ErrInvalidToken.WithMessage("unexpected token issuer")
	}
	if a.opts.Audience != "" && !claims.VerifyAudience(a.opts.Audience, true) {
		return nil, errors.ErrInvalidToken.WithMessage("unexpected token audience")
	}

	payload := &roles.TokenPayload[R]{}
	payload.Subject, _ = claims["sub"].(string)

	raw, ok := claims[a.opts.RolesClaim]
	if !ok || raw == nil {
		return payload, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.ErrInvalidToken.WithCause(err)
	}
	if err := json.Unmarshal(b, &payload.Roles); err != nil {
		return nil, errors.ErrInvalidToken.WithCause(err).WithMessage("malformed roles claim")
	}
	return payload, nil
}

// Middleware authenticates the bearer token of every request and stores
// the payload for roles.CurrentUser. Failures are attached to the request
// as 401 errors.
func (a *Authenticator[R]) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			_ = c.Error(errors.ErrUnauthorized)
			c.Abort()
			return
		}

		payload, err := a.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			infralogger.GetLogger(c.Request.Context()).Debugw("Token rejected", infralogger.ErrorFields(err)...)
			_ = c.Error(err)
			c.Abort()
			return
		}

		roles.SetPayload(c, payload)
		c.Request = c.Request.WithContext(infralogger.WithUserID(c.Request.Context(), payload.Subject))
		c.Next()
	}
}

func mapParseError(err error) *errors.Errno {
	switch {
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return errors.ErrInvalidToken.WithCause(err).WithMessages("Token expired", "令牌已过期")
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.ErrInvalidToken.WithCause(err).WithMessage("invalid signature")
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return errors.ErrInvalidToken.WithCause(err).WithMessage("malformed token")
	case stderrors.Is(err, jwt.ErrTokenNotValidYet):
		return errors.ErrInvalidToken.WithCause(err).WithMessage("token not valid yet")
	default:
		return errors.ErrInvalidToken.WithCause(err)
	}
}
