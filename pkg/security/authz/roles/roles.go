// Package roles decides whether a token payload carries the roles a route
// requires.
//
// Usage:
//
//	checker := roles.NewTokenChecker[RoleType](nil)
//	checker.HasEach([]RoleType{Admin}, payload)
//
// Decisions never fail: a payload without roles is treated as holding none
// and the condition is logged as a warning.
package roles

import (
	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
)

// Role is a single role entry of a token payload.
type Role[R comparable] struct {
	RoleType R `json:"roleType"`
}

// TokenPayload is the part of a verified token the checker reads. A nil
// Roles slice means the token carried no roles claim.
type TokenPayload[R comparable] struct {
	Subject string    `json:"sub,omitempty"`
	Roles   []Role[R] `json:"roles"`
}

// Checker evaluates role requirements against a payload.
type Checker[R comparable] interface {
	// HasEach reports whether every required role is present.
	HasEach(required []R, payload *TokenPayload[R]) bool
	// HasAny reports whether at least one required role is present.
	HasAny(required []R, payload *TokenPayload[R]) bool
}

// TokenChecker checks the roles listed in the token payload.
type TokenChecker[R comparable] struct {
	log core.Logger
}

var _ Checker[string] = (*TokenChecker[string])(nil)

// NewTokenChecker creates a TokenChecker. A nil log uses the global logger.
func NewTokenChecker[R comparable](log core.Logger) *TokenChecker[R] {
	return &TokenChecker[R]{log: log}
}

// HasEach returns true for an empty requirement.
func (t *TokenChecker[R]) HasEach(required []R, payload *TokenPayload[R]) bool {
	held := t.held("HasEach", payload)
	for _, r := range required {
		if _, ok := held[r]; !ok {
			return false
		}
	}
	return true
}

// HasAny returns false for an empty requirement.
func (t *TokenChecker[R]) HasAny(required []R, payload *TokenPayload[R]) bool {
	held := t.held("HasAny", payload)
	for _, r := range required {
		if _, ok := held[r]; ok {
			return true
		}
	}
	return false
}

func (t *TokenChecker[R]) held(check string, payload *TokenPayload[R]) map[R]struct{} {
	if payload == nil || payload.Roles == nil {
		t.logger().Warnw("Token payload has no roles, the token issuer may be misconfigured",
			"check", check,
		)
		return nil
	}
	set := make(map[R]struct{}, len(payload.Roles))
	for _, role := range payload.Roles {
		set[role.RoleType] = struct{}{}
	}
	return set
}

func (t *TokenChecker[R]) logger() core.Logger {
	if t == nil || t.log == nil {
		return logger.Global()
	}
	return t.log
}
