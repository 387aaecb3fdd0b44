package roles

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// ContextKeyPayload is the gin key holding the authenticated token payload.
const ContextKeyPayload = "launchpad.token_payload"

// SetPayload stores the authenticated payload on the request.
func SetPayload[R comparable](c *gin.Context, payload *TokenPayload[R]) {
	c.Set(ContextKeyPayload, payload)
}

// CurrentUser returns the payload stored by the authentication middleware.
func CurrentUser[R comparable](c *gin.Context) (*TokenPayload[R], bool) {
	v, ok := c.Get(ContextKeyPayload)
	if !ok {
		return nil, false
	}
	payload, ok := v.(*TokenPayload[R])
	return payload, ok && payload != nil
}

// RequireEach admits requests whose payload holds every role in required.
func RequireEach[R comparable](checker Checker[R], required ...R) gin.HandlerFunc {
	return require(checker.HasEach, required)
}

// RequireAny admits requests whose payload holds at least one role in
// required.
func RequireAny[R comparable](checker Checker[R], required ...R) gin.HandlerFunc {
	return require(checker.HasAny, required)
}

func require[R comparable](check func([]R, *TokenPayload[R]) bool, required []R) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, _ := CurrentUser[R](c)
		if !check(required, payload) {
			_ = c.Error(errors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
