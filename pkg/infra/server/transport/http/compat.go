package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/launchpad/pkg/infra/middleware"
	"github.com/kart-io/launchpad/pkg/infra/middleware/requestutil"
)

const contextKeyExchange = "launchpad.exchange"

// Exchange is the request/response surface shared middleware is written
// against, independent of gin.
type Exchange struct {
	c         *gin.Context
	encrypted bool
}

// Request returns the inbound request.
func (e *Exchange) Request() *http.Request {
	return e.c.Request
}

// Header returns an inbound header.
func (e *Exchange) Header(key string) string {
	return e.c.GetHeader(key)
}

// SetHeader sets a response header.
func (e *Exchange) SetHeader(key, value string) {
	e.c.Header(key, value)
}

// Status returns the response status written so far.
func (e *Exchange) Status() int {
	return e.c.Writer.Status()
}

// Encrypted reports whether the client connection is TLS, directly or
// through a proxy, or the deployment is declared encrypted.
func (e *Exchange) Encrypted() bool {
	return e.encrypted
}

// RequestID returns the id assigned to the request.
func (e *Exchange) RequestID() string {
	return middleware.GetRequestID(e.c)
}

// End finishes the response with status and an empty body.
func (e *Exchange) End(status int) {
	e.c.AbortWithStatus(status)
}

// Compat attaches an Exchange to every request. assumeEncrypted marks all
// requests encrypted, for deployments behind a TLS terminator that does
// not forward the scheme.
func Compat(assumeEncrypted bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyExchange, newExchange(c, assumeEncrypted))
		c.Next()
	}
}

// ExchangeFrom returns the request's Exchange. Without Compat installed a
// transient one is built from the request alone.
func ExchangeFrom(c *gin.Context) *Exchange {
	if v, ok := c.Get(contextKeyExchange); ok {
		if ex, ok := v.(*Exchange); ok {
			return ex
		}
	}
	return newExchange(c, false)
}

func newExchange(c *gin.Context, assumeEncrypted bool) *Exchange {
	return &Exchange{
		c:         c,
		encrypted: assumeEncrypted || c.Request.TLS != nil || requestutil.IsForwardedHTTPS(c.Request),
	}
}

// WrapHTTP adapts net/http middleware to gin. When mw does not call the
// next handler the gin chain is aborted.
func WrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}
