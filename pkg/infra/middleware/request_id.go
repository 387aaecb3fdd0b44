// Package middleware provides the gin middleware the server installs on
// every request.
package middleware

import (
	"github.com/gin-gonic/gin"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/utils/id"
)

// ContextKeyRequestID is the gin context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestIDFunc derives the id of a request.
type RequestIDFunc func(c *gin.Context) string

// HeaderOrULID returns a RequestIDFunc that uses the inbound header when set
// and a fresh ULID otherwise.
func HeaderOrULID(header string) RequestIDFunc {
	if header == "" {
		header = mwopts.DefaultRequestIDHeader
	}
	return func(c *gin.Context) string {
		if rid := c.GetHeader(header); rid != "" {
			return rid
		}
		return id.NewULID()
	}
}

// RequestID echoes the request id in the response header and attaches it to
// the request context so every log line carries it.
func RequestID(opts mwopts.RequestIDOptions, fn RequestIDFunc) gin.HandlerFunc {
	header := opts.Header
	if header == "" {
		header = mwopts.DefaultRequestIDHeader
	}
	if fn == nil {
		fn = HeaderOrULID(header)
	}

	return func(c *gin.Context) {
		rid := fn(c)
		c.Header(header, rid)
		c.Set(ContextKeyRequestID, rid)
		c.Request = c.Request.WithContext(infralogger.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
