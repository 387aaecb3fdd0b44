// Package resilience provides middleware that keeps a misbehaving request
// from taking the server down.
package resilience

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/launchpad/pkg/infra/interceptor"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// BodyLimit rejects requests whose declared Content-Length exceeds maxSize
// and caps what handlers can read from the body.
func BodyLimit(maxSize int64) gin.HandlerFunc {
	return BodyLimitWithOptions(mwopts.BodyLimitOptions{MaxSize: maxSize})
}

// BodyLimitWithOptions is BodyLimit with skip paths.
func BodyLimitWithOptions(opts mwopts.BodyLimitOptions) gin.HandlerFunc {
	if opts.MaxSize <= 0 {
		opts.MaxSize = mwopts.DefaultMaxBodySize
	}

	return func(c *gin.Context) {
		req := c.Request
		for _, p := range opts.SkipPaths {
			if strings.HasPrefix(req.URL.Path, p) {
				c.Next()
				return
			}
		}

		if req.ContentLength > opts.MaxSize {
			logger.Warnw("request body too large",
				"path", req.URL.Path,
				"content_length", req.ContentLength,
				"max_size", opts.MaxSize,
			)
			interceptor.WriteError(c, errors.ErrRequestTooLarge, interceptor.Language(c, ""))
			return
		}

		// reads past the cap fail with *http.MaxBytesError even when the
		// header lied
		req.Body = http.MaxBytesReader(c.Writer, req.Body, opts.MaxSize)
		c.Next()
	}
}
