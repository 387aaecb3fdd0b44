// Package observability provides the request logging middleware.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger/core"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/infra/middleware/requestutil"
)

// LoggerOptions configures request logging.
type LoggerOptions struct {
	// SkipPaths are not logged, e.g. health probes.
	SkipPaths []string
}

// Logger logs every request twice: when it arrives and when it completes.
// Completion is logged at info for 2xx and 4xx, at error for 5xx or when
// the request carries errors, and not at all for 3xx.
func Logger(opts LoggerOptions) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		url := requestutil.FullURL(c.Request)
		log := infralogger.GetLogger(c.Request.Context())

		log.Infow(fmt.Sprintf("Call Endpoint: %s %s", method, url),
			"method", method,
			"url", url,
		)

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Milliseconds()
		fields := []interface{}{
			"method", method,
			"url", url,
			"status", status,
			"latency_ms", elapsed,
			"client_ip", requestutil.GetClientIP(c.Request),
		}

		switch completionLevel(status, len(c.Errors) > 0) {
		case core.ErrorLevel:
			msg := http.StatusText(status)
			if last := c.Errors.Last(); last != nil {
				msg = last.Error()
			}
			log.Errorw(fmt.Sprintf("Failed Endpoint: %s %s Error - %s.", method, url, msg), fields...)
		case core.InfoLevel:
			log.Infow(fmt.Sprintf("Finished Endpoint: %s %s for %dms", method, url, elapsed), fields...)
		}
	}
}

// completionLevel returns the level of the completion line. DebugLevel
// means the line is suppressed.
func completionLevel(status int, failed bool) core.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return core.ErrorLevel
	case status >= http.StatusBadRequest:
		return core.InfoLevel
	case status >= http.StatusMultipleChoices:
		return core.DebugLevel
	case failed:
		return core.ErrorLevel
	default:
		return core.InfoLevel
	}
}
