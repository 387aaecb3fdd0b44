package security

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	transporthttp "github.com/kart-io/launchpad/pkg/infra/server/transport/http"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
)

// CORS applies the CORS policy. Preflight requests from allowed origins are
// answered with 204 and never reach a handler. An invalid policy is
// returned as an error.
func CORS(opts mwopts.CORSOptions) (gin.HandlerFunc, error) {
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid CORS policy: %w", errs[0])
	}

	defaults := mwopts.NewCORSOptions()
	if len(opts.AllowMethods) == 0 {
		opts.AllowMethods = defaults.AllowMethods
	}
	if len(opts.AllowHeaders) == 0 {
		opts.AllowHeaders = defaults.AllowHeaders
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = defaults.MaxAge
	}

	allowMethods := strings.Join(opts.AllowMethods, ", ")
	allowHeaders := strings.Join(opts.AllowHeaders, ", ")
	exposeHeaders := strings.Join(opts.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(opts.MaxAge)

	return func(c *gin.Context) {
		ex := transporthttp.ExchangeFrom(c)
		origin := ex.Header("Origin")
		if origin == "" {
			c.Next()
			return
		}

		allowed := ""
		for _, o := range opts.AllowOrigins {
			if o == "*" || o == origin {
				allowed = o
				break
			}
		}
		if allowed == "" {
			c.Next()
			return
		}

		ex.SetHeader("Access-Control-Allow-Origin", allowed)
		if allowed != "*" {
			ex.SetHeader("Vary", "Origin")
		}
		if opts.AllowCredentials {
			ex.SetHeader("Access-Control-Allow-Credentials", "true")
		}
		if exposeHeaders != "" {
			ex.SetHeader("Access-Control-Expose-Headers", exposeHeaders)
		}

		if ex.Request().Method == http.MethodOptions {
			ex.SetHeader("Access-Control-Allow-Methods", allowMethods)
			ex.SetHeader("Access-Control-Allow-Headers", allowHeaders)
			ex.SetHeader("Access-Control-Max-Age", maxAge)
			ex.End(http.StatusNoContent)
			return
		}

		c.Next()
	}, nil
}
