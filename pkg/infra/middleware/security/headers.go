// Package security provides the security headers and CORS middleware.
package security

import (
	"fmt"

	"github.com/gin-gonic/gin"

	transporthttp "github.com/kart-io/launchpad/pkg/infra/server/transport/http"
	mwopts "github.com/kart-io/launchpad/pkg/options/middleware"
)

// Security header names.
const (
	HeaderXFrameOptions           = "X-Frame-Options"
	HeaderXContentTypeOptions     = "X-Content-Type-Options"
	HeaderXXSSProtection          = "X-XSS-Protection"
	HeaderContentSecurityPolicy   = "Content-Security-Policy"
	HeaderReferrerPolicy          = "Referrer-Policy"
	HeaderStrictTransportSecurity = "Strict-Transport-Security"
)

// Headers sets the configured security headers. HSTS is only sent on
// encrypted exchanges.
func Headers(opts mwopts.SecurityHeadersOptions) gin.HandlerFunc {
	hsts := fmt.Sprintf("max-age=%d", opts.HSTSMaxAge)
	if opts.HSTSIncludeSubdomains {
		hsts += "; includeSubDomains"
	}

	return func(c *gin.Context) {
		ex := transporthttp.ExchangeFrom(c)

		if opts.EnableHSTS && ex.Encrypted() {
			ex.SetHeader(HeaderStrictTransportSecurity, hsts)
		}
		if opts.FrameOptionsValue != "" {
			ex.SetHeader(HeaderXFrameOptions, opts.FrameOptionsValue)
		}
		if opts.EnableContentTypeOptions {
			ex.SetHeader(HeaderXContentTypeOptions, "nosniff")
		}
		if opts.XSSProtectionValue != "" {
			ex.SetHeader(HeaderXXSSProtection, opts.XSSProtectionValue)
		}
		if opts.ContentSecurityPolicy != "" {
			ex.SetHeader(HeaderContentSecurityPolicy, opts.ContentSecurityPolicy)
		}
		if opts.ReferrerPolicy != "" {
			ex.SetHeader(HeaderReferrerPolicy, opts.ReferrerPolicy)
		}

		c.Next()
	}
}
