// Package requestutil holds small helpers over *http.Request.
package requestutil

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the client address, preferring X-Forwarded-For and
// X-Real-IP over RemoteAddr.
func GetClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		first, _, _ := strings.Cut(ip, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// IsForwardedHTTPS reports whether a proxy terminated TLS for r.
func IsForwardedHTTPS(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// FullURL returns the request URI as received, path and query.
func FullURL(r *http.Request) string {
	return r.URL.RequestURI()
}
