package middleware

import (
	"net/http"
	"strings"
)

// DashboardCSP builds the Content-Security-Policy for archive pages.
// Avatars and attachments are loaded from cdnBaseURL.
func DashboardCSP(cdnBaseURL string) string {
	directives := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"img-src 'self' data: " + strings.TrimRight(cdnBaseURL, "/"),
		"connect-src 'self'",
		"object-src 'none'",
		"base-uri 'self'",
		"frame-ancestors 'none'",
	}
	return strings.Join(directives, "; ")
}

// SecurityHeadersWithCSP adds security headers.
// isHTTPS adds Strict-Transport-Security; an empty csp skips Content-Security-Policy.
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// archives never need these
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=(), clipboard-read=()")

			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
