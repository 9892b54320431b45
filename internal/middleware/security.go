package middleware

import (
	"net/http"
)

// SecurityHeadersMiddleware adds security-related HTTP headers to all responses
// These headers protect against:
// - Clickjacking (X-Frame-Options)
// - MIME sniffing attacks (X-Content-Type-Options)
// - Cross-site scripting (Content-Security-Policy)
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking: don't allow this page to be embedded in iframes
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME sniffing: browser must respect Content-Type header
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Gallery images and videos are served from the public bucket URL,
		// so img-src/media-src must allow https origins
		csp := "default-src 'self'; " +
			"script-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: blob: https:; " +
			"media-src 'self' blob: https:; " +
			"font-src 'self'; " +
			"connect-src 'self'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
		w.Header().Set("Content-Security-Policy", csp)

		// Referrer Policy: don't leak gallery URLs to external sites
		w.Header().Set("Referrer-Policy", "same-origin")

		// Guests only upload; no device features are needed
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
