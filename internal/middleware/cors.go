package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware configures browser CORS for the storefront. The preflight
// layer mirrors the request gate's single-origin policy; the gate still
// enforces it server-side for mutating requests, since CORS alone only
// constrains well-behaved browsers.
func CORSMiddleware(allowedOrigin string, isDevelopment bool) func(http.Handler) http.Handler {
	allowedOrigins := []string{allowedOrigin}
	// In development, allow all origins
	if isDevelopment {
		allowedOrigins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}
