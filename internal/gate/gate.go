// Package gate rejects cross-origin mutation attempts and throttles abusive
// request rates before any business logic runs.
package gate

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shopfront/internal/middleware"
	"shopfront/internal/ratelimit"

	"go.uber.org/zap"
)

// Config is the gate's full input, injected at construction so the gate
// never reads ambient environment state at call time.
type Config struct {
	// Development relaxes the origin checks for local testing
	Development bool
	// AllowedOrigin is the single full origin URL (scheme://host[:port])
	// permitted to issue mutating requests
	AllowedOrigin string
}

// Gate validates request origins and enforces a per-client rate limit
type Gate struct {
	cfg     Config
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// New creates a request gate. limiter may be nil to disable throttling.
func New(cfg Config, limiter *ratelimit.Limiter, logger *zap.Logger) *Gate {
	return &Gate{cfg: cfg, limiter: limiter, logger: logger}
}

// ValidateOrigin reports whether a mutating request from requestOrigin is
// acceptable. An empty requestOrigin means the request carried no Origin
// header. The check fails closed: a missing allowed-origin configuration
// denies everything outside development, and any unparseable URL denies.
// Hosts must match exactly; wildcard subdomains are never implied.
func (g *Gate) ValidateOrigin(requestOrigin string) bool {
	if g.cfg.Development && isLocalhost(requestOrigin) {
		return true
	}

	if g.cfg.AllowedOrigin == "" {
		return g.cfg.Development
	}

	if requestOrigin == "" {
		// Mutating requests must declare an origin in production
		return g.cfg.Development
	}

	reqURL, err := url.Parse(requestOrigin)
	if err != nil {
		return false
	}
	allowedURL, err := url.Parse(g.cfg.AllowedOrigin)
	if err != nil {
		return false
	}
	if reqURL.Scheme == "" || reqURL.Host == "" {
		return false
	}

	return reqURL.Scheme == allowedURL.Scheme && reqURL.Host == allowedURL.Host
}

func isLocalhost(origin string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}

// Middleware gates mutating requests: a disallowed origin is rejected with
// 403, a rate-limited client with 429. Safe methods pass through untouched.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		if !g.ValidateOrigin(origin) {
			g.logger.Warn("Request rejected by origin check",
				zap.String("origin", origin),
				zap.String("path", r.URL.Path),
			)
			middleware.RespondWithError(w, http.StatusForbidden, "origin not allowed")
			return
		}

		if g.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		// Throttle by user when authenticated, otherwise by client IP
		clientID := r.RemoteAddr
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			clientID = userID
		}

		result := g.limiter.Allow(r.Context(), clientID)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(g.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			g.logger.Warn("Rate limit exceeded",
				zap.String("client_id", clientID),
				zap.Int("limit", g.limiter.Limit()),
			)

			retryAfter := int(g.limiter.Window() / time.Second)
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(g.limiter.Window()).Unix(), 10))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			middleware.RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
