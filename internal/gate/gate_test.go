package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/ratelimit"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func TestValidateOrigin(t *testing.T) {
	tests := []struct {
		name          string
		development   bool
		allowedOrigin string
		requestOrigin string
		want          bool
	}{
		{
			name:          "exact match is allowed",
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "https://shop.example.com",
			want:          true,
		},
		{
			name:          "scheme mismatch is denied",
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "http://shop.example.com",
			want:          false,
		},
		{
			name:          "port mismatch is denied",
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "https://shop.example.com:8443",
			want:          false,
		},
		{
			name:          "subdomain is not implicitly allowed",
			allowedOrigin: "https://example.com",
			requestOrigin: "https://shop.example.com",
			want:          false,
		},
		{
			name:          "missing origin header is denied in production",
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "",
			want:          false,
		},
		{
			name:          "missing origin header is allowed in development",
			development:   true,
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "",
			want:          true,
		},
		{
			name:          "localhost any port is allowed in development",
			development:   true,
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "http://localhost:3000",
			want:          true,
		},
		{
			name:          "loopback IP is allowed in development",
			development:   true,
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "http://127.0.0.1:5173",
			want:          true,
		},
		{
			name:          "localhost is denied in production",
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "http://localhost:3000",
			want:          false,
		},
		{
			name:          "no configured origin fails closed in production",
			allowedOrigin: "",
			requestOrigin: "https://shop.example.com",
			want:          false,
		},
		{
			name:          "no configured origin is permissive in development",
			development:   true,
			allowedOrigin: "",
			requestOrigin: "https://anything.example.com",
			want:          true,
		},
		{
			name:          "garbage origin is denied",
			allowedOrigin: "https://shop.example.com",
			requestOrigin: "not a url",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Config{Development: tt.development, AllowedOrigin: tt.allowedOrigin}, nil, zap.NewNop())
			if got := g.ValidateOrigin(tt.requestOrigin); got != tt.want {
				t.Errorf("ValidateOrigin(%q) = %v, want %v", tt.requestOrigin, got, tt.want)
			}
		})
	}
}

// Feature: storefront-api, Property 61: only the exact configured origin passes
func TestProperty_OnlyExactOriginMatches(t *testing.T) {
	properties := gopter.NewProperties(nil)

	g := New(Config{AllowedOrigin: "https://shop.example.com"}, nil, zap.NewNop())

	properties.Property("random hosts never pass the production origin check", prop.ForAll(
		func(host string) bool {
			origin := "https://" + host + ".example.org"
			return !g.ValidateOrigin(origin)
		},
		gen.RegexMatch(`[a-z]{3,12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func newTestGate(cfg Config, limit int) *Gate {
	var limiter *ratelimit.Limiter
	if limit > 0 {
		limiter = ratelimit.NewLimiter(nil, ratelimit.NewMemoryStore(), limit, time.Minute, zap.NewNop())
	}
	return New(cfg, limiter, zap.NewNop())
}

func TestMiddleware_RejectsBadOrigin(t *testing.T) {
	g := newTestGate(Config{AllowedOrigin: "https://shop.example.com"}, 0)

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestMiddleware_SafeMethodsBypassTheGate(t *testing.T) {
	g := newTestGate(Config{AllowedOrigin: "https://shop.example.com"}, 1)

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No Origin header, repeated far beyond the limit: GETs always pass
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/products", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestMiddleware_RateLimitsMutatingRequests(t *testing.T) {
	limit := 3
	g := newTestGate(Config{AllowedOrigin: "https://shop.example.com"}, limit)

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < limit; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		req.RemoteAddr = "192.168.1.50:1234"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") == "" || w.Header().Get("X-RateLimit-Remaining") == "" {
			t.Fatalf("request %d: rate limit headers missing", i+1)
		}
	}

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.RemoteAddr = "192.168.1.50:1234"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the limit, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing on 429")
	}
}
