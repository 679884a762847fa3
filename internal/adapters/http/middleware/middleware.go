package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/csrf"
)

// RateLimiter is a per-client token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	now      func() time.Time
}

type visitor struct {
	tokens   int
	refilled time.Time // start of the interval not yet credited
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per interval.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

// Allow reports whether a request from key is within the limit.
// PRE: key is non-empty
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists {
		rl.visitors[key] = &visitor{tokens: rl.rate - 1, refilled: now, lastSeen: now}
		return true
	}

	// Credit whole intervals only, keeping the remainder for the next call.
	if n := int(now.Sub(v.refilled) / rl.interval); n > 0 {
		v.tokens = min(v.tokens+n*rl.rate, rl.rate)
		v.refilled = v.refilled.Add(time.Duration(n) * rl.interval)
	}
	v.lastSeen = now

	if v.tokens <= 0 {
		slog.Warn("rate_limit_exceeded", "client", key)
		return false
	}
	v.tokens--
	return true
}

// Forget drops visitors idle for longer than idle and returns how many went.
func (rl *RateLimiter) Forget(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for key, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > idle {
			delete(rl.visitors, key)
			n++
		}
	}
	return n
}

// StartCleanup forgets idle visitors every minute until stopCh is closed.
func (rl *RateLimiter) StartCleanup(stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Forget(5 * time.Minute)
			case <-stopCh:
				return
			}
		}
	}()
}

// RateLimit returns middleware that limits requests per client address.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientHost(r)) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// SecurityHeaders adds OWASP recommended headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self' data:; connect-src 'self'; form-action 'self'; frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// ExtraTrustedOrigins are appended to the CSRF trusted origins. Browser
// tests add their ephemeral host:port here before building the mux.
var ExtraTrustedOrigins []string

// CSRF returns middleware that protects form posts against CSRF.
// authKey must be 32 bytes. JSON API requests are exempt: browsers cannot
// send a cross-origin application/json body without a CORS preflight.
func CSRF(authKey []byte) func(http.Handler) http.Handler {
	origins := append([]string{"localhost:8080", "127.0.0.1:8080"}, ExtraTrustedOrigins...)
	csrfProtect := csrf.Protect(
		authKey,
		csrf.Secure(SecureCookies),
		csrf.Path("/"),
		csrf.TrustedOrigins(origins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("csrf_rejected", "method", r.Method, "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}
			if r.TLS == nil && !SecureCookies {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares in order; the last one listed is outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
