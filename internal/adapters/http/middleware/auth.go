package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 24 * time.Hour

// Session marks a logged-in editor.
type Session struct {
	Username  string
	CreatedAt time.Time
}

// SessionStore is an in-memory session store keyed by opaque token.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl.
// A non-positive ttl means DefaultSessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the session lifetime.
func (ss *SessionStore) TTL() time.Duration {
	return ss.ttl
}

// Create stores a new session and returns its token.
// PRE: username is non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{Username: username, CreatedAt: ss.now()}
	return token, nil
}

// Get returns the session for token if it exists and has not expired.
// An expired session is removed.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.expired(session) {
		ss.mu.Lock()
		delete(ss.sessions, token)
		ss.mu.Unlock()
		return Session{}, false
	}
	return session, true
}

func (ss *SessionStore) expired(s Session) bool {
	return ss.now().Sub(s.CreatedAt) > ss.ttl
}

// Delete removes a session by token. Deleting an unknown token is a no-op.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Len returns the number of stored sessions, expired or not.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Sweep removes every expired session and returns how many were removed.
func (ss *SessionStore) Sweep() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for token, s := range ss.sessions {
		if ss.expired(s) {
			delete(ss.sessions, token)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep every interval until stopCh is closed.
func (ss *SessionStore) StartSweeper(interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := ss.Sweep(); n > 0 {
					slog.Debug("sessions_swept", "count", n)
				}
			case <-stopCh:
				return
			}
		}
	}()
}

const sessionCookieName = "ija_session"

// SecureCookies marks cookies Secure. Set in production.
var SecureCookies = false

// Auth returns middleware that resolves the session cookie on every request.
// It does NOT block unauthenticated requests; use RequireAuth for that.
// A stale or unknown token is treated as logged out and its cookie cleared.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				} else {
					ClearSessionCookie(w)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth blocks unauthenticated requests: pages redirect to /login,
// API calls get 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context carrying sess.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie for ttl.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
