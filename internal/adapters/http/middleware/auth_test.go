package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestSessionStore(ttl time.Duration) (*SessionStore, *time.Time) {
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	ss := NewSessionStore(ttl)
	ss.now = func() time.Time { return clock }
	return ss, &clock
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ss, clock := newTestSessionStore(time.Hour)

	token, err := ss.Create("editor")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}
	s, ok := ss.Get(token)
	if !ok || s.Username != "editor" {
		t.Fatalf("Get = %+v, %v", s, ok)
	}

	*clock = clock.Add(time.Hour + time.Second)
	if _, ok := ss.Get(token); ok {
		t.Error("expired session still valid")
	}
	if ss.Len() != 0 {
		t.Error("expired session not removed on Get")
	}

	token, _ = ss.Create("admin")
	ss.Delete(token)
	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("deleted session still valid")
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	ss, clock := newTestSessionStore(time.Hour)
	ss.Create("old")
	*clock = clock.Add(45 * time.Minute)
	ss.Create("new")
	*clock = clock.Add(30 * time.Minute)

	if n := ss.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if ss.Len() != 1 {
		t.Errorf("Len = %d, want 1", ss.Len())
	}
}

func TestNewSessionStore_DefaultTTL(t *testing.T) {
	if got := NewSessionStore(0).TTL(); got != DefaultSessionTTL {
		t.Errorf("TTL = %v, want %v", got, DefaultSessionTTL)
	}
}

func TestAuth(t *testing.T) {
	ss, _ := newTestSessionStore(time.Hour)
	token, _ := ss.Create("editor")

	var seen string
	h := Auth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := GetSessionFromContext(r.Context()); ok {
			seen = s.Username
		}
	}))

	tests := []struct {
		name        string
		cookie      string
		wantUser    string
		wantCleared bool
	}{
		{"valid", token, "editor", false},
		{"forged", "deadbeef", "", true},
		{"none", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest("GET", "/dashboard", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if seen != tt.wantUser {
				t.Errorf("user = %q, want %q", seen, tt.wantUser)
			}
			cleared := false
			for _, c := range rr.Result().Cookies() {
				if c.Name == sessionCookieName && c.MaxAge < 0 {
					cleared = true
				}
			}
			if cleared != tt.wantCleared {
				t.Errorf("cookie cleared = %v, want %v", cleared, tt.wantCleared)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(okHandler(http.StatusOK))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Errorf("page: %d %s", rr.Code, rr.Header().Get("Location"))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/editorial/issues", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("api: %d, want 401", rr.Code)
	}

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{Username: "editor"}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("authenticated: %d, want 200", rr.Code)
	}
}

func TestSessionCookieHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "tok", 2*time.Hour)
	c := rr.Result().Cookies()[0]
	if c.Name != "ija_session" || c.Value != "tok" || c.MaxAge != 7200 || !c.HttpOnly {
		t.Errorf("cookie = %+v", c)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(c)
	if got := SessionToken(req); got != "tok" {
		t.Errorf("SessionToken = %q", got)
	}
}
