package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	clientCookieName   = "ija_client"
	clientContextKey   = contextKey("client")
	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// ClientID assigns every browser a stable identifier in the ija_client
// cookie. Client storage (drafts) is scoped by this id. A missing or
// malformed cookie is replaced with a fresh uuid.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(clientCookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     clientCookieName,
				Value:    id,
				HttpOnly: true,
				Secure:   SecureCookies,
				SameSite: http.SameSiteLaxMode,
				Path:     "/",
				MaxAge:   clientCookieMaxAge,
			})
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClientID(r.Context(), id)))
	})
}

// ClientIDFromContext returns the browser's client id, or "".
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientContextKey).(string)
	return id
}

// ContextWithClientID returns a context carrying id.
func ContextWithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientContextKey, id)
}
