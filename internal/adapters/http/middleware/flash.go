package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashDismissMs is the auto-dismiss hint rendered with every flash.
const FlashDismissMs = 3000

const flashCookieName = "ija_flash"

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind    string
	Message string
}

// DismissMs returns the auto-dismiss delay for the page script.
func (f Flash) DismissMs() int {
	return FlashDismissMs
}

// SetFlash stores f for the next page render.
func SetFlash(w http.ResponseWriter, f Flash) {
	v := url.Values{}
	v.Set("k", f.Kind)
	v.Set("m", f.Message)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(v.Encode()),
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// TakeFlash returns the pending flash, if any, and clears it.
func TakeFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return Flash{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		Path:     "/",
		MaxAge:   -1,
	})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return Flash{}, false
	}
	v, err := url.ParseQuery(raw)
	if err != nil || strings.TrimSpace(v.Get("m")) == "" {
		return Flash{}, false
	}
	kind := v.Get("k")
	if kind != FlashError {
		kind = FlashSuccess
	}
	return Flash{Kind: kind, Message: v.Get("m")}, true
}
