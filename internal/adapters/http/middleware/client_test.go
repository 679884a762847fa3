package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestClientID(t *testing.T) {
	var seen string
	h := ClientID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/submit", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ija_client" {
		t.Fatalf("cookies = %+v", cookies)
	}
	if _, err := uuid.Parse(seen); err != nil || seen != cookies[0].Value {
		t.Fatalf("client id %q does not match cookie %q", seen, cookies[0].Value)
	}

	existing := seen
	req := httptest.NewRequest("GET", "/submit", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != existing {
		t.Errorf("id changed: %q -> %q", existing, seen)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("valid cookie should not be reissued")
	}

	req = httptest.NewRequest("GET", "/submit", nil)
	req.AddCookie(&http.Cookie{Name: "ija_client", Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "../../etc" || seen == "" {
		t.Errorf("malformed cookie accepted: %q", seen)
	}
}

func TestFlash(t *testing.T) {
	rr := httptest.NewRecorder()
	SetFlash(rr, Flash{Kind: FlashSuccess, Message: "Login successful!"})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	f, ok := TakeFlash(rr, req)
	if !ok || f.Message != "Login successful!" || f.Kind != FlashSuccess || f.DismissMs() != 3000 {
		t.Fatalf("TakeFlash = %+v, %v", f, ok)
	}
	if c := rr.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Error("flash cookie not cleared after read")
	}

	if _, ok := TakeFlash(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("flash without cookie")
	}
}
