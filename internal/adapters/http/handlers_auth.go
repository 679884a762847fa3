package web

import (
	"errors"
	"log/slog"
	"net/http"

	"journal/internal/adapters/http/middleware"
	"journal/internal/application/orchestrators"
)

type loginPage struct {
	pageMeta
	Username string
	Error    string
}

func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, http.StatusOK, "login.html", loginPage{pageMeta: meta(w, r, "Editorial Login")})
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	input := orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	deps := orchestrators.LoginDeps{
		Verifier: orchestrators.StoreVerifier{Store: stores.CredentialStore},
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, orchestrators.ErrMissingCredentials):
			status = http.StatusBadRequest
		case !errors.Is(err, orchestrators.ErrInvalidCredentials):
			internalError(w, err)
			return
		}
		renderTemplate(w, r, status, "login.html", loginPage{
			pageMeta: pageMeta{Title: "Editorial Login"},
			Username: input.Username,
			Error:    orchestrators.LoginErrorMessage(err),
		})
		return
	}

	token, err := sessions.Create(result.Username)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, sessions.TTL())
	middleware.SetFlash(w, middleware.Flash{Kind: middleware.FlashSuccess, Message: orchestrators.MsgLoginSuccess})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout always succeeds, whether or not a session existed.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	if s, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "username", s.Username)
	}
	middleware.ClearSessionCookie(w)
	middleware.SetFlash(w, middleware.Flash{Kind: middleware.FlashSuccess, Message: orchestrators.MsgLoggedOut})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
