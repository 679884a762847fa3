package web

import (
	"net/http"

	"journal/internal/adapters/http/middleware"
)

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("GET /healthz", handleHealth)

	// Dashboard access
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	// Editorial dashboard
	mux.Handle("GET /dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("POST /api/editorial/submissions/{id}/{action}", middleware.RequireAuth(http.HandlerFunc(handleEditorialAction)))
	mux.Handle("POST /api/editorial/reviewers", middleware.RequireAuth(http.HandlerFunc(handleAddReviewer)))
	mux.Handle("POST /api/editorial/issues", middleware.RequireAuth(http.HandlerFunc(handleCreateIssue)))
	mux.Handle("GET /api/editorial/audit", middleware.RequireAuth(http.HandlerFunc(handleAudit)))
	mux.Handle("GET /api/perf", middleware.RequireAuth(http.HandlerFunc(handlePerf)))

	// Manuscript submission
	mux.HandleFunc("GET /submit", handleSubmitPage)
	mux.HandleFunc("POST /submit", handleSubmit)
	mux.HandleFunc("POST /api/draft", handleSaveDraft)
	mux.HandleFunc("POST /api/word-count", handleWordCount)
}
