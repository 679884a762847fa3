package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"journal/internal/adapters/http/middleware"
	"journal/internal/application/orchestrators"
	"journal/internal/application/projections"
	"journal/internal/domain/modal"
	"journal/internal/domain/submission"
)

type dashboardPage struct {
	pageMeta
	projections.DashboardResult
	Tabs []string
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		Username: sess.Username,
		View:     projections.ParseDashboardView(r.URL.Query()),
	}, projections.GetDashboardDeps{SubmissionStore: stores.SubmissionStore})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "dashboard.html", dashboardPage{
		pageMeta:        meta(w, r, "Editorial Dashboard"),
		DashboardResult: result,
		Tabs:            projections.Tabs,
	})
}

// actionRequest is the body of every dialog round trip.
type actionRequest struct {
	Answers modal.Answers `json:"answers"`
}

func decodeAnswers(w http.ResponseWriter, r *http.Request) (modal.Answers, bool) {
	var req actionRequest
	if r.ContentLength != 0 {
		if err := strictDecode(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return nil, false
		}
	}
	if req.Answers == nil {
		req.Answers = modal.Answers{}
	}
	return req.Answers, true
}

func handleEditorialAction(w http.ResponseWriter, r *http.Request) {
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	outcome, err := orchestrators.ExecuteEditorialAction(r.Context(), orchestrators.EditorialActionInput{
		SubmissionID: r.PathValue("id"),
		Action:       r.PathValue("action"),
		Editor:       sess.Username,
		Answers:      answers,
	}, orchestrators.EditorialActionDeps{
		SubmissionStore: stores.SubmissionStore,
		Audit:           auditRecorder(),
	})
	switch {
	case errors.Is(err, submission.ErrNotFound):
		jsonError(w, http.StatusNotFound, "submission not found")
	case errors.Is(err, orchestrators.ErrUnknownAction):
		jsonError(w, http.StatusNotFound, "unknown action")
	case err != nil:
		internalError(w, err)
	default:
		writeJSON(w, http.StatusOK, outcome)
	}
}

func handleAddReviewer(w http.ResponseWriter, r *http.Request) {
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, orchestrators.ExecuteAddReviewer(r.Context(), orchestrators.BoardActionInput{
		Editor:  sess.Username,
		Answers: answers,
	}, orchestrators.BoardActionDeps{Audit: auditRecorder()}))
}

func handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	answers, ok := decodeAnswers(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, orchestrators.ExecuteCreateIssue(r.Context(), orchestrators.BoardActionInput{
		Editor:  sess.Username,
		Answers: answers,
	}, orchestrators.BoardActionDeps{Audit: auditRecorder()}))
}

// handlePerf returns request and query timings for the last ?minutes=
// (default 60, max 1440).
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		jsonError(w, http.StatusNotFound, "perf collection disabled")
		return
	}
	minutes := 60
	if v := r.URL.Query().Get("minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1440 {
			jsonError(w, http.StatusBadRequest, "minutes must be between 1 and 1440")
			return
		}
		minutes = n
	}
	since := time.Now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 10))
}
