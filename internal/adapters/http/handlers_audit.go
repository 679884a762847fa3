package web

import (
	"net/http"
	"strconv"

	auditStore "journal/internal/adapters/storage/audit"
	"journal/internal/application/orchestrators"
	"journal/internal/domain/audit"
)

const maxAuditLimit = 200

// auditRecorder returns the configured trail, or nil when none is wired.
func auditRecorder() orchestrators.AuditRecorder {
	if stores == nil || stores.AuditStore == nil {
		return nil
	}
	return stores.AuditStore
}

// handleAudit lists recent editorial events, newest first.
// Query params: submission, editor, action, limit (default 50, max 200).
func handleAudit(w http.ResponseWriter, r *http.Request) {
	if stores.AuditStore == nil {
		jsonError(w, http.StatusNotFound, "audit trail disabled")
		return
	}
	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxAuditLimit {
			jsonError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	var filter auditStore.Filter
	if v := q.Get("submission"); v != "" {
		filter.ResourceID = &v
	}
	if v := q.Get("editor"); v != "" {
		filter.Editor = &v
	}
	if v := q.Get("action"); v != "" {
		action := audit.Action(v)
		filter.Action = &action
	}

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
