package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"journal/internal/adapters/http/middleware"
	"journal/internal/application/autosave"
	"journal/internal/application/orchestrators"
	"journal/internal/application/projections"
	"journal/internal/domain/manuscript"
	"journal/internal/domain/submission"
)

type submitPage struct {
	pageMeta
	Values          manuscript.Values
	Errors          manuscript.FieldErrors
	WordCount       manuscript.WordCount
	State           string
	Message         string
	Restored        bool
	ArticleTypes    []manuscript.Option
	Specializations []manuscript.Option
	AutosaveMs      int64
	FormVersion     int64  // unix ms at page load; stamps draft snapshots
	Receipt         string // Markdown summary of the last accepted submission
}

// formVersionField is the hidden input carrying submitPage.FormVersion.
const formVersionField = "formVersion"

// parseFormVersion reads a unix-ms form version; anything else is zero.
func parseFormVersion(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return versionAt(ms)
}

func versionAt(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func newSubmitPage(m pageMeta, v manuscript.Values) submitPage {
	specs := make([]manuscript.Option, 0, len(submission.Specializations))
	for _, s := range submission.Specializations {
		specs = append(specs, manuscript.Option{Value: s, Label: submission.SpecializationLabel(s)})
	}
	return submitPage{
		pageMeta:        m,
		Values:          v,
		WordCount:       manuscript.CountAbstract(v[manuscript.FieldAbstract]),
		State:           manuscript.StateEditing.String(),
		ArticleTypes:    manuscript.ArticleTypes,
		Specializations: specs,
		AutosaveMs:      services.Autosave.Delay().Milliseconds(),
		FormVersion:     time.Now().UnixMilli(),
	}
}

func handleSubmitPage(w http.ResponseWriter, r *http.Request) {
	draft, err := projections.QueryGetDraft(r.Context(), projections.GetDraftQuery{
		ClientID: middleware.ClientIDFromContext(r.Context()),
	}, projections.GetDraftDeps{Store: stores.ClientStorage})
	if err != nil {
		internalError(w, err)
		return
	}
	receipt, err := orchestrators.ExecuteTakeReceipt(r.Context(), orchestrators.TakeReceiptInput{
		ClientID: middleware.ClientIDFromContext(r.Context()),
	}, orchestrators.TakeReceiptDeps{Store: stores.ClientStorage})
	if err != nil {
		internalError(w, err)
		return
	}
	page := newSubmitPage(meta(w, r, "Submit Article"), draft.Values)
	page.Restored = draft.Restored
	page.Receipt = receipt
	renderTemplate(w, r, http.StatusOK, "submit.html", page)
}

func handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	clientID := middleware.ClientIDFromContext(r.Context())
	version := parseFormVersion(r.PostForm.Get(formVersionField))
	result, err := orchestrators.ExecuteSubmitManuscript(r.Context(), orchestrators.SubmitManuscriptInput{
		ClientID:    clientID,
		Values:      manuscript.ValuesFromForm(r.PostForm),
		FormVersion: version,
	}, orchestrators.SubmitManuscriptDeps{
		Guard:    services.SubmitGuard,
		IDs:      services.SubmissionIDs,
		Receiver: services.Receiver,
		Drafts:   stores.ClientStorage,
		Autosave: services.Autosave,
		Receipts: stores.ClientStorage,
	})
	if errors.Is(err, orchestrators.ErrSubmitInProgress) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	if result.State == manuscript.StateAccepted {
		middleware.SetFlash(w, middleware.Flash{Kind: middleware.FlashSuccess, Message: result.Message})
		http.Redirect(w, r, "/submit", http.StatusSeeOther)
		return
	}

	status := http.StatusUnprocessableEntity
	if result.State == manuscript.StateFailed {
		status = http.StatusServiceUnavailable
	}
	page := newSubmitPage(pageMeta{Title: "Submit Article"}, result.Values)
	page.Errors = result.Errors
	page.State = result.State.String()
	page.Message = result.Message
	if !version.IsZero() {
		page.FormVersion = version.UnixMilli()
	}
	renderTemplate(w, r, status, "submit.html", page)
}

type draftRequest struct {
	Values  map[string]string `json:"values"`
	Version int64             `json:"version,omitempty"` // form version, unix ms
}

// handleSaveDraft schedules a debounced write of the posted form.
// Snapshots from a form version that has already been submitted get 409.
func handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.ClientIDFromContext(r.Context())
	if clientID == "" {
		jsonError(w, http.StatusBadRequest, "missing client id")
		return
	}
	var req draftRequest
	if err := strictDecode(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := make(map[string][]string, len(req.Values))
	for k, v := range req.Values {
		form[k] = []string{v}
	}
	values := manuscript.ValuesFromForm(form)
	var err error
	if v := versionAt(req.Version); !v.IsZero() {
		err = services.Autosave.ScheduleAt(clientID, v, values)
	} else {
		err = services.Autosave.Schedule(clientID, values)
	}
	if errors.Is(err, autosave.ErrRetired) {
		jsonError(w, http.StatusConflict, "form already submitted")
		return
	}
	if err != nil {
		jsonError(w, http.StatusServiceUnavailable, "autosave unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"pending": true,
		"delayMs": services.Autosave.Delay().Milliseconds(),
	})
}

type wordCountRequest struct {
	Text string `json:"text"`
}

func handleWordCount(w http.ResponseWriter, r *http.Request) {
	var req wordCountRequest
	if err := strictDecode(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, manuscript.CountAbstract(req.Text))
}
