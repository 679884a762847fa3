package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"journal/internal/adapters/http/middleware"
	"journal/internal/application/projections"
	"journal/internal/domain/manuscript"
	"journal/internal/domain/submission"
)

// mdRenderer renders manuscript text. Raw HTML in the input is escaped
// (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// jsonError writes {"error": msg}.
func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pageMeta is embedded in every page's data.
type pageMeta struct {
	Title string
	Flash *middleware.Flash
}

// meta builds the common page fields, consuming any pending flash.
func meta(w http.ResponseWriter, r *http.Request, title string) pageMeta {
	m := pageMeta{Title: title}
	if f, ok := middleware.TakeFlash(w, r); ok {
		m.Flash = &f
	}
	return m
}

func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"csrfField":   func() template.HTML { return "" },
		"currentUser": func() string { return "" },
		"isLoggedIn":  func() bool { return false },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"specializationLabel": submission.SpecializationLabel,
		"levelStyle": func(l manuscript.Level) template.CSS {
			style := "color: " + l.Color
			if l.Bold {
				style += "; font-weight: bold"
			}
			return template.CSS(style)
		},
		"fieldError": func(errs manuscript.FieldErrors, name string) string {
			return errs[name]
		},
		"field":  newFieldView,
		"tabURL": tabURL,
	}
}

// fieldView is one form control as the submit page draws it.
type fieldView struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Value    string
	Err      string
}

func newFieldView(v manuscript.Values, errs manuscript.FieldErrors, name, typ string) fieldView {
	f, _ := manuscript.Lookup(name)
	return fieldView{
		Name:     name,
		Label:    f.Label,
		Type:     typ,
		Required: f.Required,
		Value:    v[name],
		Err:      errs[name],
	}
}

// tabURL links to a dashboard tab, keeping the current filters.
func tabURL(v projections.DashboardView, tab string) template.URL {
	q := v.WithTab(tab).Encode()
	if q == "" {
		return "/dashboard"
	}
	return template.URL("/dashboard?" + q)
}

var pageTemplates = template.Must(template.New("").Funcs(baseFuncs()).ParseFS(templateFS, "templates/*.html"))

// renderTemplate executes a page with request-bound helpers and writes it
// with status. Rendering errors produce a 500 before anything is sent.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())

	t, err := pageTemplates.Clone()
	if err != nil {
		internalError(w, err)
		return
	}
	t.Funcs(template.FuncMap{
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"currentUser": func() string { return sess.Username },
		"isLoggedIn":  func() bool { return loggedIn },
	})

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if services.DB != nil {
		if err := services.DB.PingContext(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
