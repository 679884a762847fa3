package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"journal/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// SlowRequestThreshold reads JOURNAL_SLOW_REQUEST_MS, falling back to the default.
func SlowRequestThreshold() float64 {
	if v := os.Getenv("JOURNAL_SLOW_REQUEST_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return float64(n)
		}
	}
	return DefaultSlowRequestMs
}

var requestIDCounter atomic.Uint64

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// RequestLabel names a request for the perf collector. Requests routed by a
// ServeMux are labelled by their pattern, so every submission id shares
// one "POST /api/editorial/submissions/{id}/{action}" entry.
func RequestLabel(r *http.Request) string {
	if r.Pattern != "" {
		if strings.ContainsRune(r.Pattern, ' ') {
			return r.Pattern
		}
		return r.Method + " " + r.Pattern
	}
	return r.Method + " " + r.URL.Path
}

// Timing returns middleware that logs request duration and records it to
// collector (which may be nil). Requests to /static/ are skipped. Normal
// requests log at DEBUG; slow ones log at WARN.
// Install it directly around the mux so the route pattern is visible.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := SlowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := requestIDCounter.Add(1)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				label := RequestLabel(r)

				level := slog.LevelDebug
				msg := "request"
				if durationMs >= threshold {
					level, msg = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, msg,
					"request_id", reqID,
					"route", label,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", durationMs,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       label,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
