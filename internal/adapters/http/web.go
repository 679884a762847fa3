package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"journal/internal/adapters/http/middleware"
	"journal/internal/adapters/http/perf"
	"journal/internal/adapters/intake"
	accountStore "journal/internal/adapters/storage/account"
	auditStore "journal/internal/adapters/storage/audit"
	"journal/internal/adapters/storage/clientstorage"
	submissionStore "journal/internal/adapters/storage/submission"
	"journal/internal/application/autosave"
	"journal/internal/application/orchestrators"
	"journal/internal/domain/manuscript"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	CredentialStore accountStore.Store
	SubmissionStore submissionStore.Store
	ClientStorage   clientstorage.Store
	AuditStore      auditStore.Store // nil disables the editorial trail
}

// Pinger reports database liveness for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services holds the collaborators that are not stores.
type Services struct {
	Receiver      intake.Receiver
	Autosave      *autosave.Debouncer[manuscript.Values]
	SubmitGuard   *orchestrators.SubmitGuard
	SubmissionIDs *manuscript.IDGenerator
	DB            Pinger // may be nil
}

// Options configures NewMux.
type Options struct {
	Stores    *Stores
	Services  Services
	Sessions  *middleware.SessionStore // nil means a fresh store with the default TTL
	Collector *perf.Collector          // may be nil
	CSRFKey   []byte
	Stop      <-chan struct{} // closing it stops background cleanup; may be nil
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global collaborators (set by NewMux)
var services Services

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-client rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
// PRE: opts.Stores is fully populated; opts.CSRFKey is 32 bytes
func NewMux(opts Options) http.Handler {
	stores = opts.Stores
	perfCollector = opts.Collector
	services = opts.Services
	if services.Receiver == nil {
		services.Receiver = intake.LogReceiver{}
	}
	if services.SubmitGuard == nil {
		services.SubmitGuard = orchestrators.NewSubmitGuard()
	}
	if services.SubmissionIDs == nil {
		services.SubmissionIDs = manuscript.NewIDGenerator(nil)
	}
	if services.Autosave == nil {
		services.Autosave = orchestrators.NewDraftAutosaver(autosave.DefaultDelay, stores.ClientStorage)
	}
	sessions = opts.Sessions
	if sessions == nil {
		sessions = middleware.NewSessionStore(middleware.DefaultSessionTTL)
	}

	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	if opts.Stop != nil {
		limiter.StartCleanup(opts.Stop)
	}

	// Innermost first: Timing sits on the mux so it sees route patterns.
	return middleware.Chain(mux,
		middleware.Timing(perfCollector),
		middleware.ClientID,
		middleware.Auth(sessions),
		middleware.CSRF(opts.CSRFKey),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
	)
}
