package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "journal/internal/adapters/email"
	web "journal/internal/adapters/http"
	"journal/internal/adapters/http/middleware"
	"journal/internal/adapters/http/perf"
	"journal/internal/adapters/intake"
	"journal/internal/adapters/storage"
	accountStore "journal/internal/adapters/storage/account"
	auditStore "journal/internal/adapters/storage/audit"
	"journal/internal/adapters/storage/clientstorage"
	submissionStore "journal/internal/adapters/storage/submission"
	"journal/internal/application/orchestrators"
	"journal/internal/config"
	"journal/internal/domain/manuscript"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))
	if cfg.CSRFKeyGenerated {
		slog.Warn("csrf_key_generated", "hint", "set JOURNAL_CSRF_KEY to keep forms valid across restarts")
	}

	// WAL mode, foreign keys and busy timeout on every connection
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		CredentialStore: accountStore.NewSQLiteStore(timedDB),
		SubmissionStore: submissionStore.NewSQLiteStore(timedDB),
		ClientStorage:   clientstorage.NewSQLiteStore(timedDB),
		AuditStore:      auditStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	if err := orchestrators.ExecuteSeedCredentials(ctx, orchestrators.SeedCredentialsDeps{CredentialStore: stores.CredentialStore}); err != nil {
		log.Fatalf("failed to seed credentials: %v", err)
	}
	if err := orchestrators.ExecuteSeedSubmissions(ctx, orchestrators.SeedSubmissionsDeps{SubmissionStore: stores.SubmissionStore}); err != nil {
		log.Fatalf("failed to seed submissions: %v", err)
	}

	var receiver intake.Receiver = intake.LogReceiver{}
	if cfg.ResendKey != "" {
		receiver = intake.MailReceiver{
			Sender:         emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom),
			EditorsAddress: cfg.EditorsEmail,
		}
		slog.Info("intake_configured", "mode", "resend", "editors", cfg.EditorsEmail)
	} else if cfg.IsProduction() {
		slog.Warn("intake_configured", "mode", "log", "hint", "JOURNAL_RESEND_KEY is not set; submissions are only logged")
	} else {
		receiver = intake.MailReceiver{Sender: emailPkg.NewNoopSender(), EditorsAddress: cfg.EditorsEmail}
		slog.Info("intake_configured", "mode", "noop")
	}

	stopCh := make(chan struct{})

	autosaver := orchestrators.NewDraftAutosaver(cfg.AutosaveDelay, stores.ClientStorage)
	sessions := middleware.NewSessionStore(cfg.SessionTTL)
	sessions.StartSweeper(10*time.Minute, stopCh)
	orchestrators.StartPurgeWorker(
		orchestrators.PurgeClientStorageDeps{Store: stores.ClientStorage},
		cfg.ClientRetention, 6*time.Hour, stopCh,
	)

	middleware.SecureCookies = cfg.IsProduction()
	web.RateLimitPerSecond = cfg.RateLimit

	handler := web.NewMux(web.Options{
		Stores: stores,
		Services: web.Services{
			Receiver:      receiver,
			Autosave:      autosaver,
			SubmitGuard:   orchestrators.NewSubmitGuard(),
			SubmissionIDs: manuscript.NewIDGenerator(nil),
			DB:            timedDB,
		},
		Sessions:  sessions,
		Collector: collector,
		CSRFKey:   cfg.CSRFKey,
		Stop:      stopCh,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-sigCtx.Done()
	slog.Info("server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_failed", "error", err)
	}
	close(stopCh)
	if err := autosaver.Close(shutdownCtx); err != nil {
		slog.Error("autosave_flush_failed", "error", err)
	}
	slog.Info("server_stopped")
}
