package browser_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/crypto/bcrypt"

	_ "modernc.org/sqlite"

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
	"journal/internal/domain/account"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Stores  *web.Stores
	Browser playwright.Browser
}

// newTestApp starts the full app on a temp SQLite file and launches
// Chromium. The test is skipped when Playwright or its browsers are not
// installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithReceiver(t, intake.LogReceiver{})
}

// newTestAppWithReceiver is newTestApp with a custom manuscript intake.
func newTestAppWithReceiver(t *testing.T, receiver intake.Receiver) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	account.HashCost = bcrypt.MinCost

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(db, dbPath); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	collector := perf.NewCollector(1000)
	tdb := storage.NewTimedDB(db, collector)
	stores := &web.Stores{
		CredentialStore: accountStore.NewSQLiteStore(tdb),
		SubmissionStore: submissionStore.NewSQLiteStore(tdb),
		ClientStorage:   clientstorage.NewSQLiteStore(tdb),
		AuditStore:      auditStore.NewSQLiteStore(tdb),
	}
	ctx := context.Background()
	if err := orchestrators.ExecuteSeedCredentials(ctx, orchestrators.SeedCredentialsDeps{CredentialStore: stores.CredentialStore}); err != nil {
		t.Fatalf("failed to seed credentials: %v", err)
	}
	if err := orchestrators.ExecuteSeedSubmissions(ctx, orchestrators.SeedSubmissionsDeps{SubmissionStore: stores.SubmissionStore}); err != nil {
		t.Fatalf("failed to seed submissions: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	// Trusted origins are read when the mux is built.
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)
	web.RateLimitPerSecond = 1000

	autosaver := orchestrators.NewDraftAutosaver(200*time.Millisecond, stores.ClientStorage)
	stopCh := make(chan struct{})
	handler := web.NewMux(web.Options{
		Stores: stores,
		Services: web.Services{
			Receiver: receiver,
			Autosave: autosaver,
			DB:       tdb,
		},
		Sessions:  middleware.NewSessionStore(time.Hour),
		Collector: collector,
		CSRFKey:   make([]byte, 32),
		Stop:      stopCh,
	})
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("test server error: %v", err)
		}
	}()

	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		db.Close()
		t.Skipf("playwright not installed: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		db.Close()
		t.Skipf("chromium not installed: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		close(stopCh)
		autosaver.Close(context.Background())
		db.Close()
	})

	return &testApp{
		BaseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		DB:      db,
		Stores:  stores,
		Browser: browser,
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in as the demo editor and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("#username").Fill("editor"); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("#password").Fill("ayurveda2025"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("#loginForm button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

func text(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()
	s, err := page.Locator(selector).TextContent()
	if err != nil {
		t.Fatalf("text of %s: %v", selector, err)
	}
	return s
}

// answerDialog waits for the action dialog, checks its message and presses OK.
func answerDialog(t *testing.T, page playwright.Page, wantSubstring string) {
	t.Helper()
	dialog := page.Locator("#actionDialog")
	if err := dialog.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		t.Fatalf("dialog did not open: %v", err)
	}
	if msg := text(t, page, "#actionDialogMessage"); !contains(msg, wantSubstring) {
		t.Fatalf("dialog message = %q, want it to contain %q", msg, wantSubstring)
	}
	if err := page.Locator("#actionDialogOk").Click(); err != nil {
		t.Fatalf("click OK: %v", err)
	}
	if err := dialog.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateHidden}); err != nil {
		t.Fatalf("dialog did not close: %v", err)
	}
}

// answerPrompt waits for a prompt, types reply and presses OK.
func answerPrompt(t *testing.T, page playwright.Page, wantSubstring, reply string) {
	t.Helper()
	input := page.Locator("#actionDialogInput")
	if err := input.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		t.Fatalf("prompt input did not show: %v", err)
	}
	if err := input.Fill(reply); err != nil {
		t.Fatalf("fill prompt: %v", err)
	}
	answerDialog(t, page, wantSubstring)
}
