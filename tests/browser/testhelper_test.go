package browser_test

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/Tapin42/heat-training/internal/adapters/email"
	web "github.com/Tapin42/heat-training/internal/adapters/http"
	"github.com/Tapin42/heat-training/internal/adapters/http/perf"
	"github.com/Tapin42/heat-training/internal/config"
)

// captureSender records plan emails sent during a test run.
type captureSender struct {
	sent []email.SendRequest
}

// Send implements the email sender interface for testing.
// PRE: req has been validated by the orchestrator
// POST: Request recorded; returns a canned message id
func (c *captureSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	c.sent = append(c.sent, req)
	return email.SendResult{MessageID: "capture-msg-id", SentAt: time.Now()}, nil
}

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Sender  *captureSender
}

// newTestApp wires the full handler chain and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	// BaseURL carries the test port so the CSRF middleware trusts form posts.
	cfg := &config.Config{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Env:          "development",
		BaseURL:      baseURL,
		TemplatesDir: "internal/adapters/http/templates",
		StaticDir:    "static",
		GuidePath:    "docs/guide.md",
		RateLimit:    1000,
	}
	sender := &captureSender{}
	mux := web.NewMux(cfg, sender, perf.NewCollector(perf.DefaultRingSize))

	// Start HTTP server
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Sender:  sender,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})

	return app
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

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
