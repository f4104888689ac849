package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Tapin42/heat-training/internal/adapters/email"
	"github.com/Tapin42/heat-training/internal/adapters/http/middleware"
	"github.com/Tapin42/heat-training/internal/adapters/http/perf"
	"github.com/Tapin42/heat-training/internal/config"
)

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by NewMux)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// baseURL is the absolute site root used in outbound links.
var baseURL string

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey decodes the hex-encoded 32-byte CSRF secret from the config.
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(keyHex, environment string) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("csrf_key must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if environment == "production" {
		log.Fatal("csrf_key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (tokens won't survive restart). Set HEAT_CSRF_KEY for production.")
	return key
}

// trustedOrigins returns hosts allowed as CSRF request origins: the configured
// site plus local development addresses.
func trustedOrigins(base string) []string {
	origins := []string{"localhost:8080", "127.0.0.1:8080"}
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		origins = append(origins, u.Host)
	}
	return origins
}

// NewMux wires HTTP handlers for the app.
func NewMux(cfg *config.Config, sender email.Sender, collector *perf.Collector) http.Handler {
	perfCollector = collector
	emailSender = sender
	emailFromAddress = cfg.Email.From
	emailReplyTo = cfg.Email.ReplyTo
	baseURL = cfg.BaseURL
	guidePath = cfg.GuidePath
	if cfg.TemplatesDir != "" {
		templatesDir = cfg.TemplatesDir
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from config
	csrfKey := loadCSRFKey(cfg.CSRFKey, cfg.Env)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	rate := RateLimitPerSecond
	if cfg.RateLimit > 0 {
		rate = cfg.RateLimit
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Apply middleware: Timing -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, trustedOrigins(cfg.BaseURL)),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
