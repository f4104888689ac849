// Package config loads server settings from an optional config file plus
// HEAT_-prefixed environment variables. Environment values win over the file.
package config

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EmailConfig selects and configures the outbound email provider.
type EmailConfig struct {
	Provider string `json:"provider"` // "noop" or "resend"
	APIKey   string `json:"api_key"`
	From     string `json:"from"`
	ReplyTo  string `json:"reply_to"`
}

// Config holds all server settings.
type Config struct {
	Addr         string      `json:"addr"`
	Env          string      `json:"env"` // "development" or "production"
	BaseURL      string      `json:"base_url"`
	TemplatesDir string      `json:"templates_dir"`
	StaticDir    string      `json:"static_dir"`
	GuidePath    string      `json:"guide_path"`
	CSRFKey      string      `json:"csrf_key"` // 64 hex characters (32 bytes)
	RateLimit    int         `json:"rate_limit"`
	Email        EmailConfig `json:"email"`
}

// Load reads settings from the given file (optional; "" skips the file) and
// then applies HEAT_ environment overrides. HEAT_ADDR sets addr,
// HEAT_EMAIL__PROVIDER sets email.provider, and so on.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("HEAT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "heat_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Env == "" {
		c.Env = "development"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = "internal/adapters/http/templates"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.GuidePath == "" {
		c.GuidePath = "docs/guide.md"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 10
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "noop"
	}
	if c.Email.From == "" {
		c.Email.From = "Heat Training <plans@heat-training.example>"
	}
}

// Validate checks that loaded settings are usable.
// PRE: setDefaults has run
// POST: Returns nil only for a runnable configuration
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("env must be development or production, got %q", c.Env)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be positive, got %d", c.RateLimit)
	}
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("csrf_key must be 64 hex characters (32 bytes)")
		}
	} else if c.Env == "production" {
		return fmt.Errorf("csrf_key is required in production")
	}
	switch c.Email.Provider {
	case "noop":
	case "resend":
		if c.Email.APIKey == "" {
			return fmt.Errorf("email.api_key is required for the resend provider")
		}
	default:
		return fmt.Errorf("email.provider must be noop or resend, got %q", c.Email.Provider)
	}
	return nil
}
