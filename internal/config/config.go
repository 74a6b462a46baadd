// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package config loads server configuration from file, flags, and environment.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values applied when neither file nor flags set a key.
const (
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultBaseURL     = "http://localhost:8080"

	DefaultIdentityTokenTTL = 24 * time.Hour
	DefaultConfirmTokenTTL  = 24 * time.Hour
	DefaultResetTokenTTL    = time.Hour
)

// Config holds all runtime configuration for the API server.
type Config struct {
	HTTP     HTTPConfig  `koanf:"http"`
	Log      LogConfig   `koanf:"log"`
	Database DBConfig    `koanf:"database"`
	Token    TokenConfig `koanf:"token"`
	Mail     MailConfig  `koanf:"mail"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	// BaseURL is the externally visible URL used when building
	// confirmation and password-reset links.
	BaseURL string `koanf:"base_url"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"`
}

// DBConfig configures the PostgreSQL connection.
type DBConfig struct {
	URL string `koanf:"url"`
}

// TokenConfig configures the credential service.
type TokenConfig struct {
	// Secret is the HMAC signing key. Falls back to the INKWELL_TOKEN_SECRET
	// environment variable when not set in the file.
	Secret      string        `koanf:"secret"`
	IdentityTTL time.Duration `koanf:"identity_ttl"`
	ConfirmTTL  time.Duration `koanf:"confirm_ttl"`
	ResetTTL    time.Duration `koanf:"reset_ttl"`
}

// MailConfig configures the SMTP mail dispatcher.
type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// Load reads configuration from an optional YAML file and an optional flag
// set, in that order (flags win). Secrets absent from both fall back to
// environment variables: INKWELL_TOKEN_SECRET, DATABASE_URL, INKWELL_SMTP_PASSWORD.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("operation", "load flags").
				Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	cfg.applyDefaults()
	cfg.applyEnvFallbacks()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.MetricsAddr == "" {
		c.HTTP.MetricsAddr = DefaultMetricsAddr
	}
	if c.HTTP.BaseURL == "" {
		c.HTTP.BaseURL = DefaultBaseURL
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Token.IdentityTTL == 0 {
		c.Token.IdentityTTL = DefaultIdentityTokenTTL
	}
	if c.Token.ConfirmTTL == 0 {
		c.Token.ConfirmTTL = DefaultConfirmTokenTTL
	}
	if c.Token.ResetTTL == 0 {
		c.Token.ResetTTL = DefaultResetTokenTTL
	}
}

func (c *Config) applyEnvFallbacks() {
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("DATABASE_URL")
	}
	if c.Token.Secret == "" {
		c.Token.Secret = os.Getenv("INKWELL_TOKEN_SECRET")
	}
	if c.Mail.Password == "" {
		c.Mail.Password = os.Getenv("INKWELL_SMTP_PASSWORD")
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set database.url or DATABASE_URL)")
	}
	if c.Token.Secret == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("token secret is required (set token.secret or INKWELL_TOKEN_SECRET)")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}
