// Package config provides configuration management for the equivalence panel
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds the runtime configuration
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Backend BackendConfig
	Panel   PanelConfig
	Logging LoggingConfig
}

// ServerConfig holds panel server settings
type ServerConfig struct {
	Port         string `env:"PORT" envDefault:"8090"`
	Mode         string `env:"SERVER_MODE" envDefault:"release"`
	ReadTimeout  int    `env:"SERVER_READ_TIMEOUT" envDefault:"30"`
	WriteTimeout int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// AuthConfig holds panel session cookie settings
type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MaxSessions int           `env:"SESSION_MAX" envDefault:"1000"`
	CookieName  string        `env:"SESSION_COOKIE" envDefault:"equivalencias_panel"`
	Secure      bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:8090,http://127.0.0.1:8090" envSeparator:","`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
}

// BackendConfig points at the equivalence REST backend
type BackendConfig struct {
	URL     string        `env:"BACKEND_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
}

// PanelConfig holds presentation settings
type PanelConfig struct {
	Locale   string        `env:"PANEL_LOCALE" envDefault:"pt-BR"`
	ToastTTL time.Duration `env:"TOAST_TTL" envDefault:"5s"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and parses the environment into a Config
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}
	return Parse()
}

// Parse parses the current environment into a Config and validates it
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitString(strings.Join(cfg.CORS.AllowedOrigins, ","))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", c.Backend.URL)
	}
	switch c.Server.Mode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("SERVER_MODE must be release, debug or test, got %q", c.Server.Mode)
	}
	if _, err := language.Parse(c.Panel.Locale); err != nil {
		return fmt.Errorf("PANEL_LOCALE %q: %w", c.Panel.Locale, err)
	}
	if c.Panel.ToastTTL <= 0 {
		return fmt.Errorf("TOAST_TTL must be positive")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Auth.MaxSessions <= 0 {
		return fmt.Errorf("SESSION_MAX must be positive")
	}
	return nil
}

// LocaleTag returns the parsed panel locale, falling back to Brazilian Portuguese
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Panel.Locale)
	if err != nil {
		return language.BrazilianPortuguese
	}
	return tag
}

// EnsureSecret fills an empty JWT secret with a random one and reports whether it did
func (c *Config) EnsureSecret() bool {
	if c.Auth.JWTSecret != "" {
		return false
	}
	c.Auth.JWTSecret = GenerateJWTSecret()
	return true
}

// GenerateJWTSecret generates a secure random JWT secret
func GenerateJWTSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "equivalencias-fallback-secret-" + uuid.New().String()
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// splitString splits a comma-separated string into a slice
func splitString(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
