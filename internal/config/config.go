// Package config loads the HTTP server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-regform/pkg/render"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	Addr            string        `env:"REGFORM_ADDR" envDefault:":8080"`
	Env             string        `env:"REGFORM_ENV" envDefault:"development"`
	LogLevel        string        `env:"REGFORM_LOG_LEVEL" envDefault:"info"`
	Locale          string        `env:"REGFORM_LOCALE" envDefault:"id"`
	ThemeVariant    string        `env:"REGFORM_THEME_VARIANT" envDefault:"dark"`
	TrustedOrigins  []string      `env:"REGFORM_CSRF_TRUSTED_ORIGINS" envSeparator:","`
	SessionLifetime time.Duration `env:"REGFORM_SESSION_LIFETIME" envDefault:"30m"`
	TemplateDir     string        `env:"REGFORM_TEMPLATE_DIR"`
}

// IsDevelopment returns true if the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Level returns the parsed log level. Load has already validated it.
func (c Config) Level() slog.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Unknown log levels, locales and theme variants are errors,
// as is a template directory that does not exist.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if !render.DefaultCatalog().HasLocale(cfg.Locale) {
		return nil, fmt.Errorf("REGFORM_LOCALE %q is not one of %s",
			cfg.Locale, strings.Join(render.DefaultCatalog().Locales(), ", "))
	}
	if _, err := render.ResolveTheme(render.DefaultThemeManifest(), cfg.ThemeVariant); err != nil {
		return nil, fmt.Errorf("REGFORM_THEME_VARIANT: %w", err)
	}
	if cfg.SessionLifetime <= 0 {
		return nil, fmt.Errorf("REGFORM_SESSION_LIFETIME must be positive, got %s", cfg.SessionLifetime)
	}

	if cfg.TemplateDir != "" {
		info, err := os.Stat(cfg.TemplateDir)
		if err != nil {
			return nil, fmt.Errorf("REGFORM_TEMPLATE_DIR: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("REGFORM_TEMPLATE_DIR %q is not a directory", cfg.TemplateDir)
		}
	}

	origins := cfg.TrustedOrigins[:0]
	for _, origin := range cfg.TrustedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.TrustedOrigins = origins

	return cfg, nil
}

// ParseLogLevel maps debug, info, warn and error (case-insensitive) to the
// slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("REGFORM_LOG_LEVEL %q is not one of debug, info, warn, error", name)
	}
}
