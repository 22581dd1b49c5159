package teamupdates

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for a team-updates site. Values come
// from environment variables; secrets have no defaults and are validated at
// Start.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"Team Updates"`
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"SITE_DESCRIPTION"`

	Addr         string `env:"ADDR" envDefault:":3000"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/updates.db"`

	SessionSecret string `env:"SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"COOKIE_SECURE"`  // Set true for HTTPS
}

// ConfigFromEnv parses a SiteConfig from the process environment.
func ConfigFromEnv() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Team Updates"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/updates.db"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
// Uploaded images land in its uploads/ subdirectory.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
