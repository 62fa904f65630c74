package sitekit

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for a sitekit site.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"Blog"`
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Description string `env:"SITE_DESCRIPTION"`
	Author      string `env:"SITE_AUTHOR"`

	Addr         string `env:"ADDR" envDefault:":3000"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/site.db"`

	AnalyticsEnabled      bool   `env:"ANALYTICS_ENABLED" envDefault:"true"`
	AnalyticsDatabasePath string `env:"ANALYTICS_DATABASE_PATH" envDefault:"data/analytics.db"`

	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`
	CookieSecure  bool   `env:"COOKIE_SECURE"`

	PostCacheTTL time.Duration `env:"POST_CACHE_TTL" envDefault:"5m"`

	Languages       []string `env:"SITE_LANGUAGES" envSeparator:"," envDefault:"en"`
	DefaultLanguage string   `env:"SITE_DEFAULT_LANGUAGE"`

	ContentDir    string `env:"CONTENT_DIR" envDefault:"content"`
	ImportOnStart bool   `env:"IMPORT_ON_START" envDefault:"true"`
}

// LoadConfig reads SiteConfig from the environment.
func LoadConfig() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("sitekit: parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{"en"}
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = c.Languages[0]
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
}

// Validate reports configuration that would prevent the server from starting.
func (c *SiteConfig) Validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("sitekit: AdminPassword is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("sitekit: SessionSecret is required")
	}
	if _, err := NewLanguages(c.Languages, c.DefaultLanguage); err != nil {
		return fmt.Errorf("sitekit: languages: %w", err)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithPages replaces the marketing page registry (default DefaultPages()).
func WithPages(pages []Page) Option {
	return func(a *App) {
		a.pages = pages
	}
}
