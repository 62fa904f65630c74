// Package sitekit is the backend of a marketing and content website built
// with Go, Echo, and templ. It serves a localized blog as JSON and as pages,
// SEO endpoints (robots.txt, sitemap, RSS), marketing pages with lead forms,
// an admin dashboard and privacy-first analytics.
//
// Users provide their own templ components via the ViewFuncs struct, and
// sitekit handles the handler logic, middleware, and database operations.
package sitekit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/sitekit/analytics"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. Package views provides a default set.
type ViewFuncs struct {
	BlogIndex   func(meta PageMeta, posts []Post, activeTag string, tags []string) templ.Component
	Post        func(meta PageMeta, post Post, related []Post) templ.Component
	Page        func(meta PageMeta, page Page) templ.Component
	AdminLogin  func(showError bool, csrfToken string) templ.Component
	Dashboard   func(data DashboardData, csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central sitekit application. It wires together the store,
// cache, content loader, SEO service, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Loader *CachedLoader
	SEO    *SEOService
	Langs  *Languages
	Views  ViewFuncs

	loginLimiter   *RateLimiter
	formLimiter    *RateLimiter
	beaconLimiter  *RateLimiter
	analyticsStore *analytics.Store
	stopCleanup    func()
	customRoutes   []func(*App)
	staticDir      string
	pages          []Page
	forms          map[string]Page
	initialized    bool
}

var _ ContentLoader = (*CachedLoader)(nil)

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
		pages:     DefaultPages(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the databases and registers middleware and routes. It is
// called by Start; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	langs, err := NewLanguages(a.Config.Languages, a.Config.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("sitekit: languages: %w", err)
	}
	a.Langs = langs

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("sitekit: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.Loader = NewCachedLoader(a.Cache, langs)
	a.SEO = NewSEOService(a.Config, langs, a.pages)
	a.forms = formPages(a.pages)

	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.formLimiter = NewRateLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		analyticsStore, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("sitekit: init analytics: %w", err)
		}
		a.analyticsStore = analyticsStore
		a.beaconLimiter = NewRateLimiter(60, time.Minute)
		a.stopCleanup = analyticsStore.StartCleanupScheduler(365, 24*time.Hour)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start prepares the app and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Prepare(context.Background()); err != nil {
		return err
	}
	return a.Serve()
}

// Prepare initializes the app and imports static content when configured.
// It returns ctx.Err() if ctx is cancelled before the app is ready.
func (a *App) Prepare(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	if a.Config.ImportOnStart {
		res, err := a.ImportContent(ctx)
		if err != nil {
			return fmt.Errorf("sitekit: import content: %w", err)
		}
		a.Echo.Logger.Infof("imported %d posts from %s (%d files skipped)", res.Imported, a.Config.ContentDir, res.Skipped)
		for _, path := range res.Unsupported {
			a.Echo.Logger.Warnf("skipped %s: language is not configured", path)
		}
	}
	return ctx.Err()
}

// Serve listens on Config.Addr. It returns nil after Shutdown.
func (a *App) Serve() error {
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ImportContent loads Markdown posts from Config.ContentDir into the store.
func (a *App) ImportContent(ctx context.Context) (ImportResult, error) {
	return NewImporter(a.Store, a.Cache, a.Langs).ImportDir(ctx, a.Config.ContentDir)
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	for _, name := range []string{"analytics.js", "site.js"} {
		e.GET("/public/"+name, echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	}
	e.Static("/public", a.staticDir)

	// SEO
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog/:lang/feed.xml", a.handleFeed)

	// JSON API
	api := e.Group("/api")
	api.GET("/blog/posts/:lang/:slug", a.handleAPIPost)
	api.GET("/blog/posts/:lang", a.handleAPIPosts)
	api.GET("/geo-location", handleGeoLocation)
	api.POST("/forms/:form", a.handleFormSubmit)

	// Pages
	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleHome)
	e.GET("/blog/", a.handleHome)
	e.GET("/blog/:lang/", a.handleBlogIndex)
	e.GET("/blog/:lang/:slug/", a.handlePost)
	for _, p := range a.pages {
		e.GET(p.Path, a.pageHandler(p))
	}

	// Admin dashboard
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:lang/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:lang/:slug/", a.handleAdminDelete)
	e.POST("/admin/images/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	if a.analyticsStore != nil {
		h := analytics.NewHandler(a.analyticsStore, a.beaconLimiter)
		h.RegisterRoutes(e, requireAdmin)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	for _, l := range []*RateLimiter{a.loginLimiter, a.formLimiter, a.beaconLimiter} {
		if l != nil {
			l.Stop()
		}
	}
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.analyticsStore != nil {
		errs = append(errs, a.analyticsStore.Close())
	}
	return errors.Join(errs...)
}
