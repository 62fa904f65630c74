package sitekit

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const sessionName = "admin_session"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	// API routes are registered without a trailing slash; /api/x/ is served as /api/x.
	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !isAPIPath(c.Request().URL.Path)
		},
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return classifyPath(c.Request().URL.Path) == routeAsset
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'; form-action 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		// Public API posts (forms, beacons) come from cached pages and
		// scripts; they carry no session and are rate limited instead.
		Skipper: func(c echo.Context) bool {
			return isAPIPath(c.Request().URL.Path)
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return !classifyPath(c.Request().URL.Path).wantsSlash()
		},
	}))

	e.Use(cacheControlMiddleware)
}

// routeKind groups request paths by how they are cached and canonicalized.
type routeKind int

const (
	routePage routeKind = iota
	routeAsset
	routeFeed // robots.txt, sitemap and RSS
	routeAdmin
	routeAdminAPI // JSON endpoints below /admin/analytics/
	routeBlogAPI
	routeAPI
	routeBlogRoot // bare /blog, redirected by the home handler
)

func classifyPath(path string) routeKind {
	switch {
	case strings.HasPrefix(path, "/public/") || path == "/public":
		return routeAsset
	case path == "/robots.txt" || strings.HasSuffix(path, ".xml"):
		return routeFeed
	case strings.HasPrefix(path, "/admin/analytics/"):
		return routeAdminAPI
	case strings.HasPrefix(path, "/admin"):
		return routeAdmin
	case strings.HasPrefix(path, "/api/blog/"):
		return routeBlogAPI
	case isAPIPath(path):
		return routeAPI
	case path == "/blog":
		return routeBlogRoot
	}
	return routePage
}

// wantsSlash reports whether canonical URLs of this kind end in a slash.
func (k routeKind) wantsSlash() bool {
	return k == routePage || k == routeAdmin
}

// cacheControl is the header value for successful responses of this kind.
func (k routeKind) cacheControl() string {
	switch k {
	case routeAsset:
		return "public, max-age=31536000, immutable"
	case routeFeed:
		return robotsCacheControl
	case routeBlogAPI:
		return "public, max-age=300"
	case routeAdmin, routeAdminAPI, routeAPI:
		return "no-store"
	}
	return "public, max-age=3600"
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// robotsCacheControl caches robots.txt, the sitemap and feeds for 24 hours.
const robotsCacheControl = "public, max-age=86400"

// cacheControlMiddleware sets Cache-Control by route kind. Error responses
// are never stored by shared caches.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := c.Response()
		res.Header().Set("Cache-Control", classifyPath(c.Request().URL.Path).cacheControl())
		res.Before(func() {
			if res.Status >= http.StatusBadRequest {
				res.Header().Set("Cache-Control", "no-store")
			}
		})
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin checks if the current session is authenticated.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

// requireAdmin redirects anonymous requests to the login page.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}

func setAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["authenticated"] = true
	return sess.Save(c.Request(), c.Response())
}

func clearAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
