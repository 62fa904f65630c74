package sitekit

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPage renders a localized page and advertises its language.
func renderPage(c echo.Context, meta PageMeta, cmp templ.Component) error {
	if meta.Lang != "" {
		c.Response().Header().Set("Content-Language", meta.Lang)
	}
	return Render(c, cmp)
}

// errorBody is the JSON error envelope used by every /api/ endpoint.
func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
