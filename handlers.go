package sitekit

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAPIPost(c echo.Context) error {
	lang, slug := c.Param("lang"), c.Param("slug")
	post, err := a.Loader.LoadBlogPost(c.Request().Context(), slug, lang)
	switch {
	case errors.Is(err, ErrInvalidLanguage):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid language"))
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody("Post not found"))
	case err != nil:
		c.Logger().Errorf("load blog post %s/%s: %v", lang, slug, err)
		return c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAPIPosts(c echo.Context) error {
	lang := c.Param("lang")
	posts, err := a.Loader.LoadBlogPostsTagged(c.Request().Context(), lang, c.QueryParam("tag"))
	switch {
	case errors.Is(err, ErrInvalidLanguage):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid language"))
	case err != nil:
		c.Logger().Errorf("load blog posts %s: %v", lang, err)
		return c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", robotsCacheControl)
	return c.String(http.StatusOK, a.SEO.GenerateRobotsTxt())
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.AllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	body, err := a.SEO.Sitemap(posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (a *App) handleFeed(c echo.Context) error {
	lang := a.Langs.Default()
	if raw := c.Param("lang"); raw != "" {
		code, err := CanonicalLang(raw)
		if err != nil || !a.Langs.Supported(code) {
			return echo.ErrNotFound
		}
		lang = code
	}
	posts, err := a.Loader.LoadBlogPosts(c.Request().Context(), lang)
	if err != nil {
		return err
	}
	body, err := a.SEO.Feed(lang, posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}

// handleHome sends visitors to the blog in their preferred language.
func (a *App) handleHome(c echo.Context) error {
	lang := a.Langs.Negotiate(c.Request().Header.Get("Accept-Language"))
	c.Response().Header().Add("Vary", "Accept-Language")
	return c.Redirect(http.StatusFound, "/blog/"+lang+"/")
}

// pageLang resolves the :lang path parameter of a page route. A
// non-canonical spelling is redirected; unknown languages are 404.
func (a *App) pageLang(c echo.Context) (string, bool, error) {
	raw := c.Param("lang")
	code, err := CanonicalLang(raw)
	if err != nil || !a.Langs.Supported(code) {
		return "", false, echo.ErrNotFound
	}
	if code != raw {
		path := "/blog/" + code + "/"
		if slug := c.Param("slug"); slug != "" {
			path += slug + "/"
		}
		return "", true, c.Redirect(http.StatusMovedPermanently, path)
	}
	return code, false, nil
}

func (a *App) alternates(langs []string, segments func(lang string) []string) []Alternate {
	out := make([]Alternate, 0, len(langs))
	for _, l := range langs {
		out = append(out, Alternate{Lang: l, URL: BuildURL(a.Config.URL, segments(l)...)})
	}
	return out
}

func (a *App) handleBlogIndex(c echo.Context) error {
	lang, done, err := a.pageLang(c)
	if done || err != nil {
		return err
	}
	ctx := c.Request().Context()
	tag := c.QueryParam("tag")
	posts, err := a.Loader.LoadBlogPostsTagged(ctx, lang, tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags(ctx, lang)
	if err != nil {
		return err
	}
	meta := PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL, "blog", lang),
		OGType:      "website",
		Lang:        lang,
		Alternates:  a.alternates(a.Langs.Codes(), func(l string) []string { return []string{"blog", l} }),
		JSONLD:      a.SEO.WebsiteJSONLD(),
		SiteName:    a.Config.Name,
	}
	return renderPage(c, meta, a.Views.BlogIndex(meta, posts, tag, tags))
}

func (a *App) handlePost(c echo.Context) error {
	lang, done, err := a.pageLang(c)
	if done || err != nil {
		return err
	}
	ctx := c.Request().Context()
	slug := c.Param("slug")
	post, err := a.Loader.LoadBlogPost(ctx, slug, lang)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	posts, err := a.Loader.LoadBlogPosts(ctx, lang)
	if err != nil {
		return err
	}
	translations, err := a.Cache.Translations(ctx, lang, slug)
	if err != nil {
		return err
	}
	langs := []string{lang}
	for _, t := range translations {
		if a.Langs.Supported(t.Lang) {
			langs = append(langs, t.Lang)
		}
	}
	meta := PageMeta{
		Title:       post.Title + " | " + a.Config.Name,
		Description: post.Summary,
		URL:         BuildURL(a.Config.URL, "blog", lang, slug),
		OGType:      "article",
		Lang:        lang,
		Alternates:  a.alternates(langs, func(l string) []string { return []string{"blog", l, slug} }),
		JSONLD:      a.SEO.BlogPostingJSONLD(*post),
		SiteName:    a.Config.Name,
	}
	return renderPage(c, meta, a.Views.Post(meta, *post, FilterRelatedPosts(*post, posts)))
}

func (a *App) pageHandler(p Page) echo.HandlerFunc {
	return func(c echo.Context) error {
		meta := PageMeta{
			Title:       p.Title + " | " + a.Config.Name,
			Description: p.Description,
			URL:         BuildURL(a.Config.URL, p.Path),
			OGType:      "website",
			Lang:        a.Langs.Default(),
			JSONLD:      a.SEO.WebsiteJSONLD(),
			SiteName:    a.Config.Name,
		}
		return renderPage(c, meta, a.Views.Page(meta, p))
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		msg = "Internal server error"
	}

	if isAPIPath(c.Request().URL.Path) {
		_ = c.JSON(code, errorBody(msg))
		return
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, a.Views.NotFound())
	case code >= 500:
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
