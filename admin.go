package sitekit

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
)

// dashboardSubmissions is how many recent submissions the dashboard lists.
const dashboardSubmissions = 50

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

// adminPost exposes the draft flag that the public JSON hides.
type adminPost struct {
	Post
	Published bool `json:"published"`
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetPostAny(c.Request().Context(), c.Param("lang"), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, adminPost{Post: post, Published: post.Published})
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func adminRedirect(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	lang, err := CanonicalLang(c.FormValue("lang"))
	if err != nil || !a.Langs.Supported(lang) {
		return adminRedirect(c, "Unsupported language.")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return adminRedirect(c, "Title is required.")
	}
	s := strings.TrimSpace(c.FormValue("slug"))
	if s == "" {
		s = slug.Make(title)
	}
	if !slug.IsSlug(s) {
		return adminRedirect(c, "Slug may only contain lowercase letters, digits and dashes.")
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return adminRedirect(c, "Invalid date format. Use YYYY-MM-DD.")
	}
	tags := strings.Split(c.FormValue("tags"), ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}

	if err := a.Store.SavePost(c.Request().Context(), Post{
		Lang:      lang,
		Slug:      s,
		Title:     title,
		Date:      date,
		Author:    strings.TrimSpace(c.FormValue("author")),
		Tags:      FilterEmpty(tags),
		Summary:   c.FormValue("summary"),
		Content:   c.FormValue("content"),
		Published: c.FormValue("published") != "",
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Store.DeletePost(c.Request().Context(), c.Param("lang"), c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	posts, err := a.Store.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	subs, err := a.Store.ListSubmissions(ctx, dashboardSubmissions)
	if err != nil {
		return err
	}
	images, err := a.Store.ListImages(ctx)
	if err != nil {
		return err
	}
	data := DashboardData{Posts: posts, Submissions: subs, Images: images, Message: msg}
	if a.analyticsStore != nil {
		now := time.Now().UTC()
		sum, err := a.analyticsStore.Summary(ctx, now.AddDate(0, 0, -30), now)
		if err != nil {
			c.Logger().Errorf("analytics summary: %v", err)
		} else {
			data.Analytics = sum
		}
	}
	return Render(c, a.Views.Dashboard(data, CsrfToken(c)))
}
