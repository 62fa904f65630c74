// Package views is the default look of a sitekit site: server-rendered
// html/template pages exposed as templ components.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/sitekit"
	"github.com/eringen/sitekit/analytics"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	blogIndexTmpl   = page("blog_index.html")
	postTmpl        = page("post.html")
	pageTmpl        = page("page.html")
	loginTmpl       = page("admin_login.html")
	dashboardTmpl   = page("dashboard.html")
	notFoundTmpl    = page("not_found.html")
	serverErrorTmpl = page("server_error.html")
)

func page(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// component adapts a template execution to templ.Component.
func component(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// BlogIndexData is the data passed to the blog index template.
type BlogIndexData struct {
	Meta      sitekit.PageMeta
	Posts     []sitekit.Post
	ActiveTag string
	Tags      []string
}

// PostData is the data passed to the post template.
type PostData struct {
	Meta    sitekit.PageMeta
	Post    sitekit.Post
	Related []sitekit.Post
}

// PageData is the data passed to marketing page templates.
type PageData struct {
	Meta sitekit.PageMeta
	Page sitekit.Page
}

// AdminData is the data passed to the admin templates.
type AdminData struct {
	Meta        sitekit.PageMeta
	ShowError   bool
	CSRFToken   string
	Posts       []sitekit.Post
	Submissions []sitekit.Submission
	Images      []sitekit.Image
	Analytics   *analytics.Summary
	Message     string
}

func adminMeta(title string) sitekit.PageMeta {
	return sitekit.PageMeta{Title: title, OGType: "website"}
}

// Default returns the built-in view set.
func Default() sitekit.ViewFuncs {
	return sitekit.ViewFuncs{
		BlogIndex: func(meta sitekit.PageMeta, posts []sitekit.Post, activeTag string, tags []string) templ.Component {
			return component(blogIndexTmpl, BlogIndexData{Meta: meta, Posts: posts, ActiveTag: activeTag, Tags: tags})
		},
		Post: func(meta sitekit.PageMeta, post sitekit.Post, related []sitekit.Post) templ.Component {
			return component(postTmpl, PostData{Meta: meta, Post: post, Related: related})
		},
		Page: func(meta sitekit.PageMeta, p sitekit.Page) templ.Component {
			return component(pageTmpl, PageData{Meta: meta, Page: p})
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return component(loginTmpl, AdminData{Meta: adminMeta("Sign in"), ShowError: showError, CSRFToken: csrfToken})
		},
		Dashboard: func(data sitekit.DashboardData, csrfToken string) templ.Component {
			return component(dashboardTmpl, AdminData{
				Meta:        adminMeta("Dashboard"),
				CSRFToken:   csrfToken,
				Posts:       data.Posts,
				Submissions: data.Submissions,
				Images:      data.Images,
				Analytics:   data.Analytics,
				Message:     data.Message,
			})
		},
		NotFound: func() templ.Component {
			return component(notFoundTmpl, PageData{Meta: sitekit.PageMeta{Title: "Page not found"}})
		},
		ServerError: func() templ.Component {
			return component(serverErrorTmpl, PageData{Meta: sitekit.PageMeta{Title: "Something went wrong"}})
		},
	}
}
