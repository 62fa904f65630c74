package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/sitekit"
	"github.com/eringen/sitekit/analytics"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestBlogIndex(t *testing.T) {
	v := Default()
	meta := sitekit.PageMeta{
		Title:      "Acme",
		URL:        "https://acme.test/blog/en/",
		Lang:       "en",
		Alternates: []sitekit.Alternate{{Lang: "en", URL: "https://acme.test/blog/en/"}, {Lang: "de", URL: "https://acme.test/blog/de/"}},
		JSONLD:     `{"@type":"WebSite"}`,
	}
	posts := []sitekit.Post{{Lang: "en", Slug: "hello", Title: "Hello <World>", Date: "2024-01-02", Link: "/blog/en/hello/"}}
	out := render(t, v.BlogIndex(meta, posts, "go", []string{"go", "web"}))

	for _, want := range []string{
		`<html lang="en">`,
		`<link rel="canonical" href="https://acme.test/blog/en/">`,
		`hreflang="de" href="https://acme.test/blog/de/"`,
		`<script type="application/ld+json">{"@type":"WebSite"}</script>`,
		`Hello &lt;World&gt;`,
		`Jan 2, 2024`,
		`class="tag tag-active" href="?tag=go"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestPostRendersHTML(t *testing.T) {
	v := Default()
	post := sitekit.Post{Lang: "en", Slug: "hello", Title: "Hello", Date: "2024-01-02", HTML: "<p><strong>hi</strong></p>"}
	related := []sitekit.Post{{Title: "Other", Link: "/blog/en/other/"}}
	out := render(t, v.Post(sitekit.PageMeta{Title: "Hello", Lang: "en"}, post, related))

	if !strings.Contains(out, "<p><strong>hi</strong></p>") {
		t.Error("post HTML should be rendered unescaped")
	}
	if !strings.Contains(out, `<a href="/blog/en/other/">Other</a>`) {
		t.Error("related posts should be listed")
	}
}

func TestPageWithForm(t *testing.T) {
	v := Default()
	page := sitekit.Page{Path: "/forms/demo/", Title: "Request a demo", Body: "Leave your **details**.", Form: "demo"}
	out := render(t, v.Page(sitekit.PageMeta{Title: "Demo", Lang: "en"}, page))

	for _, want := range []string{
		`action="/api/forms/demo"`,
		`<strong>details</strong>`,
		`name="website"`,
		`name="message"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	news := sitekit.Page{Path: "/forms/newsletter/", Title: "Newsletter", Form: "newsletter"}
	if out := render(t, v.Page(sitekit.PageMeta{}, news)); strings.Contains(out, `name="message"`) {
		t.Error("newsletter form should only ask for an email")
	}
}

func TestAdminViews(t *testing.T) {
	v := Default()

	login := render(t, v.AdminLogin(true, "tok123"))
	if !strings.Contains(login, `value="tok123"`) || !strings.Contains(login, "Wrong password") {
		t.Errorf("login view = %q", login)
	}

	dash := render(t, v.Dashboard(sitekit.DashboardData{
		Posts:       []sitekit.Post{{Lang: "de", Slug: "hallo", Title: "Hallo", Published: false}},
		Submissions: []sitekit.Submission{{Form: "contact", Email: "a@example.com"}},
		Images:      []sitekit.Image{{Filename: "hero.jpg", Width: 10, Height: 5}},
		Analytics:   &analytics.Summary{Period: "2024-01-01 to 2024-01-31", TotalViews: 42},
		Message:     "saved",
	}, "tok"))
	for _, want := range []string{
		"draft",
		"a@example.com",
		"/public/uploads/hero.jpg",
		"42 views",
		`data-delete="/admin/post/de/hallo/"`,
		"saved",
	} {
		if !strings.Contains(dash, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestErrorViews(t *testing.T) {
	v := Default()
	if out := render(t, v.NotFound()); !strings.Contains(out, "Page not found") {
		t.Errorf("NotFound = %q", out)
	}
	if out := render(t, v.ServerError()); !strings.Contains(out, "Something went wrong") {
		t.Errorf("ServerError = %q", out)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-03-09"); got != "Mar 9, 2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("soon"); got != "soon" {
		t.Errorf("FormatDate(soon) = %q", got)
	}
}
