package views

import (
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/sitekit/markdown"
)

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "tag"
	if active {
		base += " tag-active"
	}
	return base
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// FormatDate renders a YYYY-MM-DD date as "Jan 2, 2006". Unparseable
// input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

var funcs = template.FuncMap{
	"pathEscape": PathEscape,
	"tagClass":   TagClass,
	"joinTags":   JoinTags,
	"formatDate": FormatDate,
	// rawHTML marks already rendered post HTML as safe.
	"rawHTML": func(s string) template.HTML { return template.HTML(s) },
	// markdown renders page bodies.
	"markdown": func(s string) template.HTML { return template.HTML(markdown.Render(s)) },
	// jsonld embeds a JSON-LD document in a script element.
	"jsonld": func(s string) template.JS { return template.JS(s) },
}
