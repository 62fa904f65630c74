package sitekit

// Page kinds.
const (
	PageContact  = "contact"
	PageSolution = "solution"
	PageForm     = "form"
)

// Page is a server-rendered marketing page. Pages with a Form key accept
// submissions at /api/forms/<Form>.
type Page struct {
	Kind        string
	Path        string // site-relative, with trailing slash
	Title       string
	Description string
	Body        string // Markdown
	Form        string
}

// DefaultPages returns the built-in marketing pages.
func DefaultPages() []Page {
	return []Page{
		{
			Kind:        PageContact,
			Path:        "/contact/",
			Title:       "Contact us",
			Description: "Questions, partnerships or press: send us a message and we reply within one business day.",
			Body:        "We read every message. Tell us a bit about your team and what you are trying to do.",
			Form:        "contact",
		},
		{
			Kind:        PageSolution,
			Path:        "/solutions/content-teams/",
			Title:       "Solutions for content teams",
			Description: "Publish localized articles from Markdown with previews, drafts and SEO built in.",
			Body:        "## Write once, publish everywhere\n\nDrafts, translations and feeds are handled for you.\n\n- Markdown with front matter\n- One post per language\n- Sitemap and RSS per language",
		},
		{
			Kind:        PageSolution,
			Path:        "/solutions/marketing/",
			Title:       "Solutions for marketing",
			Description: "Landing pages and lead forms that land straight in your dashboard.",
			Body:        "## Capture leads without a CRM\n\nEvery form submission is stored and listed in the dashboard.",
		},
		{
			Kind:        PageForm,
			Path:        "/forms/demo/",
			Title:       "Request a demo",
			Description: "Book a 30 minute walkthrough with our team.",
			Body:        "Leave your details and we will schedule a call.",
			Form:        "demo",
		},
		{
			Kind:        PageForm,
			Path:        "/forms/newsletter/",
			Title:       "Newsletter",
			Description: "One email a month with new articles and product updates.",
			Form:        "newsletter",
		},
	}
}

// formPages indexes pages by their form key.
func formPages(pages []Page) map[string]Page {
	out := make(map[string]Page)
	for _, p := range pages {
		if p.Form != "" {
			out[p.Form] = p
		}
	}
	return out
}
