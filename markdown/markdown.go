// Package markdown renders the Markdown subset used by blog posts to HTML.
//
// Raw HTML in the source is always escaped; links and images are only kept
// when their target is http(s), mailto or site-relative.
package markdown

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reOrdered = regexp.MustCompile(`^\d+\.\s+(.*)$`)
	reImage   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	reLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic  = regexp.MustCompile(`\*([^*]+)\*`)
)

// Component returns a templ.Component that renders md as HTML.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

// Render converts md to HTML.
func Render(md string) string {
	r := &renderer{}
	for _, raw := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(raw, "\r"))
	}
	if r.code {
		r.buf.WriteString("</code></pre>\n")
	}
	r.flush()
	return r.buf.String()
}

type renderer struct {
	buf   strings.Builder
	para  []string
	quote []string
	list  string // "ul", "ol" or ""
	code  bool
}

func (r *renderer) line(line string) {
	if r.code {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			r.buf.WriteString("</code></pre>\n")
			r.code = false
			return
		}
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteByte('\n')
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		r.flush()
		return
	}
	if strings.HasPrefix(trimmed, "```") {
		r.flush()
		if lang := strings.TrimSpace(trimmed[3:]); lang != "" {
			fmt.Fprintf(&r.buf, `<pre><code class="language-%s">`, html.EscapeString(lang))
		} else {
			r.buf.WriteString("<pre><code>")
		}
		r.code = true
		return
	}
	if level := headingLevel(trimmed); level > 0 {
		r.flush()
		text := strings.TrimSpace(trimmed[level:])
		fmt.Fprintf(&r.buf, "<h%d>%s</h%d>\n", level, FormatInline(text), level)
		return
	}
	if isRule(trimmed) {
		r.flush()
		r.buf.WriteString("<hr>\n")
		return
	}
	if strings.HasPrefix(trimmed, ">") {
		r.flushPara()
		r.flushList()
		r.quote = append(r.quote, strings.TrimSpace(trimmed[1:]))
		return
	}
	if kind, item, ok := listItem(trimmed); ok {
		r.flushPara()
		r.flushQuote()
		if r.list != kind {
			r.flushList()
			r.buf.WriteString("<" + kind + ">\n")
			r.list = kind
		}
		r.buf.WriteString("<li>" + FormatInline(item) + "</li>\n")
		return
	}
	r.flushList()
	r.flushQuote()
	r.para = append(r.para, trimmed)
}

func (r *renderer) flush() {
	r.flushPara()
	r.flushList()
	r.flushQuote()
}

func (r *renderer) flushPara() {
	if len(r.para) == 0 {
		return
	}
	r.buf.WriteString("<p>" + FormatInline(strings.Join(r.para, " ")) + "</p>\n")
	r.para = nil
}

func (r *renderer) flushQuote() {
	if len(r.quote) == 0 {
		return
	}
	r.buf.WriteString("<blockquote><p>" + FormatInline(strings.Join(r.quote, " ")) + "</p></blockquote>\n")
	r.quote = nil
}

func (r *renderer) flushList() {
	if r.list == "" {
		return
	}
	r.buf.WriteString("</" + r.list + ">\n")
	r.list = ""
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n == len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

func isRule(line string) bool {
	if len(line) < 3 || !strings.ContainsRune("-*_", rune(line[0])) {
		return false
	}
	return strings.Count(line, line[:1]) == len(line)
}

func listItem(line string) (kind, item string, ok bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, marker) {
			return "ul", strings.TrimSpace(line[len(marker):]), true
		}
	}
	if m := reOrdered.FindStringSubmatch(line); m != nil {
		return "ol", strings.TrimSpace(m[1]), true
	}
	return "", "", false
}

// FormatInline renders inline markup (code spans, images, links, bold,
// italic) for a single block of text.
func FormatInline(s string) string {
	parts := strings.Split(s, "`")
	var b strings.Builder
	for i, part := range parts {
		switch {
		case i%2 == 1 && i < len(parts)-1:
			b.WriteString("<code>" + html.EscapeString(part) + "</code>")
		case i%2 == 1:
			// unmatched backtick
			b.WriteString("`" + formatText(part))
		default:
			b.WriteString(formatText(part))
		}
	}
	return b.String()
}

func formatText(s string) string {
	s = html.EscapeString(s)
	s = reImage.ReplaceAllStringFunc(s, func(m string) string {
		sub := reImage.FindStringSubmatch(m)
		if !safeURL(sub[2]) {
			return sub[1]
		}
		return `<img src="` + sub[2] + `" alt="` + sub[1] + `" loading="lazy">`
	})
	s = reLink.ReplaceAllStringFunc(s, func(m string) string {
		sub := reLink.FindStringSubmatch(m)
		if !safeURL(sub[2]) {
			return sub[1]
		}
		return `<a href="` + sub[2] + `">` + sub[1] + `</a>`
	})
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	return s
}

// safeURL reports whether an (HTML-escaped) link target may be emitted.
func safeURL(escaped string) bool {
	u := strings.ToLower(html.UnescapeString(escaped))
	switch {
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "mailto:"):
		return true
	case strings.HasPrefix(u, "/"), strings.HasPrefix(u, "#"):
		return !strings.HasPrefix(u, "//")
	}
	return !strings.Contains(u, ":")
}
