package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"heading", "# Title", "<h1>Title</h1>\n"},
		{"heading level 3", "### Sub **bold**", "<h3>Sub <strong>bold</strong></h3>\n"},
		{"hash without space is text", "#hashtag", "<p>#hashtag</p>\n"},
		{"paragraph joins lines", "a\nb\n\nc", "<p>a b</p>\n<p>c</p>\n"},
		{"unordered list", "- a\n- b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n"},
		{"ordered list", "1. a\n2. b", "<ol>\n<li>a</li>\n<li>b</li>\n</ol>\n"},
		{"list then paragraph", "- a\ntext", "<ul>\n<li>a</li>\n</ul>\n<p>text</p>\n"},
		{"blockquote", "> hi\n> there", "<blockquote><p>hi there</p></blockquote>\n"},
		{"rule", "---", "<hr>\n"},
		{"fenced code with lang", "```go\nx := 1 < 2\n```", "<pre><code class=\"language-go\">x := 1 &lt; 2\n</code></pre>\n"},
		{"fenced code keeps markup", "```\n**not bold**\n```", "<pre><code>**not bold**\n</code></pre>\n"},
		{"unterminated fence is closed", "```\ncode", "<pre><code>code\n</code></pre>\n"},
		{"windows line endings", "a\r\n\r\nb", "<p>a</p>\n<p>b</p>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.input)
			if got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"use `a*b*c` here", "use <code>a*b*c</code> here"},
		{"a `b", "a `b"},
		{"[Go](https://go.dev)", `<a href="https://go.dev">Go</a>`},
		{"[Contact](/contact/)", `<a href="/contact/">Contact</a>`},
		{"![logo](/public/logo.png)", `<img src="/public/logo.png" alt="logo" loading="lazy">`},
		{"x < y & z", "x &lt; y &amp; z"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	got := Render("<script>alert(1)</script>")
	want := "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestUnsafeLinksDropped(t *testing.T) {
	for _, input := range []string{
		"[x](javascript:alert(1))",
		"[x](data:text/html;base64,AAAA)",
		"[x](//evil.example)",
		"![x](javascript:alert(1))",
	} {
		got := FormatInline(input)
		if strings.Contains(got, "href=") || strings.Contains(got, "src=") {
			t.Errorf("FormatInline(%q) = %q, expected unsafe target to be dropped", input, got)
		}
	}
}

func TestComponentRendersMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Component("# Hi").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != "<h1>Hi</h1>\n" {
		t.Errorf("component output = %q", buf.String())
	}
}
