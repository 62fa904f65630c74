package sitekit

import (
	"encoding/json"
	"strings"
)

// SEOService produces machine-readable site metadata: robots.txt, the
// sitemap, RSS feeds and JSON-LD blocks.
type SEOService struct {
	cfg   SiteConfig
	langs *Languages
	pages []Page
}

// NewSEOService creates an SEOService for the given site.
func NewSEOService(cfg SiteConfig, langs *Languages, pages []Page) *SEOService {
	return &SEOService{cfg: cfg, langs: langs, pages: pages}
}

// GenerateRobotsTxt returns the robots.txt body. Crawlers are kept out of the
// admin dashboard and the JSON API and pointed at the sitemap.
func (s *SEOService) GenerateRobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + strings.TrimRight(s.cfg.URL, "/") + "/sitemap.xml\n")
	return b.String()
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func (s *SEOService) WebsiteJSONLD() string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     s.cfg.Name,
		"url":      BuildURL(s.cfg.URL),
	}
	if s.cfg.Description != "" {
		data["description"] = s.cfg.Description
	}
	if s.langs != nil {
		data["inLanguage"] = s.langs.Codes()
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func (s *SEOService) BlogPostingJSONLD(post Post) string {
	postURL := BuildURL(s.cfg.URL, "blog", post.Lang, post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"inLanguage":    post.Lang,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	author := post.Author
	if author == "" {
		author = s.cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if s.cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  s.cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
