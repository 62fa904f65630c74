package sitekit

import (
	"bytes"
	"encoding/xml"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders the XML sitemap: home, marketing pages, one blog index per
// language and every published post in a configured language.
func (s *SEOService) Sitemap(posts []Post) ([]byte, error) {
	base := s.cfg.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, p := range s.pages {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, p.Path)})
	}
	if s.langs != nil {
		for _, lang := range s.langs.Codes() {
			urls = append(urls, sitemapURL{Loc: BuildURL(base, "blog", lang)})
		}
	}
	for _, p := range posts {
		if s.langs != nil && !s.langs.Supported(p.Lang) {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Lang, p.Slug),
			LastMod: p.Date,
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(sitemap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
