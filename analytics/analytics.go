// Package analytics provides privacy-first page view analytics for the
// marketing site: no cookies, salted IP hashes, bots counted separately.
package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// Visit represents a single page view.
type Visit struct {
	ID          int64
	VisitorID   string // salted hash of IP + User-Agent
	IPHash      string
	Browser     string
	OS          string
	Device      string // Desktop, Mobile, Tablet
	Path        string
	Referrer    string
	ScreenSize  string
	Lang        string
	Timestamp   time.Time
	DurationSec int
}

// BotVisit represents a single crawler page view.
type BotVisit struct {
	ID        int64
	BotName   string
	IPHash    string
	UserAgent string
	Path      string
	Timestamp time.Time
}

// Summary holds aggregated analytics for a period.
type Summary struct {
	Period         string          `json:"period"`
	TotalViews     int             `json:"total_views"`
	UniqueVisitors int             `json:"unique_visitors"`
	BotVisits      int             `json:"bot_visits"`
	TopPages       []PageStat      `json:"top_pages"`
	TopReferrers   []DimensionStat `json:"top_referrers"`
}

// PageStat represents page view statistics.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DimensionStat represents a dimension breakdown (referrer, browser, ...).
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func saltedHash(salt string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ParseUserAgent extracts browser, OS, and device from a User-Agent string.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	// more specific browsers first: Edge and Opera UAs also contain "chrome"
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// Android UAs contain "linux"
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}
	return
}

var botNames = []struct{ pattern, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"slurp", "Yahoo Slurp"},
	{"crawler", "Generic Crawler"},
	{"spider", "Generic Spider"},
	{"scrape", "Generic Scraper"},
}

// IsBot reports whether the User-Agent is likely a bot or crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	if strings.Contains(ua, "bot") || strings.Contains(ua, "crawl") {
		return true
	}
	for _, b := range botNames {
		if strings.Contains(ua, b.pattern) {
			return true
		}
	}
	return false
}

// ExtractBotName maps a crawler User-Agent to a display name.
func ExtractBotName(ua string) string {
	ua = strings.ToLower(ua)
	for _, b := range botNames {
		if strings.Contains(ua, b.pattern) {
			return b.name
		}
	}
	if strings.Contains(ua, "bot") {
		return "Other Bot"
	}
	return "Unknown"
}

var referrerDomainRegex = regexp.MustCompile(`^https?://(?:www\.)?([^/:]+)`)

// CleanReferrer reduces a referrer URL to a source name or domain.
func CleanReferrer(ref string) string {
	if ref == "" {
		return "Direct"
	}
	lower := strings.ToLower(ref)
	for _, engine := range []struct{ needle, name string }{
		{"google.", "Google"},
		{"bing.", "Bing"},
		{"duckduckgo.", "DuckDuckGo"},
		{"linkedin.", "LinkedIn"},
	} {
		if strings.Contains(lower, engine.needle) {
			return engine.name
		}
	}
	if m := referrerDomainRegex.FindStringSubmatch(lower); len(m) > 1 {
		return m[1]
	}
	return "Other"
}
