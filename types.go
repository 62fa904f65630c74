package sitekit

import "github.com/eringen/sitekit/analytics"

// Post is a localized blog post. The pair (Lang, Slug) identifies it.
type Post struct {
	Lang      string   `json:"lang"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Author    string   `json:"author,omitempty"`
	Tags      []string `json:"tags"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	HTML      string   `json:"html,omitempty"`
	Link      string   `json:"link"`
	Published bool     `json:"-"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// Submission is a contact or direct marketing form entry.
type Submission struct {
	ID        int64  `json:"id"`
	Form      string `json:"form"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Message   string `json:"message,omitempty"`
	Page      string `json:"page,omitempty"`
	Lang      string `json:"lang,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Image is an uploaded picture served from /public/uploads/.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}

// URL returns the public path of the image.
func (i Image) URL() string {
	return "/public/" + uploadsSubdir + "/" + i.Filename
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Lang        string
	Alternates  []Alternate
	JSONLD      string
	SiteName    string
}

// Alternate is an hreflang link to a translation of the current page.
type Alternate struct {
	Lang string
	URL  string
}

// GeoLocation is the body of /api/geo-location.
type GeoLocation struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	Source      string  `json:"source"`
}

// DashboardData is everything the admin dashboard renders.
type DashboardData struct {
	Posts       []Post
	Submissions []Submission
	Images      []Image
	Analytics   *analytics.Summary
	Message     string
}
