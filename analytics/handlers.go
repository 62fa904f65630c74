package analytics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether a client may send another beacon.
type Limiter interface {
	Allow(key string) bool
}

// Handler handles analytics HTTP requests.
type Handler struct {
	store   *Store
	limiter Limiter
}

// NewHandler creates a new analytics handler. limiter may be nil.
func NewHandler(store *Store, limiter Limiter) *Handler {
	return &Handler{store: store, limiter: limiter}
}

// CollectRequest is the expected request body for the collect endpoint.
type CollectRequest struct {
	Path        string `json:"path"`
	Referrer    string `json:"referrer"`
	ScreenSize  string `json:"screen_size"`
	UserAgent   string `json:"user_agent"`
	Lang        string `json:"lang"`
	DurationSec int    `json:"duration_sec"`
}

// Input validation limits for the collect endpoint.
const (
	maxPathLen       = 2048
	maxReferrerLen   = 2048
	maxScreenSizeLen = 32
	maxUserAgentLen  = 512
	maxLangLen       = 35
	maxDurationSec   = 86400
)

func validateCollectRequest(req *CollectRequest) error {
	switch {
	case req.Path == "":
		return fmt.Errorf("path is required")
	case len(req.Path) > maxPathLen:
		return fmt.Errorf("path exceeds maximum length of %d", maxPathLen)
	case len(req.Referrer) > maxReferrerLen:
		return fmt.Errorf("referrer exceeds maximum length of %d", maxReferrerLen)
	case len(req.ScreenSize) > maxScreenSizeLen:
		return fmt.Errorf("screen_size exceeds maximum length of %d", maxScreenSizeLen)
	case len(req.UserAgent) > maxUserAgentLen:
		return fmt.Errorf("user_agent exceeds maximum length of %d", maxUserAgentLen)
	case len(req.Lang) > maxLangLen:
		return fmt.Errorf("lang exceeds maximum length of %d", maxLangLen)
	case req.DurationSec < 0 || req.DurationSec > maxDurationSec:
		return fmt.Errorf("duration_sec must be between 0 and %d", maxDurationSec)
	}
	return nil
}

// Collect records a page view beacon. It always answers 204 unless the
// client is rate limited or sends an invalid body.
func (h *Handler) Collect(c echo.Context) error {
	ip := c.RealIP()
	if h.limiter != nil && !h.limiter.Allow(ip) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateCollectRequest(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	ctx := c.Request().Context()
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.Request().UserAgent()
	}

	if IsBot(userAgent) {
		bv := &BotVisit{
			BotName:   ExtractBotName(userAgent),
			IPHash:    h.store.HashIP(ip),
			UserAgent: userAgent,
			Path:      req.Path,
			Timestamp: time.Now().UTC(),
		}
		if err := h.store.SaveBotVisit(ctx, bv); err != nil {
			c.Logger().Errorf("analytics: save bot visit: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	visitorID := h.store.VisitorID(ip, userAgent)

	// A beacon with a duration is sent on unload and updates the existing
	// visit instead of adding a second one.
	if req.DurationSec > 0 {
		if err := h.store.UpdateVisitDuration(ctx, visitorID, req.Path, req.DurationSec); err != nil {
			c.Logger().Errorf("analytics: update visit duration: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	browser, os, device := ParseUserAgent(userAgent)
	visit := &Visit{
		VisitorID:  visitorID,
		IPHash:     h.store.HashIP(ip),
		Browser:    browser,
		OS:         os,
		Device:     device,
		Path:       req.Path,
		Referrer:   CleanReferrer(req.Referrer),
		ScreenSize: req.ScreenSize,
		Lang:       req.Lang,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.store.SaveVisit(ctx, visit); err != nil {
		c.Logger().Errorf("analytics: save visit: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ParseDays reads a ?days= value, clamped to [1, 365]; the default is 30.
func ParseDays(raw string) int {
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 30
	}
	if days > 365 {
		return 365
	}
	return days
}

// Stats returns the summary for the last ?days= days as JSON.
func (h *Handler) Stats(c echo.Context) error {
	days := ParseDays(c.QueryParam("days"))
	now := time.Now().UTC()
	sum, err := h.store.Summary(c.Request().Context(), now.AddDate(0, 0, -days), now.Add(time.Second))
	if err != nil {
		c.Logger().Errorf("analytics: stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, sum)
}

// RegisterRoutes mounts the public collect endpoint and the admin stats endpoint.
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/api/analytics/collect", h.Collect)
	e.GET("/admin/analytics/stats", h.Stats, auth)
}
