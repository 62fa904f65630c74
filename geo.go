package sitekit

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DefaultGeoLocation is returned by /api/geo-location. There is no IP lookup
// behind it; clients use it as the fallback location.
var DefaultGeoLocation = GeoLocation{
	Country:     "United States",
	CountryCode: "US",
	Region:      "",
	City:        "",
	Latitude:    0,
	Longitude:   0,
	Timezone:    "UTC",
	Source:      "default",
}

func handleGeoLocation(c echo.Context) error {
	return c.JSON(http.StatusOK, DefaultGeoLocation)
}
