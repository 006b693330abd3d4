package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/triage-api/schema"
)

// parseGeoPosition will parse latitude and longitude from the geo-position string
func parseGeoPosition(geoPosition string) (float64, float64, error) {
	positions := strings.Split(geoPosition, ";")

	if len(positions) != 2 {
		return 0, 0, fmt.Errorf("invalid geo-position value")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(positions[0]), 64)
	if err != nil {
		return 0, 0, err
	}

	long, err := strconv.ParseFloat(strings.TrimSpace(positions[1]), 64)
	if err != nil {
		return 0, 0, err
	}

	return lat, long, nil
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// regions lists the states and local government areas a patient can pick
func (s *Server) regions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"regions": schema.RegionList(),
	})
}
