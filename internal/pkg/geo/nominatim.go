package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dotoapp/doto-backend/internal/pkg/apperrors"
)

// coordPattern matches "lat, lon" location strings so they can be resolved
// without an HTTP round trip.
var coordPattern = regexp.MustCompile(`^(-?\d+\.?\d*),\s*(-?\d+\.?\d*)$`)

// GeocodeResult is a resolved location
type GeocodeResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// NominatimClient geocodes free-form location strings against the Nominatim
// search API, restricted to Israel.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a geocoding client. baseURL is the Nominatim
// root (e.g. https://nominatim.openstreetmap.org).
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a location string to a coordinate inside the supported
// region. Coordinate strings are parsed directly; anything else goes through
// the Nominatim search API. Results outside Israel bounds are rejected.
func (c *NominatimClient) Geocode(ctx context.Context, location string) (*GeocodeResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperrors.ErrLocationNotFound
	}

	if m := coordPattern.FindStringSubmatch(location); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lon, errLon := strconv.ParseFloat(m[2], 64)
		if errLat != nil || errLon != nil {
			return nil, apperrors.ErrLocationNotFound
		}
		if !IsWithinIsraelBounds(lat, lon) {
			return nil, apperrors.ErrOutsideIsrael
		}
		return &GeocodeResult{Lat: lat, Lon: lon, DisplayName: location}, nil
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", location)
	params.Set("limit", "1")
	params.Set("countrycodes", "il")
	params.Set("bounded", "1")
	params.Set("viewbox", "34.2,33.5,35.9,29.4") // lon_min,lat_max,lon_max,lat_min
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, apperrors.ErrLocationNotFound
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, apperrors.ErrLocationNotFound
	}

	if !IsWithinIsraelBounds(lat, lon) {
		return nil, apperrors.ErrOutsideIsrael
	}

	return &GeocodeResult{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}, nil
}
