// Package nominatim geocodes addresses with the OpenStreetMap Nominatim
// search API. It needs no API key but the public instance requires an
// identifying User-Agent and at most one request per second.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/solar-lookup/internal/common"
	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

const provider = "nominatim"

// Client implements domain.Geocoder against a Nominatim instance.
type Client struct {
	baseURL     string
	countryCode string
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewClient creates a Nominatim client for the instance at baseURL.
func NewClient(baseURL, countryCode string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: countryCode,
		httpClient:  common.HTTPClient(timeout),
		logger:      logger,
		metrics:     metrics,
	}
}

// Geocode resolves a free-text address to the best matching place.
func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	params := url.Values{
		"q":      {address},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	if c.countryCode != "" {
		params.Set("countrycodes", c.countryCode)
	}

	start := time.Now()
	result, err := c.search(ctx, c.baseURL+"/search?"+params.Encode())
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case result.Empty():
		outcome = "empty"
	}
	c.metrics.GeocodeRequests.WithLabelValues(provider, outcome).Inc()
	return result, err
}

func (c *Client) search(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}

	p := places[0]
	c.logger.Debug("nominatim geocode", "display_name", p.DisplayName, "lat", p.Lat, "lon", p.Lon)
	return domain.GeocodingResult{
		Lat:              p.Lat,
		Lon:              p.Lon,
		FormattedAddress: p.DisplayName,
		Confidence:       p.Importance,
	}, nil
}

// place is one element of the jsonv2 search response. Coordinates are
// encoded as strings.
type place struct {
	Lat         float64 `json:"lat,string"`
	Lon         float64 `json:"lon,string"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}
