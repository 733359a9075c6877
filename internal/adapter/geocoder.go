// Package adapter wires the configured external collaborators.
package adapter

import (
	"log/slog"

	"github.com/couchcryptid/solar-lookup/internal/adapter/geocache"
	"github.com/couchcryptid/solar-lookup/internal/adapter/mapbox"
	"github.com/couchcryptid/solar-lookup/internal/adapter/nominatim"
	"github.com/couchcryptid/solar-lookup/internal/config"
	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

// NewGeocoder builds the cached geocoder selected by GEOCODER, or returns
// nil when geocoding is disabled.
func NewGeocoder(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.Geocoder {
	var client domain.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderMapbox:
		client = mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeCountry, cfg.MapboxTimeout, logger, metrics)
	case config.GeocoderNominatim:
		client = nominatim.NewClient(cfg.NominatimURL, cfg.GeocodeCountry, cfg.NominatimTimeout, logger, metrics)
	default:
		metrics.GeocodeEnabled.Set(0)
		logger.Info("geocoding disabled")
		return nil
	}

	metrics.GeocodeEnabled.Set(1)
	logger.Info("geocoding enabled",
		"provider", cfg.Geocoder,
		"cache_size", cfg.GeocodeCacheSize,
		"country", cfg.GeocodeCountry,
	)
	return geocache.New(client, cfg.GeocodeCacheSize, metrics)
}
