package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDatasetURL  = "https://example.com/installations.csv"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDatasetURL, cfg.DatasetURL)
	assert.Equal(t, 30*time.Second, cfg.DatasetTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0.6, cfg.MatchThreshold)
	assert.Equal(t, 0.9, cfg.MatchContainsScore)
	assert.Equal(t, 0.5, cfg.MatchFallbackSimilarity)
	assert.Equal(t, 52.1326, cfg.MapDefaultLat)
	assert.Equal(t, 5.2913, cfg.MapDefaultLon)
	assert.Equal(t, GeocoderNominatim, cfg.Geocoder)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimURL)
	assert.Equal(t, 5*time.Second, cfg.NominatimTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "solar-lookup-searches", cfg.KafkaTopic)
	assert.True(t, cfg.GeocodingEnabled())
	assert.False(t, cfg.PublishingEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_URL", "  ./data/installations.xlsx ")
	t.Setenv("DATASET_TIMEOUT", "1m")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MATCH_THRESHOLD", "0.7")
	t.Setenv("MATCH_CONTAINS_SCORE", "0.95")
	t.Setenv("MATCH_FALLBACK_SIMILARITY", "0.4")
	t.Setenv("MAP_DEFAULT_LAT", "52.0907")
	t.Setenv("MAP_DEFAULT_LON", "5.1214")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("GEOCODE_COUNTRY", "nl")
	t.Setenv("GEOCODE_CACHE_SIZE", "500")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-searches")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/installations.xlsx", cfg.DatasetURL)
	assert.Equal(t, time.Minute, cfg.DatasetTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0.7, cfg.MatchThreshold)
	assert.Equal(t, 0.95, cfg.MatchContainsScore)
	assert.Equal(t, 0.4, cfg.MatchFallbackSimilarity)
	assert.Equal(t, 52.0907, cfg.MapDefaultLat)
	assert.Equal(t, 5.1214, cfg.MapDefaultLon)
	assert.Equal(t, GeocoderMapbox, cfg.Geocoder)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, "nl", cfg.GeocodeCountry)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-searches", cfg.KafkaTopic)
	assert.True(t, cfg.PublishingEnabled())
}

func TestLoad_MissingDatasetURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_URL")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDatasetTimeout(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("DATASET_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_TIMEOUT")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_ThresholdOutOfRange(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("MATCH_THRESHOLD", "1.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_THRESHOLD")
}

func TestLoad_ThresholdNotANumber(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("MATCH_FALLBACK_SIMILARITY", "half")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_FALLBACK_SIMILARITY")
}

func TestLoad_MapboxWithoutToken(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("GEOCODER", "mapbox")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_UnknownGeocoder(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("GEOCODER", "google")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER")
}

func TestLoad_GeocodingDisabled(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("GEOCODER", "NONE")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, GeocoderNone, cfg.Geocoder)
	assert.False(t, cfg.GeocodingEnabled())
}

func TestLoad_InvalidCacheSizeUsesDefault(t *testing.T) {
	t.Setenv("DATASET_URL", testDatasetURL)
	t.Setenv("GEOCODE_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
}
