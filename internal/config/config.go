package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoding providers accepted by GEOCODER.
const (
	GeocoderMapbox    = "mapbox"
	GeocoderNominatim = "nominatim"
	GeocoderNone      = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetURL      string
	DatasetTimeout  time.Duration
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Matcher thresholds.
	MatchThreshold          float64
	MatchContainsScore      float64
	MatchFallbackSimilarity float64

	// Initial map center before any address has been geocoded.
	MapDefaultLat float64
	MapDefaultLon float64

	// Geocoding configuration.
	Geocoder         string
	GeocodeCacheSize int
	GeocodeCountry   string // optional ISO 3166 alpha-2 filter, e.g. "nl"
	MapboxToken      string
	MapboxTimeout    time.Duration
	NominatimURL     string
	NominatimTimeout time.Duration

	// Search event publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	datasetTimeout, err := parseDuration("DATASET_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := parseDuration("NOMINATIM_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	threshold, err := parseScore("MATCH_THRESHOLD", 0.6)
	if err != nil {
		return nil, err
	}
	containsScore, err := parseScore("MATCH_CONTAINS_SCORE", 0.9)
	if err != nil {
		return nil, err
	}
	fallbackSimilarity, err := parseScore("MATCH_FALLBACK_SIMILARITY", 0.5)
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("MAP_DEFAULT_LAT", 52.1326)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("MAP_DEFAULT_LON", 5.2913)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	defaultGeocoder := GeocoderNominatim
	if mapboxToken != "" {
		defaultGeocoder = GeocoderMapbox
	}

	cfg := &Config{
		DatasetURL:      strings.TrimSpace(os.Getenv("DATASET_URL")),
		DatasetTimeout:  datasetTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MatchThreshold:          threshold,
		MatchContainsScore:      containsScore,
		MatchFallbackSimilarity: fallbackSimilarity,

		MapDefaultLat: lat,
		MapDefaultLon: lon,

		Geocoder:         strings.ToLower(sharedcfg.EnvOrDefault("GEOCODER", defaultGeocoder)),
		GeocodeCacheSize: parseCacheSize(),
		GeocodeCountry:   strings.ToLower(strings.TrimSpace(os.Getenv("GEOCODE_COUNTRY"))),
		MapboxToken:      mapboxToken,
		MapboxTimeout:    mapboxTimeout,
		NominatimURL:     sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimTimeout: nominatimTimeout,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "solar-lookup-searches"),
	}

	if cfg.DatasetURL == "" {
		return nil, errors.New("DATASET_URL is required")
	}
	switch cfg.Geocoder {
	case GeocoderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
		}
	case GeocoderNominatim, GeocoderNone:
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// GeocodingEnabled reports whether a geocoding provider is configured.
func (c *Config) GeocodingEnabled() bool {
	return c.Geocoder != GeocoderNone
}

// PublishingEnabled reports whether search events are written to Kafka.
func (c *Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseScore reads a similarity threshold, which must lie in [0, 1].
func parseScore(key string, fallback float64) (float64, error) {
	v, err := parseFloat(key, fallback)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("invalid %s: must be between 0 and 1", key)
	}
	return v, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// parseBrokers splits KAFKA_BROKERS. An unset or blank value yields no
// brokers, which disables publishing.
func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var brokers []string
	for _, b := range sharedcfg.ParseBrokers(s) {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
