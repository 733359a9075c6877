package geocache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) Geocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

var utrecht = domain.GeocodingResult{Lat: 52.0907, Lon: 5.1214, FormattedAddress: "Kerkstraat 5, Utrecht"}

// --- Geocoder tests ---

func TestGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{result: utrecht}
	m := observability.NewMetricsForTesting()
	cached := New(inner, 10, m)

	r1, err := cached.Geocode(context.Background(), "Kerkstraat 5")
	require.NoError(t, err)
	assert.Equal(t, utrecht, r1)

	r2, err := cached.Geocode(context.Background(), "  kerkstraat   5 ")
	require.NoError(t, err)
	assert.Equal(t, utrecht, r2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("miss")), 1e-9)
}

func TestGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: utrecht}
	cached := New(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Geocode(context.Background(), "Kerkstraat 5")
	_, _ = cached.Geocode(context.Background(), "Kerkstraat 7")

	assert.Equal(t, 2, inner.calls)
}

func TestGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := New(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Geocode(context.Background(), "Nowhere 1")
	_, _ = cached.Geocode(context.Background(), "Nowhere 1")

	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, cached.cache.size())
}

func TestGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("timeout")}
	cached := New(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Geocode(context.Background(), "Kerkstraat 5")
	require.Error(t, err)

	inner.err = nil
	inner.result = utrecht
	result, err := cached.Geocode(context.Background(), "Kerkstraat 5")
	require.NoError(t, err)
	assert.Equal(t, utrecht, result)
	assert.Equal(t, 2, inner.calls)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.FormattedAddress)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})
	c.put("c", domain.GeocodingResult{FormattedAddress: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result.FormattedAddress)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result.FormattedAddress)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	c.get("a")

	// "b" is now least recently used.
	c.put("c", domain.GeocodingResult{FormattedAddress: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A1"})
	c.put("a", domain.GeocodingResult{FormattedAddress: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.FormattedAddress)
	assert.Equal(t, 1, c.size())
}

func TestLRUCache_NonPositiveSizeHoldsOne(t *testing.T) {
	c := newLRUCache(0)

	c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

	assert.Equal(t, 1, c.size())
	_, ok := c.get("b")
	assert.True(t, ok)
}
