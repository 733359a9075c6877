//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/solar-lookup/internal/adapter/geocache"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, "nl", 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.Geocode(context.Background(), "Domplein 29, Utrecht")
	require.NoError(t, err)

	assert.InDelta(t, 52.09, result.Lat, 0.05)
	assert.InDelta(t, 5.12, result.Lon, 0.05)
	assert.NotEmpty(t, result.FormattedAddress)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestSmoke_Geocode_CachedRoundTrip(t *testing.T) {
	c := smokeClient(t)
	m := observability.NewMetricsForTesting()

	cached := geocache.New(c, 10, m)
	first, err := cached.Geocode(context.Background(), "Stationsplein 1, Amsterdam")
	require.NoError(t, err)
	second, err := cached.Geocode(context.Background(), "Stationsplein 1, Amsterdam")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
