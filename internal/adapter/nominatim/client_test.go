package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/solar-lookup/internal/observability"
)

func testClient(baseURL, country string) *Client {
	return NewClient(baseURL, country, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Kerkstraat 5, Utrecht", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "nl", r.URL.Query().Get("countrycodes"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "solar-lookup/"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"52.0907","lon":"5.1214","display_name":"5, Kerkstraat, Utrecht, Nederland","importance":0.41}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL+"/", "nl")
	result, err := c.Geocode(context.Background(), "Kerkstraat 5, Utrecht")
	require.NoError(t, err)

	assert.InDelta(t, 52.0907, result.Lat, 1e-9)
	assert.InDelta(t, 5.1214, result.Lon, 1e-9)
	assert.Equal(t, "5, Kerkstraat, Utrecht, Nederland", result.FormattedAddress)
	assert.InDelta(t, 0.41, result.Confidence, 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues(provider, "success")), 1e-9)
}

func TestClient_Geocode_NoCountryFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["countrycodes"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, "").Geocode(context.Background(), "Dorpsweg 12")
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	result, err := c.Geocode(context.Background(), "Nowhere 1")
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues(provider, "empty")), 1e-9)
}

func TestClient_Geocode_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "")
	_, err := c.Geocode(context.Background(), "Kerkstraat 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues(provider, "error")), 1e-9)
}

func TestClient_Geocode_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"5.1"}]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, "").Geocode(context.Background(), "Kerkstraat 5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Geocode_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL, "").Geocode(ctx, "Kerkstraat 5")
	require.ErrorIs(t, err, context.Canceled)
}
