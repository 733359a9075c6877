package domain

import (
	"context"
	"log/slog"
)

// Map zoom levels: a geocoded address is shown up close, anything else at
// street level.
const (
	ZoomAddress = 19
	ZoomDefault = 17
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapView is what a map renderer needs: a center, a zoom level, and the
// single marker to draw.
type MapView struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
	Marker Coordinate `json:"marker"`
	Label  string     `json:"label,omitempty"`
}

// DefaultMapView centers the map on c with no address context.
func DefaultMapView(c Coordinate) MapView {
	return MapView{Center: c, Zoom: ZoomDefault, Marker: c}
}

// LocateWithGeocoding attempts to move view onto address. If geocoder is nil,
// fails, or returns no coordinates, the previous view is returned unchanged
// and ok is false (graceful degradation).
func LocateWithGeocoding(ctx context.Context, view MapView, address string, geocoder Geocoder, logger *slog.Logger) (MapView, bool) {
	if geocoder == nil || address == "" {
		return view, false
	}

	result, err := geocoder.Geocode(ctx, address)
	if err != nil {
		logger.Warn("geocoding failed",
			"address", address,
			"error", err,
		)
		return view, false
	}
	if result.Empty() {
		logger.Info("geocoding returned no coordinates", "address", address)
		return view, false
	}

	c := Coordinate{Lat: result.Lat, Lon: result.Lon}
	label := result.FormattedAddress
	if label == "" {
		label = address
	}
	return MapView{Center: c, Zoom: ZoomAddress, Marker: c, Label: label}, true
}
