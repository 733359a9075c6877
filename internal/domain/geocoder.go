package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Empty reports whether the provider returned no usable coordinates.
func (r GeocodingResult) Empty() bool {
	return r.Lat == 0 && r.Lon == 0
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodingResult, error)
}
