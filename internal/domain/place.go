package domain

import "context"

// Place is a human-readable label for a coordinate.
type Place struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Confidence       float64 `json:"confidence"`
}

// PlaceNamer resolves coordinates to nearby place names.
type PlaceNamer interface {
	NearestPlace(ctx context.Context, lat, lon float64) (Place, error)
}
