// Package geo resolves display coordinates for directory records. Every
// record gets a usable map position: stored coordinates win, then the first
// geocoder candidate for the record's address, then the default city-center
// position. The resolution never fails; a broken geocoder only degrades the
// provenance of the answer.
package geo

import "context"

// Default map position used when a record has neither coordinates nor a
// geocodable address: central Paris.
const (
	DefaultLatitude  = 48.8566
	DefaultLongitude = 2.3522
)

// Provenance records how a resolved coordinate pair was obtained.
type Provenance string

const (
	// ProvenanceDirect means the record carried its own coordinates.
	ProvenanceDirect Provenance = "direct"
	// ProvenanceGeocoded means the coordinates came from geocoding the
	// record's address.
	ProvenanceGeocoded Provenance = "geocoded"
	// ProvenanceDefault means the fallback city-center position was used.
	ProvenanceDefault Provenance = "default"
)

// Entity is the location-relevant snapshot of a directory record. Callers
// build it from their own types so this package stays independent of the
// record shapes.
type Entity struct {
	Latitude  *float64
	Longitude *float64
	Address   string
}

// ResolvedLocation is a renderable map position with its provenance.
type ResolvedLocation struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Provenance Provenance `json:"provenance"`
}

// Candidate is one geocoder match for an address.
type Candidate struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// Geocoder turns a postal address into coordinate candidates. An address
// that matches nothing yields an empty slice and a nil error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Candidate, error)
}

// GeocoderFunc adapts a function to the Geocoder interface.
type GeocoderFunc func(ctx context.Context, address string) ([]Candidate, error)

// Geocode calls fn.
func (fn GeocoderFunc) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	return fn(ctx, address)
}
