// Package catalog provides read access to the destination artwork catalog
// for duplicate detection. Two providers implement the same query: a live
// HTTP client against the catalog's geo-radius API, and a local SQLite
// snapshot for offline or rate-limited runs.
package catalog

import (
	"context"
)

// Artwork is one existing artwork as returned by the catalog read API
type Artwork struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Artists []string          `json:"artists"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Tags    map[string]string `json:"tags"`
}

// NearbyProvider answers geo-radius queries against the destination catalog.
// The pipeline fetches candidates through this interface and hands them to
// the duplicate detector; it never filters or scores here.
type NearbyProvider interface {
	// Nearby returns all artworks within radiusMeters of (lat, lon)
	Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]Artwork, error)
}
