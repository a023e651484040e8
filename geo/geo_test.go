package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 49.2827, -123.1207, 49.2827, -123.1207, 0, 0.001},
		// ~1.11 km per 0.01 degree of latitude
		{"hundredth degree north", 49.0, -123.0, 49.01, -123.0, 1112, 5},
		{"vancouver to seattle", 49.2827, -123.1207, 47.6062, -122.3321, 195300, 2000},
		// Ten meters is right at the default dedupe epsilon
		{"ten meters apart", 49.293313, -123.133965, 49.293403, -123.133965, 10, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	d1 := Distance(49.28, -123.12, 49.29, -123.10)
	d2 := Distance(49.29, -123.10, 49.28, -123.12)
	assert.Equal(t, d1, d2)
}

func TestBoundingBoxContainsCircle(t *testing.T) {
	lat, lon := 49.2827, -123.1207
	radius := 250.0

	minLat, maxLat, minLon, maxLon := BoundingBox(lat, lon, radius)

	assert.Less(t, minLat, lat)
	assert.Greater(t, maxLat, lat)
	assert.Less(t, minLon, lon)
	assert.Greater(t, maxLon, lon)

	// Points on the circle along each axis stay inside the box
	assert.LessOrEqual(t, Distance(lat, lon, maxLat, lon), radius*1.01)
	assert.LessOrEqual(t, Distance(lat, lon, lat, maxLon), radius*1.01)
}

func TestBoundingBoxNearPole(t *testing.T) {
	_, _, minLon, maxLon := BoundingBox(89.9999, 0, 1000)
	assert.Equal(t, -180.0, minLon)
	assert.Equal(t, 180.0, maxLon)
}
