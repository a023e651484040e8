// Package geo provides the small amount of spherical geometry the import
// pipeline needs: point distance for duplicate detection and bounding boxes
// for snapshot candidate queries.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for haversine distance
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two points
// given in decimal degrees (haversine formula). Accurate to well under a
// meter at dedupe-epsilon scale, which is all the detector needs.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// BoundingBox returns the lat/lon bounds of a square that fully contains the
// circle of radiusMeters around (lat, lon). Used to pre-filter snapshot rows
// with plain range predicates before the exact distance check.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
	dLat := radiusMeters / EarthRadiusMeters * 180 / math.Pi

	minLat = lat - dLat
	maxLat = lat + dLat

	// Longitude degrees shrink with latitude; guard the poles where the
	// divisor approaches zero.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-10 {
		return minLat, maxLat, -180, 180
	}
	dLon := radiusMeters / (EarthRadiusMeters * cosLat) * 180 / math.Pi

	minLon = lon - dLon
	maxLon = lon + dLon
	return minLat, maxLat, minLon, maxLon
}
