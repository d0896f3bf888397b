// Package geo provides the geographic primitives used by the trip planner:
// great-circle distance and constant-speed travel-time estimation.
//
// Travel times are straight-line proxies at fixed average speeds. They stand
// in for real schedule data, which the planner does not have; the speeds are
// exposed as named constants so callers can override them through
// configuration rather than guessing at the model.
package geo

import (
	"math"
	"time"
)

const (
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0

	// DefaultRideSpeedKmh is the assumed average in-vehicle speed applied
	// to every route, regardless of actual routing or road network.
	DefaultRideSpeedKmh = 25.0

	// DefaultWalkSpeedMPerMin is the assumed walking pace (~4.8 km/h).
	DefaultWalkSpeedMPerMin = 80.0
)

// DistanceKm returns the great-circle distance in kilometers between two
// points given in decimal degrees (latitude first), using the haversine
// formula. It is symmetric and returns 0 for identical points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// DistanceMeters returns the great-circle distance in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKm(lat1, lon1, lat2, lon2) * 1000.0
}

// RideDuration estimates in-vehicle time for a ride covering distanceKm at
// the given average speed.
func RideDuration(distanceKm, speedKmh float64) time.Duration {
	minutes := distanceKm / speedKmh * 60
	return time.Duration(minutes * float64(time.Minute))
}

// WalkDuration estimates walking time for distanceMeters at the given pace
// in meters per minute, rounded to the nearest whole minute.
func WalkDuration(distanceMeters, paceMPerMin float64) time.Duration {
	minutes := math.Round(distanceMeters / paceMPerMin)
	return time.Duration(minutes) * time.Minute
}

// IsValidLatLon reports whether both coordinates are finite and within
// WGS-84 bounds.
func IsValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
