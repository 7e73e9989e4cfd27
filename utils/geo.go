package utils

import (
	"github.com/umahmood/haversine"
)

// DistanceKM returns the geodesic distance between two coordinates in
// kilometers.
func DistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lon1},
		haversine.Coord{Lat: lat2, Lon: lon2},
	)
	return km
}
