package geo

import (
	"math"

	"github.com/kazipo/geo-reminder/internal/model"
)

// earthRadiusKm is the mean earth radius used by the haversine formula.
const earthRadiusKm = 6371

// Distance returns the great-circle distance in kilometers between a
// and b using the haversine formula. It is symmetric and zero when the
// points coincide. Coordinates are not validated.
func Distance(a, b model.Coordinate) float64 {
	dLat := rad(b.Latitude - a.Latitude)
	dLon := rad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Latitude))*math.Cos(rad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
