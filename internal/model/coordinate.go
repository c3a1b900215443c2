package model

// Coordinate is a point on earth in decimal degrees.
//
// Values outside the ±90/±180 range are accepted as-is; the distance
// math tolerates them and the platform providers never produce them.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
