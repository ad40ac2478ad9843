// Package model defines domain entities for the application.
package model

import "time"

// Coordinate bounds for validation.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Building represents a physical building that organizations occupy.
type Building struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasValidCoordinates reports whether the building's coordinates are
// within the valid latitude/longitude ranges.
func (b *Building) HasValidCoordinates() bool {
	return b.Latitude >= MinLatitude && b.Latitude <= MaxLatitude &&
		b.Longitude >= MinLongitude && b.Longitude <= MaxLongitude
}
