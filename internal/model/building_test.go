package model

import "testing"

func TestBuilding_HasValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"moscow", 55.7558, 37.6176, true},
		{"equator_meridian", 0, 0, true},
		{"poles", 90, 180, true},
		{"lat_too_high", 90.1, 0, false},
		{"lat_too_low", -90.1, 0, false},
		{"lon_too_high", 0, 180.1, false},
		{"lon_too_low", 0, -180.1, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := &Building{Latitude: test.lat, Longitude: test.lon}
			if got := b.HasValidCoordinates(); got != test.want {
				t.Errorf("HasValidCoordinates() = %v, want %v", got, test.want)
			}
		})
	}
}
