package geo

import (
	"math"
	"testing"
)

func TestDistanceKM_KnownDistances(t *testing.T) {
	moscow := Point{Latitude: 55.7558, Longitude: 37.6176}
	spb := Point{Latitude: 59.9343, Longitude: 30.3351}
	paris := Point{Latitude: 48.8566, Longitude: 2.3522}
	london := Point{Latitude: 51.5074, Longitude: -0.1278}

	tests := []struct {
		name      string
		a, b      Point
		wantKM    float64
		tolerance float64
	}{
		{"moscow_spb", moscow, spb, 634, 5},
		{"paris_london", paris, london, 344, 5},
		{"same_point", moscow, moscow, 0, 0.001},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := DistanceKM(test.a, test.b)
			if math.Abs(got-test.wantKM) > test.tolerance {
				t.Errorf("DistanceKM = %.2f, want %.2f +/- %.1f", got, test.wantKM, test.tolerance)
			}
		})
	}
}

func TestDistanceKM_Symmetric(t *testing.T) {
	a := Point{Latitude: 55.7558, Longitude: 37.6176}
	b := Point{Latitude: 59.9343, Longitude: 30.3351}

	if d1, d2 := DistanceKM(a, b), DistanceKM(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	center := Point{Latitude: 55.7558, Longitude: 37.6176}
	radiusKM := 50.0

	box := BoundingBox(center, radiusKM)

	if !box.IsValid() {
		t.Fatalf("bounding box invalid: %+v", box)
	}
	if !box.Contains(center) {
		t.Error("box should contain the center")
	}

	// Points on the circle in the four cardinal directions must fall
	// inside the box.
	latDelta := radiusKM / EarthRadiusKM * 180 / math.Pi
	lonDelta := latDelta / math.Cos(center.Latitude*math.Pi/180)

	edges := []Point{
		{center.Latitude + latDelta, center.Longitude},
		{center.Latitude - latDelta, center.Longitude},
		{center.Latitude, center.Longitude + lonDelta},
		{center.Latitude, center.Longitude - lonDelta},
	}
	for _, p := range edges {
		if !box.Contains(p) {
			t.Errorf("box should contain edge point %+v", p)
		}
	}
}

func TestBoundingBox_ClampsAtPoles(t *testing.T) {
	box := BoundingBox(Point{Latitude: 89.9, Longitude: 0}, 100)

	if box.MaxLat > 90 {
		t.Errorf("MaxLat not clamped: %v", box.MaxLat)
	}
	if box.MinLon < -180 || box.MaxLon > 180 {
		t.Errorf("longitude not clamped: [%v, %v]", box.MinLon, box.MaxLon)
	}
	if !box.IsValid() {
		t.Errorf("clamped box should be valid: %+v", box)
	}
}

func TestBoundingBox_WrapsAntimeridian(t *testing.T) {
	tests := []struct {
		name   string
		center Point
		across Point
	}{
		{"east_of_dateline", Point{Latitude: 0, Longitude: 179.95}, Point{Latitude: 0, Longitude: -179.95}},
		{"west_of_dateline", Point{Latitude: 0, Longitude: -179.95}, Point{Latitude: 0, Longitude: 179.95}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			radiusKM := 50.0
			box := BoundingBox(test.center, radiusKM)

			if !box.WrapsLon() {
				t.Fatalf("box should wrap the antimeridian: %+v", box)
			}
			if d := DistanceKM(test.center, test.across); d > radiusKM {
				t.Fatalf("points are %.2f km apart, outside the radius", d)
			}
			if !box.Contains(test.across) {
				t.Errorf("box %+v should contain %+v on the other side of the dateline", box, test.across)
			}
			if box.Contains(Point{Latitude: 0, Longitude: 0}) {
				t.Error("box should not contain the far side of the globe")
			}
		})
	}
}

func TestBBox_IsValid(t *testing.T) {
	tests := []struct {
		name string
		box  BBox
		want bool
	}{
		{"valid", BBox{MinLat: 50, MaxLat: 60, MinLon: 30, MaxLon: 40}, true},
		{"inverted_lat", BBox{MinLat: 60, MaxLat: 50, MinLon: 30, MaxLon: 40}, false},
		{"inverted_lon", BBox{MinLat: 50, MaxLat: 60, MinLon: 40, MaxLon: 30}, false},
		{"lat_out_of_range", BBox{MinLat: -91, MaxLat: 60, MinLon: 30, MaxLon: 40}, false},
		{"lon_out_of_range", BBox{MinLat: 50, MaxLat: 60, MinLon: 30, MaxLon: 181}, false},
		{"degenerate_point", BBox{MinLat: 50, MaxLat: 50, MinLon: 30, MaxLon: 30}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.box.IsValid(); got != test.want {
				t.Errorf("IsValid() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestBBox_Contains(t *testing.T) {
	box := BBox{MinLat: 50, MaxLat: 60, MinLon: 30, MaxLon: 40}

	if !box.Contains(Point{Latitude: 55, Longitude: 35}) {
		t.Error("interior point should be contained")
	}
	if !box.Contains(Point{Latitude: 50, Longitude: 30}) {
		t.Error("boundary point should be contained (inclusive)")
	}
	if box.Contains(Point{Latitude: 61, Longitude: 35}) {
		t.Error("exterior point should not be contained")
	}

	wrapped := BBox{MinLat: -10, MaxLat: 10, MinLon: 170, MaxLon: -170}
	if !wrapped.Contains(Point{Latitude: 0, Longitude: 175}) {
		t.Error("wrapped box should contain points east of the dateline")
	}
	if !wrapped.Contains(Point{Latitude: 0, Longitude: -175}) {
		t.Error("wrapped box should contain points west of the dateline")
	}
	if wrapped.Contains(Point{Latitude: 0, Longitude: 0}) {
		t.Error("wrapped box should exclude the complement range")
	}
}
