// Package geo provides great-circle distance math for building searches.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius in kilometers.
const EarthRadiusKM = 6371.0088

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// IsValid reports whether the box's bounds are ordered and in range.
// Wrapped boxes are not valid as client input.
func (b BBox) IsValid() bool {
	return b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon &&
		b.MinLat >= -90 && b.MaxLat <= 90 &&
		b.MinLon >= -180 && b.MaxLon <= 180
}

// WrapsLon reports whether the box crosses the antimeridian. A wrapped
// box has MinLon > MaxLon and covers [MinLon, 180] plus [-180, MaxLon].
func (b BBox) WrapsLon() bool {
	return b.MinLon > b.MaxLon
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BBox) Contains(p Point) bool {
	if p.Latitude < b.MinLat || p.Latitude > b.MaxLat {
		return false
	}
	if b.WrapsLon() {
		return p.Longitude >= b.MinLon || p.Longitude <= b.MaxLon
	}
	return p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon
}

// DistanceKM returns the haversine great-circle distance between two
// points in kilometers.
func DistanceKM(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthRadiusKM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox returns a box guaranteed to contain the circle of the
// given radius around the center. Used to prefilter candidates in SQL
// before the exact haversine check. A circle crossing the antimeridian
// produces a wrapped box (MinLon > MaxLon).
func BoundingBox(center Point, radiusKM float64) BBox {
	latDelta := radiusKM / EarthRadiusKM * 180 / math.Pi

	box := BBox{
		MinLat: center.Latitude - latDelta,
		MaxLat: center.Latitude + latDelta,
	}
	if box.MinLat < -90 {
		box.MinLat = -90
	}
	if box.MaxLat > 90 {
		box.MaxLat = 90
	}

	// Longitude degrees shrink with latitude. Near the poles the
	// cosine goes to zero and the circle spans every meridian.
	cosLat := math.Cos(center.Latitude * math.Pi / 180)
	lonDelta := 180.0
	if cosLat > 1e-9 {
		lonDelta = latDelta / cosLat
	}

	if lonDelta >= 180 {
		box.MinLon = -180
		box.MaxLon = 180
		return box
	}

	// Wrap instead of clamping so a circle around lon 179.9 still
	// covers buildings at lon -179.9.
	box.MinLon = wrapLon(center.Longitude - lonDelta)
	box.MaxLon = wrapLon(center.Longitude + lonDelta)

	return box
}

// wrapLon normalizes a longitude into [-180, 180].
func wrapLon(lon float64) float64 {
	switch {
	case lon < -180:
		return lon + 360
	case lon > 180:
		return lon - 360
	}
	return lon
}
