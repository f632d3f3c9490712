package domain

import "math"

// earthRadiusKm is the mean Earth radius used by DistanceKm.
const earthRadiusKm = 6371.0

// BoundingBox is a latitude/longitude rectangle. A box with LonMin > LonMax
// crosses the antimeridian, e.g. LonMin=170, LonMax=-170 spans 20 degrees
// around 180.
type BoundingBox struct {
	LatMin float64 `json:"lat_min" validate:"lat"`
	LatMax float64 `json:"lat_max" validate:"lat,gtefield=LatMin"`
	LonMin float64 `json:"lon_min" validate:"lon"`
	LonMax float64 `json:"lon_max" validate:"lon"`
}

// CrossesAntimeridian reports whether the box wraps around longitude 180.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.LonMin > b.LonMax
}

// Contains reports whether p lies inside the box, edges included.
//
// Antimeridian-crossing boxes (LonMin > LonMax) accept a longitude on either
// side of the dateline: lon >= LonMin OR lon <= LonMax. Every other box uses
// the ordinary LonMin <= lon <= LonMax.
func (b BoundingBox) Contains(p Point) bool {
	if p.Latitude < b.LatMin || p.Latitude > b.LatMax {
		return false
	}
	if b.CrossesAntimeridian() {
		return p.Longitude >= b.LonMin || p.Longitude <= b.LonMax
	}
	return p.Longitude >= b.LonMin && p.Longitude <= b.LonMax
}

// InBoundingBox reports whether p lies inside box. See [BoundingBox.Contains].
func InBoundingBox(p Point, box BoundingBox) bool {
	return box.Contains(p)
}

// DistanceKm returns the great-circle distance between a and b using the
// Haversine formula.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair outside [0, 1] for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Valid reports whether p is within the WGS-84 coordinate ranges.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
