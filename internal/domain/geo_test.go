package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	sanFrancisco = Point{Latitude: 37.7749, Longitude: -122.4194}
	losAngeles   = Point{Latitude: 34.0522, Longitude: -118.2437}
	tokyo        = Point{Latitude: 35.6762, Longitude: 139.6503}
)

func TestDistanceKm_ZeroForIdenticalPoints(t *testing.T) {
	for _, p := range []Point{sanFrancisco, losAngeles, tokyo, {Latitude: 90, Longitude: 0}, {Latitude: -45, Longitude: 180}} {
		assert.InDelta(t, 0, DistanceKm(p, p), 1e-9)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{sanFrancisco, losAngeles},
		{losAngeles, tokyo},
		{{Latitude: -33.9, Longitude: 151.2}, {Latitude: 51.5, Longitude: -0.12}},
		{{Latitude: 10, Longitude: 179.9}, {Latitude: 10, Longitude: -179.9}},
	}
	for _, pair := range pairs {
		assert.InDelta(t, DistanceKm(pair[0], pair[1]), DistanceKm(pair[1], pair[0]), 1e-9)
	}
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// San Francisco to Los Angeles is ~559 km great-circle.
	assert.InDelta(t, 559, DistanceKm(sanFrancisco, losAngeles), 2)

	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	assert.InDelta(t, 111.19, DistanceKm(Point{Latitude: 0, Longitude: 0}, Point{Latitude: 1, Longitude: 0}), 0.01)

	// Crossing the dateline takes the short way around.
	assert.InDelta(t, 22.2, DistanceKm(Point{Latitude: 0, Longitude: 179.9}, Point{Latitude: 0, Longitude: -179.9}), 0.1)

	// Antipodal points are half the circumference apart.
	assert.InDelta(t, 20015.09, DistanceKm(Point{Latitude: 0, Longitude: 0}, Point{Latitude: 0, Longitude: 180}), 0.01)
}

func TestInBoundingBox(t *testing.T) {
	california := BoundingBox{LatMin: 32.5, LatMax: 42.0, LonMin: -124.5, LonMax: -114.0}
	dateline := BoundingBox{LatMin: -90, LatMax: 90, LonMin: 100, LonMax: -100}

	tests := []struct {
		name string
		box  BoundingBox
		p    Point
		want bool
	}{
		{"inside ordinary box", california, sanFrancisco, true},
		{"west of ordinary box", california, Point{Latitude: 37, Longitude: -130}, false},
		{"north of ordinary box", california, Point{Latitude: 45, Longitude: -120}, false},
		{"on the edge", california, Point{Latitude: 42.0, Longitude: -114.0}, true},
		{"dateline box east side", dateline, Point{Latitude: 0, Longitude: 170}, true},
		{"dateline box west side", dateline, Point{Latitude: 0, Longitude: -170}, true},
		{"dateline box at 180", dateline, Point{Latitude: 0, Longitude: 180}, true},
		{"dateline box rejects prime meridian", dateline, Point{Latitude: 0, Longitude: 0}, false},
		{"dateline box edge", dateline, Point{Latitude: 0, Longitude: 100}, true},
		{"dateline box latitude still applies", BoundingBox{LatMin: -25, LatMax: -12, LonMin: 175, LonMax: -172}, Point{Latitude: 0, Longitude: 179}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InBoundingBox(tt.p, tt.box))
		})
	}
}

func TestBoundingBox_CrossesAntimeridian(t *testing.T) {
	assert.True(t, BoundingBox{LonMin: 170, LonMax: -170}.CrossesAntimeridian())
	assert.False(t, BoundingBox{LonMin: -170, LonMax: 170}.CrossesAntimeridian())
}

func TestPoint_Valid(t *testing.T) {
	assert.True(t, Point{Latitude: 90, Longitude: -180}.Valid())
	assert.False(t, Point{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, Point{Latitude: 0, Longitude: 180.5}.Valid())
}
