package domain

import (
	"encoding/json"
	"time"
)

// RawFeature is one GeoJSON feature as served by the USGS feeds.
type RawFeature struct {
	ID         string        `json:"id"`
	Properties RawProperties `json:"properties"`
	Geometry   *RawGeometry  `json:"geometry"`
}

// RawProperties holds the subset of feature properties the service reads.
// Nullable upstream fields are pointers.
type RawProperties struct {
	Mag     *float64 `json:"mag"`
	MagType string   `json:"magType"`
	Place   string   `json:"place"`
	Time    *int64   `json:"time"`
	Updated *int64   `json:"updated"`
	Felt    *int     `json:"felt"`
	Alert   string   `json:"alert"`
	Tsunami int      `json:"tsunami"`
	Sig     *int     `json:"sig"`
	URL     string   `json:"url"`
}

// RawGeometry is a GeoJSON point. Coordinates are [lon, lat, depth].
type RawGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// FeedPayload is a decoded feed or range-query response.
type FeedPayload struct {
	Count    int
	Features []RawFeature
}

// Point is a WGS-84 latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude" validate:"lat"`
	Longitude float64 `json:"longitude" validate:"lon"`
}

// Location is a hypocenter.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DepthKm   float64 `json:"depth_km"`
}

// QuakeRecord is the canonical earthquake representation. Records are built
// by Normalize and never modified afterwards.
type QuakeRecord struct {
	ID            string    `json:"id"`
	Magnitude     *float64  `json:"magnitude"`
	MagnitudeType string    `json:"magnitude_type,omitempty"`
	Place         string    `json:"place,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Location      Location  `json:"location"`
	Significance  *int      `json:"significance,omitempty"`
	Felt          *int      `json:"felt,omitempty"`
	Alert         string    `json:"alert,omitempty"`
	Tsunami       bool      `json:"tsunami"`
	SourceURL     string    `json:"source_url,omitempty"`
}

// Point returns the epicenter.
func (q QuakeRecord) Point() Point {
	return Point{Latitude: q.Location.Latitude, Longitude: q.Location.Longitude}
}

// MagnitudeOrZero returns the magnitude, or 0 when upstream omitted it.
func (q QuakeRecord) MagnitudeOrZero() float64 {
	if q.Magnitude == nil {
		return 0
	}
	return *q.Magnitude
}

// ResultEvent records one completed operation for downstream consumers.
type ResultEvent struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	RequestID string          `json:"request_id,omitempty"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
