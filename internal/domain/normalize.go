package domain

import (
	"fmt"
	"strings"
	"time"
)

// Normalize maps a raw GeoJSON feature onto a QuakeRecord. It renames fields
// and converts units only; nothing is filtered. The feature must carry an id
// and a point geometry with at least longitude and latitude.
func Normalize(raw RawFeature) (QuakeRecord, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return QuakeRecord{}, malformed("feature without id")
	}
	if raw.Geometry == nil {
		return QuakeRecord{}, malformed("feature %s: missing geometry", id)
	}
	coords := raw.Geometry.Coordinates
	if len(coords) < 2 {
		return QuakeRecord{}, malformed("feature %s: expected [lon, lat, depth], got %d coordinates", id, len(coords))
	}

	// GeoJSON order: longitude first.
	loc := Location{Longitude: coords[0], Latitude: coords[1]}
	if len(coords) > 2 {
		loc.DepthKm = coords[2]
	}
	if !(Point{Latitude: loc.Latitude, Longitude: loc.Longitude}).Valid() {
		return QuakeRecord{}, malformed("feature %s: coordinates out of range (lon=%g, lat=%g)", id, loc.Longitude, loc.Latitude)
	}

	p := raw.Properties
	return QuakeRecord{
		ID:            id,
		Magnitude:     copyFloat(p.Mag),
		MagnitudeType: p.MagType,
		Place:         p.Place,
		OccurredAt:    epochMillis(p.Time),
		UpdatedAt:     epochMillis(p.Updated),
		Location:      loc,
		Significance:  copyInt(p.Sig),
		Felt:          copyInt(p.Felt),
		Alert:         p.Alert,
		Tsunami:       p.Tsunami != 0,
		SourceURL:     p.URL,
	}, nil
}

// NormalizeAll normalizes every feature of a payload, keeping upstream order.
// The first malformed feature fails the whole payload.
func NormalizeAll(payload FeedPayload) ([]QuakeRecord, error) {
	records := make([]QuakeRecord, 0, len(payload.Features))
	for i := range payload.Features {
		rec, err := Normalize(payload.Features[i])
		if err != nil {
			return nil, fmt.Errorf("normalize feature %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func epochMillis(ms *int64) time.Time {
	if ms == nil {
		return time.Time{}
	}
	return time.UnixMilli(*ms).UTC()
}

// copyFloat and copyInt detach records from the decoded payload.
func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
