package domain

import (
	"strconv"
	"strings"
)

// SearchParams drives a range search around a point.
type SearchParams struct {
	Center       Point   `json:"center"`
	RadiusKm     float64 `json:"radius_km" validate:"gte=1,lte=20000"`
	MinMagnitude float64 `json:"min_magnitude" validate:"gte=0,lte=10"`
	MaxMagnitude float64 `json:"max_magnitude" validate:"gte=0,lte=10,gtefield=MinMagnitude"`
	Days         int     `json:"days" validate:"gte=1,lte=30"`
	Limit        int     `json:"limit" validate:"gte=1,lte=100"`
}

// NearbyParams selects recent quakes within a radius of a point.
type NearbyParams struct {
	Center       Point   `json:"center"`
	RadiusKm     float64 `json:"radius_km" validate:"gte=1,lte=20000"`
	MinMagnitude float64 `json:"min_magnitude" validate:"gte=0,lte=10"`
}

// Ranking keys for TopParams.
const (
	RankByMagnitude    = "magnitude"
	RankBySignificance = "significance"
)

// TopParams ranks the largest quakes of a period.
type TopParams struct {
	Period       FeedWindow `json:"period" validate:"oneof=day week month"`
	RankBy       string     `json:"rank_by" validate:"oneof=magnitude significance"`
	MinMagnitude float64    `json:"min_magnitude" validate:"gte=0,lte=10"`
	Limit        int        `json:"limit" validate:"gte=1,lte=100"`
}

// TierParams reads one summary feed as-is.
type TierParams struct {
	Tier   FeedTier   `json:"tier" validate:"oneof=significant 4.5 2.5 1.0 all"`
	Window FeedWindow `json:"window" validate:"oneof=hour day week month"`
	Limit  int        `json:"limit" validate:"gte=1,lte=100"`
}

// EventParams looks up a single event.
type EventParams struct {
	ID string `json:"id" validate:"required,max=64,printascii"`
}

// Region is a named circular area used by Compare.
type Region struct {
	Name     string  `json:"name" validate:"required,max=64"`
	Center   Point   `json:"center"`
	RadiusKm float64 `json:"radius_km" validate:"gte=1,lte=20000"`
}

// CompareParams compares activity across two to five regions.
type CompareParams struct {
	Regions      []Region `json:"regions" validate:"min=2,max=5,dive"`
	MinMagnitude float64  `json:"min_magnitude" validate:"gte=0,lte=10"`
}

// ReportParams identifies the area of a regional report, either by preset
// name or by explicit bounds. Bounds win when both are set.
type ReportParams struct {
	Region string       `json:"region"`
	Bounds *BoundingBox `json:"bounds,omitempty"`
}

// Resolve returns the label and bounding box to report on.
func (p ReportParams) Resolve() (string, BoundingBox, error) {
	if p.Bounds != nil {
		if err := Validate(*p.Bounds); err != nil {
			return "", BoundingBox{}, err
		}
		name := strings.TrimSpace(p.Region)
		if name == "" {
			name = "custom"
		}
		return name, *p.Bounds, nil
	}

	preset, ok := LookupRegion(p.Region)
	if !ok {
		return "", BoundingBox{}, NewValidationError("region", "oneof", "unknown region preset "+strconv.Quote(p.Region))
	}
	return preset.Name, preset.Bounds, nil
}

// RiskParams locates a risk assessment.
type RiskParams struct {
	Center Point `json:"center"`
}
