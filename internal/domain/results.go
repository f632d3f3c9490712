package domain

import "time"

// TimeWindow is the [Start, End] interval a result covers.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SearchResult is the outcome of a range search, ordered by time ascending.
type SearchResult struct {
	Window TimeWindow    `json:"window"`
	Count  int           `json:"count"`
	Quakes []QuakeRecord `json:"quakes"`
}

// NearbyQuake is a record annotated with its distance from the query point.
type NearbyQuake struct {
	QuakeRecord
	DistanceKm float64 `json:"distance_km"`
}

// NearbyResult lists quakes ordered by distance ascending.
type NearbyResult struct {
	Feed         string        `json:"feed"`
	Center       Point         `json:"center"`
	RadiusKm     float64       `json:"radius_km"`
	MinMagnitude float64       `json:"min_magnitude"`
	Count        int           `json:"count"`
	Quakes       []NearbyQuake `json:"quakes"`
}

// RankedQuake carries a 1-based rank.
type RankedQuake struct {
	Rank int `json:"rank"`
	QuakeRecord
}

// TopResult lists the highest ranked quakes of a period.
type TopResult struct {
	Feed   string        `json:"feed"`
	Period FeedWindow    `json:"period"`
	RankBy string        `json:"rank_by"`
	Count  int           `json:"count"`
	Quakes []RankedQuake `json:"quakes"`
}

// FeedResult is a summary feed truncated to a limit.
type FeedResult struct {
	Feed       string        `json:"feed"`
	TotalCount int           `json:"total_count"`
	Count      int           `json:"count"`
	Quakes     []QuakeRecord `json:"quakes"`
}

// RegionStats summarizes one compared region.
type RegionStats struct {
	Region        Region       `json:"region"`
	Count         int          `json:"count"`
	MeanMagnitude float64      `json:"mean_magnitude"`
	MaxMagnitude  float64      `json:"max_magnitude"`
	AtLeastM4     int          `json:"at_least_m4"`
	AtLeastM5     int          `json:"at_least_m5"`
	Largest       *QuakeRecord `json:"largest,omitempty"`
}

// RegionRank places a region in the comparison ranking.
type RegionRank struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ComparisonResult compares activity across regions. Regions keeps input
// order; Ranking is ordered by count descending.
type ComparisonResult struct {
	Window       TimeWindow    `json:"window"`
	MinMagnitude float64       `json:"min_magnitude"`
	Regions      []RegionStats `json:"regions"`
	Ranking      []RegionRank  `json:"ranking"`
	MostActive   string        `json:"most_active"`
	LeastActive  string        `json:"least_active"`
}

// WindowCounts holds per-feed counts inside a bounding box.
type WindowCounts struct {
	Hour  int `json:"hour"`
	Day   int `json:"day"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// AreaActivity counts quakes sharing the trailing component of their place.
type AreaActivity struct {
	Area  string `json:"area"`
	Count int    `json:"count"`
}

// RegionalReport summarizes activity inside a bounding box.
type RegionalReport struct {
	Region          string         `json:"region"`
	Bounds          BoundingBox    `json:"bounds"`
	Counts          WindowCounts   `json:"counts"`
	MeanMagnitude   float64        `json:"mean_magnitude"`
	MaxMagnitude    float64        `json:"max_magnitude"`
	Largest         *QuakeRecord   `json:"largest,omitempty"`
	MostActiveAreas []AreaActivity `json:"most_active_areas"`
}

// FeedSummary is one feed's contribution to the overview.
type FeedSummary struct {
	Feed    string       `json:"feed"`
	Count   int          `json:"count"`
	Largest *QuakeRecord `json:"largest,omitempty"`
}

// Overview is a snapshot of global activity.
type Overview struct {
	GeneratedAt       time.Time     `json:"generated_at"`
	Feeds             []FeedSummary `json:"feeds"`
	LargestToday      *QuakeRecord  `json:"largest_today,omitempty"`
	RecentSignificant []QuakeRecord `json:"recent_significant"`
}

// LocationRisk is a risk assessment with the activity it was computed from.
type LocationRisk struct {
	Center             Point          `json:"center"`
	Window             TimeWindow     `json:"window"`
	MinMagnitude       float64        `json:"min_magnitude"`
	Nearby50Km         int            `json:"nearby_50km"`
	Nearby250Km        int            `json:"nearby_250km"`
	Nearby500Km        int            `json:"nearby_500km"`
	MaxNearbyMagnitude float64        `json:"max_nearby_magnitude"`
	Assessment         RiskAssessment `json:"assessment"`
}
