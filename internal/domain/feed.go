package domain

import (
	"context"
	"time"
)

// FeedTier is the magnitude tier of a summary feed.
type FeedTier string

const (
	TierSignificant FeedTier = "significant"
	Tier45          FeedTier = "4.5"
	Tier25          FeedTier = "2.5"
	Tier10          FeedTier = "1.0"
	TierAll         FeedTier = "all"
)

// MagnitudeTiers lists the tiers that carry a magnitude floor, finest first.
var MagnitudeTiers = []FeedTier{TierAll, Tier10, Tier25, Tier45}

// Floor returns the minimum magnitude included in the tier. The significant
// tier is selected by significance, not magnitude, and reports ok=false.
func (t FeedTier) Floor() (floor float64, ok bool) {
	switch t {
	case TierAll:
		return 0, true
	case Tier10:
		return 1.0, true
	case Tier25:
		return 2.5, true
	case Tier45:
		return 4.5, true
	default:
		return 0, false
	}
}

// FeedWindow is the time span covered by a summary feed.
type FeedWindow string

const (
	WindowHour  FeedWindow = "hour"
	WindowDay   FeedWindow = "day"
	WindowWeek  FeedWindow = "week"
	WindowMonth FeedWindow = "month"
)

// FeedID names one summary feed.
type FeedID struct {
	Tier   FeedTier
	Window FeedWindow
}

// String renders the upstream resource name, e.g. "2.5_week".
func (f FeedID) String() string {
	return string(f.Tier) + "_" + string(f.Window)
}

// Range query orderings accepted by the event service.
const (
	OrderTime      = "time"
	OrderTimeAsc   = "time-asc"
	OrderMagnitude = "magnitude"
)

// RangeQuery is a geospatial, magnitude and time filtered event query.
type RangeQuery struct {
	Center       Point
	RadiusKm     float64
	MinMagnitude float64
	MaxMagnitude *float64
	Start        time.Time
	End          time.Time
	OrderBy      string
	Limit        int
}

// FeedSource retrieves raw earthquake data from the upstream provider.
type FeedSource interface {
	// FetchFeed retrieves a pre-aggregated summary feed.
	FetchFeed(ctx context.Context, id FeedID) (FeedPayload, error)

	// QueryRange runs a range query against the event service.
	QueryRange(ctx context.Context, q RangeQuery) (FeedPayload, error)

	// FetchByID retrieves a single event by its upstream id.
	FetchByID(ctx context.Context, id string) (RawFeature, error)
}
