package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/couchcryptid/quake-data-service/internal/domain"
)

// Search runs a range query around a point and returns matching quakes ordered
// by time ascending.
func (e *Engine) Search(ctx context.Context, p domain.SearchParams) (domain.SearchResult, error) {
	return observe(ctx, e, OpSearch, func(ctx context.Context) (domain.SearchResult, error) {
		if err := domain.Validate(p); err != nil {
			return domain.SearchResult{}, err
		}

		w := window(p.Days)
		maxMag := p.MaxMagnitude
		records, err := e.queryRange(ctx, domain.RangeQuery{
			Center:       p.Center,
			RadiusKm:     p.RadiusKm,
			MinMagnitude: p.MinMagnitude,
			MaxMagnitude: &maxMag,
			Start:        w.Start,
			End:          w.End,
			OrderBy:      domain.OrderTimeAsc,
			Limit:        p.Limit,
		})
		if err != nil {
			return domain.SearchResult{}, err
		}

		quakes := make([]domain.QuakeRecord, 0, len(records))
		for _, r := range records {
			if r.Magnitude != nil && *r.Magnitude >= p.MinMagnitude && *r.Magnitude <= p.MaxMagnitude {
				quakes = append(quakes, r)
			}
		}
		slices.SortStableFunc(quakes, func(a, b domain.QuakeRecord) int {
			return a.OccurredAt.Compare(b.OccurredAt)
		})
		quakes = truncate(quakes, p.Limit)

		return domain.SearchResult{Window: w, Count: len(quakes), Quakes: quakes}, nil
	})
}

// Nearby lists the past week's quakes within a radius of a point, nearest first.
func (e *Engine) Nearby(ctx context.Context, p domain.NearbyParams) (domain.NearbyResult, error) {
	return observe(ctx, e, OpNearby, func(ctx context.Context) (domain.NearbyResult, error) {
		if err := domain.Validate(p); err != nil {
			return domain.NearbyResult{}, err
		}

		feed := domain.FeedID{Tier: nearbyTier(p.MinMagnitude), Window: domain.WindowWeek}
		records, err := e.fetchFeed(ctx, feed)
		if err != nil {
			return domain.NearbyResult{}, err
		}

		quakes := make([]domain.NearbyQuake, 0)
		for _, r := range records {
			// A missing magnitude only fails a positive floor.
			if p.MinMagnitude > 0 && (r.Magnitude == nil || *r.Magnitude < p.MinMagnitude) {
				continue
			}
			d := domain.DistanceKm(p.Center, r.Point())
			if d > p.RadiusKm {
				continue
			}
			quakes = append(quakes, domain.NearbyQuake{QuakeRecord: r, DistanceKm: d})
		}
		slices.SortStableFunc(quakes, func(a, b domain.NearbyQuake) int {
			return cmp.Compare(a.DistanceKm, b.DistanceKm)
		})

		return domain.NearbyResult{
			Feed:         feed.String(),
			Center:       p.Center,
			RadiusKm:     p.RadiusKm,
			MinMagnitude: p.MinMagnitude,
			Count:        len(quakes),
			Quakes:       quakes,
		}, nil
	})
}

// nearbyTier picks the tier with the lowest magnitude floor at or above
// minMagnitude, falling back to the all-magnitudes tier. A floor above
// minMagnitude drops quakes between the two: 2.5 reads the 2.5 feed but 2.6
// reads the 4.5 feed and misses everything from 2.6 to 4.5.
func nearbyTier(minMagnitude float64) domain.FeedTier {
	for _, tier := range domain.MagnitudeTiers {
		if floor, _ := tier.Floor(); floor >= minMagnitude {
			return tier
		}
	}
	return domain.TierAll
}

// completeTier picks the tier with the highest floor at or below
// minMagnitude, which is the smallest feed still holding every quake at or
// above minMagnitude.
func completeTier(minMagnitude float64) domain.FeedTier {
	for _, tier := range slices.Backward(domain.MagnitudeTiers) {
		if floor, _ := tier.Floor(); floor <= minMagnitude {
			return tier
		}
	}
	return domain.TierAll
}

// Top ranks the period's quakes by magnitude or significance, highest first.
// Equal values keep feed order.
func (e *Engine) Top(ctx context.Context, p domain.TopParams) (domain.TopResult, error) {
	return observe(ctx, e, OpTop, func(ctx context.Context) (domain.TopResult, error) {
		if err := domain.Validate(p); err != nil {
			return domain.TopResult{}, err
		}

		feed := domain.FeedID{Tier: completeTier(p.MinMagnitude), Window: p.Period}
		records, err := e.fetchFeed(ctx, feed)
		if err != nil {
			return domain.TopResult{}, err
		}

		filtered := make([]domain.QuakeRecord, 0, len(records))
		for _, r := range records {
			if r.Magnitude != nil && *r.Magnitude >= p.MinMagnitude {
				filtered = append(filtered, r)
			}
		}
		slices.SortStableFunc(filtered, func(a, b domain.QuakeRecord) int {
			return compareRank(a, b, p.RankBy)
		})
		filtered = truncate(filtered, p.Limit)

		ranked := make([]domain.RankedQuake, len(filtered))
		for i, r := range filtered {
			ranked[i] = domain.RankedQuake{Rank: i + 1, QuakeRecord: r}
		}

		return domain.TopResult{
			Feed:   feed.String(),
			Period: p.Period,
			RankBy: p.RankBy,
			Count:  len(ranked),
			Quakes: ranked,
		}, nil
	})
}

// compareRank orders a before b when its ranking value is higher. Missing
// values sort last.
func compareRank(a, b domain.QuakeRecord, rankBy string) int {
	av, aok := rankValue(a, rankBy)
	bv, bok := rankValue(b, rankBy)
	switch {
	case aok && bok:
		return cmp.Compare(bv, av)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

func rankValue(q domain.QuakeRecord, rankBy string) (float64, bool) {
	if rankBy == domain.RankBySignificance {
		if q.Significance == nil {
			return 0, false
		}
		return float64(*q.Significance), true
	}
	if q.Magnitude == nil {
		return 0, false
	}
	return *q.Magnitude, true
}

// ByMagnitudeTier returns one summary feed as served, truncated to the limit.
func (e *Engine) ByMagnitudeTier(ctx context.Context, p domain.TierParams) (domain.FeedResult, error) {
	return observe(ctx, e, OpByMagnitudeTier, func(ctx context.Context) (domain.FeedResult, error) {
		if err := domain.Validate(p); err != nil {
			return domain.FeedResult{}, err
		}

		feed := domain.FeedID{Tier: p.Tier, Window: p.Window}
		records, err := e.fetchFeed(ctx, feed)
		if err != nil {
			return domain.FeedResult{}, err
		}
		quakes := truncate(records, p.Limit)

		return domain.FeedResult{
			Feed:       feed.String(),
			TotalCount: len(records),
			Count:      len(quakes),
			Quakes:     quakes,
		}, nil
	})
}

// Event looks up a single quake by its upstream id.
func (e *Engine) Event(ctx context.Context, p domain.EventParams) (domain.QuakeRecord, error) {
	return observe(ctx, e, OpEvent, func(ctx context.Context) (domain.QuakeRecord, error) {
		if err := domain.Validate(p); err != nil {
			return domain.QuakeRecord{}, err
		}

		raw, err := e.feeds.FetchByID(ctx, p.ID)
		if err != nil {
			return domain.QuakeRecord{}, fmt.Errorf("fetch event %s: %w", p.ID, err)
		}
		record, err := domain.Normalize(raw)
		if err != nil {
			return domain.QuakeRecord{}, fmt.Errorf("event %s: %w", p.ID, err)
		}
		return record, nil
	})
}
