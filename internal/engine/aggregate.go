package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/couchcryptid/quake-data-service/internal/domain"
)

const (
	compareWindowDays = 7
	maxActiveAreas    = 5
	recentSignificant = 5
)

// Compare measures activity in two to five regions over the past week. Each
// region is fetched concurrently; one failed fetch fails the comparison.
func (e *Engine) Compare(ctx context.Context, p domain.CompareParams) (domain.ComparisonResult, error) {
	return observe(ctx, e, OpCompare, func(ctx context.Context) (domain.ComparisonResult, error) {
		if err := domain.Validate(p); err != nil {
			return domain.ComparisonResult{}, err
		}

		w := window(compareWindowDays)
		stats, err := fanOut(ctx, e.concurrency, len(p.Regions), func(ctx context.Context, i int) (domain.RegionStats, error) {
			region := p.Regions[i]
			records, err := e.queryRange(ctx, domain.RangeQuery{
				Center:       region.Center,
				RadiusKm:     region.RadiusKm,
				MinMagnitude: p.MinMagnitude,
				Start:        w.Start,
				End:          w.End,
				OrderBy:      domain.OrderTime,
			})
			if err != nil {
				return domain.RegionStats{}, fmt.Errorf("region %q: %w", region.Name, err)
			}
			return regionStats(region, records), nil
		})
		if err != nil {
			return domain.ComparisonResult{}, err
		}

		ranking := rankRegions(stats)
		return domain.ComparisonResult{
			Window:       w,
			MinMagnitude: p.MinMagnitude,
			Regions:      stats,
			Ranking:      ranking,
			MostActive:   ranking[0].Name,
			LeastActive:  ranking[len(ranking)-1].Name,
		}, nil
	})
}

func regionStats(region domain.Region, records []domain.QuakeRecord) domain.RegionStats {
	mean, maxMag := magnitudeStats(records)
	s := domain.RegionStats{
		Region:        region,
		Count:         len(records),
		MeanMagnitude: mean,
		MaxMagnitude:  maxMag,
		Largest:       largest(records),
	}
	for _, r := range records {
		m := r.MagnitudeOrZero()
		if r.Magnitude != nil && m >= 4 {
			s.AtLeastM4++
		}
		if r.Magnitude != nil && m >= 5 {
			s.AtLeastM5++
		}
	}
	return s
}

// rankRegions orders regions by count descending. Equal counts keep input order.
func rankRegions(stats []domain.RegionStats) []domain.RegionRank {
	ranking := make([]domain.RegionRank, len(stats))
	for i, s := range stats {
		ranking[i] = domain.RegionRank{Name: s.Region.Name, Count: s.Count}
	}
	slices.SortStableFunc(ranking, func(a, b domain.RegionRank) int {
		return cmp.Compare(b.Count, a.Count)
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return ranking
}

// RegionalReport summarizes activity inside a preset region or explicit
// bounds across the hour, day, week and month feeds.
func (e *Engine) RegionalReport(ctx context.Context, p domain.ReportParams) (domain.RegionalReport, error) {
	return observe(ctx, e, OpRegionalReport, func(ctx context.Context) (domain.RegionalReport, error) {
		name, box, err := p.Resolve()
		if err != nil {
			return domain.RegionalReport{}, err
		}

		feeds, err := e.fetchFeeds(ctx,
			domain.FeedID{Tier: domain.TierAll, Window: domain.WindowHour},
			domain.FeedID{Tier: domain.TierAll, Window: domain.WindowDay},
			domain.FeedID{Tier: domain.TierAll, Window: domain.WindowWeek},
			domain.FeedID{Tier: domain.TierAll, Window: domain.WindowMonth},
		)
		if err != nil {
			return domain.RegionalReport{}, err
		}

		hour := inBox(feeds[0], box)
		day := inBox(feeds[1], box)
		week := inBox(feeds[2], box)
		month := inBox(feeds[3], box)

		mean, maxMag := magnitudeStats(month)
		return domain.RegionalReport{
			Region: name,
			Bounds: box,
			Counts: domain.WindowCounts{
				Hour:  len(hour),
				Day:   len(day),
				Week:  len(week),
				Month: len(month),
			},
			MeanMagnitude:   mean,
			MaxMagnitude:    maxMag,
			Largest:         largest(month),
			MostActiveAreas: mostActiveAreas(month, maxActiveAreas),
		}, nil
	})
}

func inBox(records []domain.QuakeRecord, box domain.BoundingBox) []domain.QuakeRecord {
	out := make([]domain.QuakeRecord, 0, len(records))
	for _, r := range records {
		if domain.InBoundingBox(r.Point(), box) {
			out = append(out, r)
		}
	}
	return out
}

// mostActiveAreas groups records by the last comma-separated part of their
// place ("12 km NE of Ridgecrest, CA" -> "CA") and returns the n largest
// groups. Equal counts keep the order in which areas were first seen. This is
// a text heuristic over free-form place names.
func mostActiveAreas(records []domain.QuakeRecord, n int) []domain.AreaActivity {
	index := make(map[string]int)
	areas := make([]domain.AreaActivity, 0)
	for _, r := range records {
		area := areaOf(r.Place)
		if area == "" {
			continue
		}
		i, ok := index[area]
		if !ok {
			i = len(areas)
			index[area] = i
			areas = append(areas, domain.AreaActivity{Area: area})
		}
		areas[i].Count++
	}
	slices.SortStableFunc(areas, func(a, b domain.AreaActivity) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return truncate(areas, n)
}

func areaOf(place string) string {
	if i := strings.LastIndex(place, ","); i >= 0 {
		place = place[i+1:]
	}
	return strings.TrimSpace(place)
}

// Overview snapshots global activity: recent counts, the day's largest quake
// and the latest significant events.
func (e *Engine) Overview(ctx context.Context) (domain.Overview, error) {
	return observe(ctx, e, OpOverview, func(ctx context.Context) (domain.Overview, error) {
		ids := []domain.FeedID{
			{Tier: domain.TierAll, Window: domain.WindowHour},
			{Tier: domain.TierAll, Window: domain.WindowDay},
			{Tier: domain.Tier45, Window: domain.WindowWeek},
			{Tier: domain.TierSignificant, Window: domain.WindowMonth},
		}
		feeds, err := e.fetchFeeds(ctx, ids...)
		if err != nil {
			return domain.Overview{}, err
		}

		summaries := make([]domain.FeedSummary, len(ids))
		for i, id := range ids {
			summaries[i] = domain.FeedSummary{Feed: id.String(), Count: len(feeds[i]), Largest: largest(feeds[i])}
		}

		significant := slices.Clone(feeds[3])
		slices.SortStableFunc(significant, func(a, b domain.QuakeRecord) int {
			return b.OccurredAt.Compare(a.OccurredAt)
		})

		return domain.Overview{
			GeneratedAt:       clock.Now().UTC(),
			Feeds:             summaries,
			LargestToday:      largest(feeds[1]),
			RecentSignificant: truncate(significant, recentSignificant),
		}, nil
	})
}
