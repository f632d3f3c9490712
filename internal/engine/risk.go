package engine

import (
	"context"

	"github.com/couchcryptid/quake-data-service/internal/domain"
)

const (
	riskWindowDays   = 30
	riskMinMagnitude = 2.5
)

var riskRadiiKm = []float64{50, 250, 500}

// AssessLocation scores seismic risk around a point from the past 30 days of
// M2.5+ activity at 50, 250 and 500 km.
func (e *Engine) AssessLocation(ctx context.Context, p domain.RiskParams) (domain.LocationRisk, error) {
	return observe(ctx, e, OpRisk, func(ctx context.Context) (domain.LocationRisk, error) {
		if err := domain.Validate(p); err != nil {
			return domain.LocationRisk{}, err
		}

		w := window(riskWindowDays)
		sets, err := fanOut(ctx, e.concurrency, len(riskRadiiKm), func(ctx context.Context, i int) ([]domain.QuakeRecord, error) {
			return e.queryRange(ctx, domain.RangeQuery{
				Center:       p.Center,
				RadiusKm:     riskRadiiKm[i],
				MinMagnitude: riskMinMagnitude,
				Start:        w.Start,
				End:          w.End,
				OrderBy:      domain.OrderTime,
			})
		})
		if err != nil {
			return domain.LocationRisk{}, err
		}

		_, maxNearby := magnitudeStats(sets[1])
		return domain.LocationRisk{
			Center:             p.Center,
			Window:             w,
			MinMagnitude:       riskMinMagnitude,
			Nearby50Km:         len(sets[0]),
			Nearby250Km:        len(sets[1]),
			Nearby500Km:        len(sets[2]),
			MaxNearbyMagnitude: maxNearby,
			Assessment:         domain.Assess(len(sets[0]), len(sets[1]), len(sets[2]), maxNearby),
		}, nil
	})
}
