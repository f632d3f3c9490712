package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation names, used for metrics, spans and result events.
const (
	OpSearch          = "search"
	OpNearby          = "nearby"
	OpTop             = "top"
	OpByMagnitudeTier = "tier"
	OpEvent           = "event"
	OpCompare         = "compare"
	OpRegionalReport  = "regional_report"
	OpOverview        = "overview"
	OpRisk            = "risk"
)

// Engine answers quake queries by fetching from a FeedSource and shaping the
// normalized records. It holds no state between calls.
type Engine struct {
	feeds       domain.FeedSource
	logger      *slog.Logger
	metrics     *observability.Metrics
	tracer      trace.Tracer
	concurrency int
}

const tracerName = "quake-data-service/engine"

// Option configures an Engine.
type Option func(*Engine)

// WithTracerProvider sets the provider engine spans are created from. The
// global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer(tracerName) }
}

// New creates an Engine. concurrency bounds the number of upstream fetches a
// single operation issues at once.
func New(feeds domain.FeedSource, logger *slog.Logger, metrics *observability.Metrics, concurrency int, opts ...Option) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	e := &Engine{
		feeds:       feeds,
		logger:      logger,
		metrics:     metrics,
		tracer:      otel.Tracer(tracerName),
		concurrency: concurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// observe runs one operation inside a span and records its outcome.
func observe[T any](ctx context.Context, e *Engine, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := e.tracer.Start(ctx, "engine."+op, trace.WithAttributes(attribute.String("operation", op)))
	defer span.End()

	start := time.Now()
	out, err := fn(ctx)
	e.metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		e.metrics.Operations.WithLabelValues(op, "success").Inc()
		return out, nil
	case errors.Is(err, domain.ErrValidation):
		e.metrics.Operations.WithLabelValues(op, "invalid").Inc()
		span.SetStatus(codes.Error, "invalid parameters")
	default:
		e.metrics.Operations.WithLabelValues(op, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Warn("operation failed", "operation", op, "error", err)
	}
	var zero T
	return zero, err
}

// fetchFeed retrieves and normalizes one summary feed.
func (e *Engine) fetchFeed(ctx context.Context, id domain.FeedID) ([]domain.QuakeRecord, error) {
	payload, err := e.feeds.FetchFeed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", id, err)
	}
	records, err := domain.NormalizeAll(payload)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", id, err)
	}
	return records, nil
}

// fetchFeeds retrieves several feeds concurrently. Any failure fails the batch.
func (e *Engine) fetchFeeds(ctx context.Context, ids ...domain.FeedID) ([][]domain.QuakeRecord, error) {
	return fanOut(ctx, e.concurrency, len(ids), func(ctx context.Context, i int) ([]domain.QuakeRecord, error) {
		return e.fetchFeed(ctx, ids[i])
	})
}

// queryRange runs and normalizes one range query.
func (e *Engine) queryRange(ctx context.Context, q domain.RangeQuery) ([]domain.QuakeRecord, error) {
	payload, err := e.feeds.QueryRange(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("range query: %w", err)
	}
	records, err := domain.NormalizeAll(payload)
	if err != nil {
		return nil, fmt.Errorf("range query: %w", err)
	}
	return records, nil
}

// window returns the [now-days, now] interval in UTC.
func window(days int) domain.TimeWindow {
	end := clock.Now().UTC()
	return domain.TimeWindow{Start: end.AddDate(0, 0, -days), End: end}
}

// largest returns the record with the highest magnitude, first occurrence
// winning ties. Records without a magnitude never win.
func largest(records []domain.QuakeRecord) *domain.QuakeRecord {
	var best *domain.QuakeRecord
	for i := range records {
		if records[i].Magnitude == nil {
			continue
		}
		if best == nil || *records[i].Magnitude > *best.Magnitude {
			best = &records[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// magnitudeStats returns the mean and max magnitude over records that carry
// one. Both are 0 when none do.
func magnitudeStats(records []domain.QuakeRecord) (mean, maxMag float64) {
	var sum float64
	n := 0
	for _, r := range records {
		if r.Magnitude == nil {
			continue
		}
		m := *r.Magnitude
		if n == 0 || m > maxMag {
			maxMag = m
		}
		sum += m
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), maxMag
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
