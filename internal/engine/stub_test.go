package engine_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/engine"
	"github.com/couchcryptid/quake-data-service/internal/observability"
	"go.opentelemetry.io/otel/trace"
)

// --- stub feed source ---

// stubFeeds serves canned payloads and counts every call.
type stubFeeds struct {
	feeds    map[string]domain.FeedPayload
	feedErrs map[string]error
	query    func(q domain.RangeQuery) (domain.FeedPayload, error)
	events   map[string]domain.RawFeature

	calls       atomic.Int32
	tracedCalls atomic.Int32

	mu        sync.Mutex
	feedsSeen []string
	queries   []domain.RangeQuery
}

func (s *stubFeeds) record(ctx context.Context) {
	s.calls.Add(1)
	if trace.SpanFromContext(ctx).SpanContext().IsValid() {
		s.tracedCalls.Add(1)
	}
}

func (s *stubFeeds) FetchFeed(ctx context.Context, id domain.FeedID) (domain.FeedPayload, error) {
	s.record(ctx)
	s.mu.Lock()
	s.feedsSeen = append(s.feedsSeen, id.String())
	s.mu.Unlock()

	if err := s.feedErrs[id.String()]; err != nil {
		return domain.FeedPayload{}, err
	}
	return s.feeds[id.String()], nil
}

func (s *stubFeeds) QueryRange(ctx context.Context, q domain.RangeQuery) (domain.FeedPayload, error) {
	s.record(ctx)
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	if s.query == nil {
		return domain.FeedPayload{}, nil
	}
	return s.query(q)
}

func (s *stubFeeds) FetchByID(ctx context.Context, id string) (domain.RawFeature, error) {
	s.record(ctx)
	f, ok := s.events[id]
	if !ok {
		return domain.RawFeature{}, domain.ErrEventNotFound
	}
	return f, nil
}

var errUpstream = fmt.Errorf("status 503: %w", domain.ErrUpstreamUnavailable)

func newEngine(feeds domain.FeedSource) *engine.Engine {
	return engine.New(feeds, slog.Default(), observability.NewMetricsForTesting(), 4)
}

// --- feature builders ---

var baseTime = time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC)

type featureOpt func(*domain.RawFeature)

func withPlace(place string) featureOpt {
	return func(f *domain.RawFeature) { f.Properties.Place = place }
}

func withSig(sig int) featureOpt {
	return func(f *domain.RawFeature) { f.Properties.Sig = &sig }
}

func withTime(t time.Time) featureOpt {
	return func(f *domain.RawFeature) {
		ms := t.UnixMilli()
		f.Properties.Time = &ms
	}
}

func withoutMag() featureOpt {
	return func(f *domain.RawFeature) { f.Properties.Mag = nil }
}

func feature(id string, mag, lat, lon float64, opts ...featureOpt) domain.RawFeature {
	ms := baseTime.UnixMilli()
	f := domain.RawFeature{
		ID: id,
		Properties: domain.RawProperties{
			Mag:  &mag,
			Time: &ms,
		},
		Geometry: &domain.RawGeometry{Type: "Point", Coordinates: []float64{lon, lat, 10}},
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func payload(features ...domain.RawFeature) domain.FeedPayload {
	return domain.FeedPayload{Count: len(features), Features: features}
}

func recordIDs(records []domain.QuakeRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
