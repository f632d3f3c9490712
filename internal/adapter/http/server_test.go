package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/quake-data-service/internal/adapter/http"
	"github.com/couchcryptid/quake-data-service/internal/config"
	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

// mockService records the parameters it was called with and returns err when set.
type mockService struct {
	mu    sync.Mutex
	calls int
	last  any
	err   error
	// blockErr, when set, makes Overview wait for the request deadline and
	// return the error it builds from the context.
	blockErr func(ctxErr error) error
}

func (m *mockService) record(p any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.last = p
	return m.err
}

func (m *mockService) Search(_ context.Context, p domain.SearchParams) (domain.SearchResult, error) {
	return domain.SearchResult{Count: 0, Quakes: []domain.QuakeRecord{}}, m.record(p)
}

func (m *mockService) Nearby(_ context.Context, p domain.NearbyParams) (domain.NearbyResult, error) {
	return domain.NearbyResult{Feed: "2.5_week", Quakes: []domain.NearbyQuake{}}, m.record(p)
}

func (m *mockService) Top(_ context.Context, p domain.TopParams) (domain.TopResult, error) {
	return domain.TopResult{Period: p.Period}, m.record(p)
}

func (m *mockService) ByMagnitudeTier(_ context.Context, p domain.TierParams) (domain.FeedResult, error) {
	return domain.FeedResult{Feed: domain.FeedID{Tier: p.Tier, Window: p.Window}.String()}, m.record(p)
}

func (m *mockService) Event(_ context.Context, p domain.EventParams) (domain.QuakeRecord, error) {
	return domain.QuakeRecord{ID: p.ID}, m.record(p)
}

func (m *mockService) Compare(_ context.Context, p domain.CompareParams) (domain.ComparisonResult, error) {
	res := domain.ComparisonResult{}
	if len(p.Regions) > 0 {
		res.MostActive = p.Regions[0].Name
	}
	return res, m.record(p)
}

func (m *mockService) RegionalReport(_ context.Context, p domain.ReportParams) (domain.RegionalReport, error) {
	return domain.RegionalReport{Region: p.Region}, m.record(p)
}

func (m *mockService) Overview(ctx context.Context) (domain.Overview, error) {
	if m.blockErr != nil {
		<-ctx.Done()
		return domain.Overview{}, m.blockErr(ctx.Err())
	}
	return domain.Overview{}, m.record(nil)
}

func (m *mockService) AssessLocation(_ context.Context, p domain.RiskParams) (domain.LocationRisk, error) {
	return domain.LocationRisk{Center: p.Center, Assessment: domain.Assess(0, 0, 0, 0)}, m.record(p)
}

type mockSink struct {
	mu     sync.Mutex
	events []domain.ResultEvent
	err    error
}

func (m *mockSink) Publish(_ context.Context, events ...domain.ResultEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, events...)
	return nil
}

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:       ":0",
		RequestTimeout: 5 * time.Second,
		USGSTimeout:    5 * time.Second,
		APIRateLimit:   1000,
		APIRateBurst:   1000,
	}
}

type fixture struct {
	srv     *httpadapter.Server
	svc     *mockService
	sink    *mockSink
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{svc: &mockService{}, sink: &mockSink{}, metrics: observability.NewMetricsForTesting()}
	f.srv = httpadapter.NewServer(testConfig(), f.svc, &mockReadiness{}, f.sink, f.metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

type errorBody struct {
	Error     string              `json:"error"`
	Fields    []domain.FieldError `json:"fields"`
	RequestID string              `json:"request_id"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)

	notReady := httpadapter.NewServer(testConfig(), &mockService{}, &mockReadiness{err: fmt.Errorf("usgs unreachable")}, nil, observability.NewMetricsForTesting(), slog.Default())
	rec := httptest.NewRecorder()
	notReady.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- operations ---

func TestCatalog(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/api/v1/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Operations []httpadapter.Operation `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	names := make([]string, 0, len(body.Operations))
	for _, op := range body.Operations {
		names = append(names, op.Name)
		assert.NotEmpty(t, op.Price, op.Name)
	}
	assert.Contains(t, names, "risk")
	assert.Contains(t, names, "compare")
}

func TestSearch_ParsesParamsAndPublishes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/quakes/search?lat=37.77&lon=-122.42&radius_km=250&min_magnitude=3&days=3&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, domain.SearchParams{
		Center:       domain.Point{Latitude: 37.77, Longitude: -122.42},
		RadiusKm:     250,
		MinMagnitude: 3,
		MaxMagnitude: 10,
		Days:         3,
		Limit:        5,
	}, f.svc.last)

	require.Len(t, f.sink.events, 1)
	ev := f.sink.events[0]
	assert.Equal(t, "search", ev.Operation)
	assert.NotEmpty(t, ev.ID)
	assert.NotEmpty(t, ev.RequestID)
	assert.JSONEq(t, rec.Body.String(), string(ev.Result))
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ResultsPublished.WithLabelValues("success")), 0)
}

func TestSearch_BadQueryParams(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/quakes/search?lat=north&limit=many", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	fields := make([]string, 0, len(body.Fields))
	for _, fe := range body.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"lat", "lon", "limit"}, fields)
	assert.Zero(t, f.svc.calls, "service is not called for unparsable input")
	assert.Empty(t, f.sink.events)
}

func TestNearby_Defaults(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/quakes/nearby?lat=35&lon=139", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.NearbyParams{
		Center:       domain.Point{Latitude: 35, Longitude: 139},
		RadiusKm:     100,
		MinMagnitude: 2.5,
	}, f.svc.last)
}

func TestTopAndTierRoutes(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/quakes/top?period=month&rank_by=significance", "").Code)
	assert.Equal(t, domain.TopParams{Period: domain.WindowMonth, RankBy: domain.RankBySignificance, Limit: 10}, f.svc.last)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/quakes/tier/4.5/day?limit=3", "").Code)
	assert.Equal(t, domain.TierParams{Tier: domain.Tier45, Window: domain.WindowDay, Limit: 3}, f.svc.last)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/quakes/us7000abcd", "").Code)
	assert.Equal(t, domain.EventParams{ID: "us7000abcd"}, f.svc.last)
}

func TestCompare(t *testing.T) {
	f := newFixture(t)

	body := `{"regions":[
		{"name":"tokyo","center":{"latitude":35.68,"longitude":139.69},"radius_km":300},
		{"name":"lima","center":{"latitude":-12.05,"longitude":-77.04},"radius_km":300}
	],"min_magnitude":3}`
	rec := f.do(http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, rec.Code)

	p, ok := f.svc.last.(domain.CompareParams)
	require.True(t, ok)
	require.Len(t, p.Regions, 2)
	assert.Equal(t, "lima", p.Regions[1].Name)
	assert.Equal(t, -77.04, p.Regions[1].Center.Longitude)
	assert.Equal(t, 3.0, p.MinMagnitude)
}

func TestCompare_InvalidBody(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{"not json", `{"regions":[],"unknown":1}`} {
		rec := f.do(http.MethodPost, "/api/v1/compare", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "body", decodeError(t, rec).Fields[0].Field)
	}
	assert.Zero(t, f.svc.calls)
}

func TestReports(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/regions/japan/report", "").Code)
	assert.Equal(t, domain.ReportParams{Region: "japan"}, f.svc.last)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/report?lat_min=-25&lat_max=-12&lon_min=175&lon_max=-172&name=tonga", "").Code)
	assert.Equal(t, domain.ReportParams{
		Region: "tonga",
		Bounds: &domain.BoundingBox{LatMin: -25, LatMax: -12, LonMin: 175, LonMax: -172},
	}, f.svc.last)

	rec := f.do(http.MethodGet, "/api/v1/report?lat_min=1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decodeError(t, rec).Fields, 3)
}

func TestRegions(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/api/v1/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions []domain.RegionPreset `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Regions, len(domain.RegionPresets()))
}

func TestRiskAndOverview(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/risk?lat=35.68&lon=139.69", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"level":"low"`)
	assert.Contains(t, rec.Body.String(), `"factors":[]`)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/overview", "").Code)
	assert.Len(t, f.sink.events, 2)
}

// --- error mapping ---

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", domain.NewValidationError("radius_km", "gte", "must be at least 1"), http.StatusBadRequest, "validation failed"},
		{"not found", fmt.Errorf("fetch event x: %w", domain.ErrEventNotFound), http.StatusNotFound, "event not found"},
		{"upstream unavailable", fmt.Errorf("fetch feed all_day: %w", domain.ErrUpstreamUnavailable), http.StatusBadGateway, "upstream unavailable"},
		{"upstream malformed", fmt.Errorf("feed all_day: %w", domain.ErrUpstreamMalformed), http.StatusBadGateway, "upstream response malformed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.svc.err = tt.err

			rec := f.do(http.MethodGet, "/api/v1/quakes/nearby?lat=1&lon=1", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeError(t, rec)
			assert.Equal(t, tt.message, body.Error)
			assert.NotEmpty(t, body.RequestID)
			assert.Empty(t, f.sink.events, "failures are not published")
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		name     string
		blockErr func(ctxErr error) error
	}{
		{"context error wrapped", func(ctxErr error) error {
			return fmt.Errorf("fetch feed all_hour: %w: %w", domain.ErrUpstreamUnavailable, ctxErr)
		}},
		{"limiter gave up", func(error) error {
			return fmt.Errorf("%w: rate limiter: would exceed context deadline", domain.ErrUpstreamUnavailable)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RequestTimeout = 20 * time.Millisecond
			svc := &mockService{blockErr: tt.blockErr}
			sink := &mockSink{}
			srv := httpadapter.NewServer(cfg, svc, &mockReadiness{}, sink, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil))

			assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "request timed out", body.Error)
			assert.NotEmpty(t, body.RequestID)
			assert.Empty(t, sink.events)
		})
	}
}

func TestPublishFailureDoesNotFailResponse(t *testing.T) {
	f := newFixture(t)
	f.sink.err = errors.New("kafka down")

	rec := f.do(http.MethodGet, "/api/v1/overview", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ResultsPublished.WithLabelValues("error")), 0)
}

func TestNilSink(t *testing.T) {
	srv := httpadapter.NewServer(testConfig(), &mockService{}, &mockReadiness{}, nil, observability.NewMetricsForTesting(), slog.Default())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- rate limiting ---

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.APIRateLimit = 0.5
	cfg.APIRateBurst = 2
	metrics := observability.NewMetricsForTesting()
	srv := httpadapter.NewServer(cfg, &mockService{}, &mockReadiness{}, nil, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("198.51.100.7:1000").Code)
	assert.Equal(t, http.StatusOK, call("198.51.100.7:1001").Code)

	limited := call("198.51.100.7:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "2", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("203.0.113.9:1000").Code, "other clients have their own bucket")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RateLimited), 0)

	// Health endpoints are not limited.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "198.51.100.7:1003"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
