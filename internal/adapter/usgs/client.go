package usgs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-data-service/internal/config"
	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/observability"
	"golang.org/x/time/rate"
)

// Request kinds, used as the metrics "kind" label.
const (
	kindFeed  = "feed"
	kindQuery = "query"
	kindEvent = "event"
)

const queryTimeLayout = "2006-01-02T15:04:05"

// Client implements domain.FeedSource against the USGS summary feeds and the
// FDSN event web service. Failed requests are not retried.
type Client struct {
	httpClient *http.Client
	feedURL    string
	queryURL   string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a USGS client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.USGSTimeout,
		},
		feedURL:  cfg.USGSFeedBaseURL,
		queryURL: cfg.USGSQueryBaseURL,
		limiter:  rate.NewLimiter(rate.Limit(cfg.USGSRateLimit), cfg.USGSRateBurst),
		metrics:  metrics,
		logger:   logger,
	}
}

// FetchFeed retrieves a summary feed such as 2.5_week.
func (c *Client) FetchFeed(ctx context.Context, id domain.FeedID) (domain.FeedPayload, error) {
	u := fmt.Sprintf("%s/%s.geojson", c.feedURL, id)
	return c.fetchCollection(ctx, u, kindFeed)
}

// QueryRange runs a geospatial range query.
func (c *Client) QueryRange(ctx context.Context, q domain.RangeQuery) (domain.FeedPayload, error) {
	// The service takes latitude and longitude as separate parameters; only
	// the GeoJSON it returns uses [lon, lat] order.
	params := url.Values{
		"format":      {"geojson"},
		"latitude":    {formatFloat(q.Center.Latitude)},
		"longitude":   {formatFloat(q.Center.Longitude)},
		"maxradiuskm": {formatFloat(q.RadiusKm)},
	}
	if q.MinMagnitude > 0 {
		params.Set("minmagnitude", formatFloat(q.MinMagnitude))
	}
	if q.MaxMagnitude != nil {
		params.Set("maxmagnitude", formatFloat(*q.MaxMagnitude))
	}
	if !q.Start.IsZero() {
		params.Set("starttime", q.Start.UTC().Format(queryTimeLayout))
	}
	if !q.End.IsZero() {
		params.Set("endtime", q.End.UTC().Format(queryTimeLayout))
	}
	if q.OrderBy != "" {
		params.Set("orderby", q.OrderBy)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	return c.fetchCollection(ctx, c.queryURL+"/query?"+params.Encode(), kindQuery)
}

// FetchByID retrieves one event. Unknown ids yield domain.ErrEventNotFound.
func (c *Client) FetchByID(ctx context.Context, id string) (domain.RawFeature, error) {
	params := url.Values{
		"format":  {"geojson"},
		"eventid": {id},
	}

	body, err := c.get(ctx, c.queryURL+"/query?"+params.Encode(), kindEvent)
	if err != nil {
		return domain.RawFeature{}, err
	}

	var f domain.RawFeature
	if err := json.Unmarshal(body, &f); err != nil {
		return domain.RawFeature{}, c.fail(kindEvent, fmt.Errorf("%w: decode event %s: %w", domain.ErrUpstreamMalformed, id, err))
	}
	if f.ID == "" {
		return domain.RawFeature{}, c.fail(kindEvent, fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound))
	}

	c.metrics.UpstreamRequests.WithLabelValues(kindEvent, "success").Inc()
	return f, nil
}

// CheckReadiness fetches the smallest feed to confirm the upstream answers.
func (c *Client) CheckReadiness(ctx context.Context) error {
	_, err := c.FetchFeed(ctx, domain.FeedID{Tier: domain.TierAll, Window: domain.WindowHour})
	return err
}

func (c *Client) fetchCollection(ctx context.Context, fullURL, kind string) (domain.FeedPayload, error) {
	body, err := c.get(ctx, fullURL, kind)
	if err != nil {
		return domain.FeedPayload{}, err
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return domain.FeedPayload{}, c.fail(kind, fmt.Errorf("%w: decode %s response: %w", domain.ErrUpstreamMalformed, kind, err))
	}
	if fc.Metadata == nil || fc.Metadata.Count == nil {
		return domain.FeedPayload{}, c.fail(kind, fmt.Errorf("%w: %s response without metadata.count", domain.ErrUpstreamMalformed, kind))
	}

	c.metrics.UpstreamRequests.WithLabelValues(kind, "success").Inc()
	return domain.FeedPayload{Count: *fc.Metadata.Count, Features: fc.Features}, nil
}

// get performs one rate-limited GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, fullURL, kind string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.fail(kind, fmt.Errorf("%w: rate limiter: %w", domain.ErrUpstreamUnavailable, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, c.fail(kind, fmt.Errorf("%w: %s request: %w", domain.ErrUpstreamUnavailable, kind, err))
	}
	defer resp.Body.Close()

	if kind == kindEvent && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent) {
		return nil, c.fail(kind, fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrEventNotFound))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, c.fail(kind, fmt.Errorf("%w: usgs API error: status %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, preview))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(kind, fmt.Errorf("%w: read %s response: %w", domain.ErrUpstreamUnavailable, kind, err))
	}
	return body, nil
}

// fail records and logs a failed request, then returns err unchanged.
func (c *Client) fail(kind string, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		outcome = "not_found"
	case errors.Is(err, domain.ErrUpstreamMalformed):
		outcome = "malformed"
	}
	c.metrics.UpstreamRequests.WithLabelValues(kind, outcome).Inc()
	if outcome != "not_found" {
		c.logger.Warn("usgs request failed", "kind", kind, "outcome", outcome, "error", err)
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// USGS GeoJSON response types.

type featureCollection struct {
	Metadata *metadata           `json:"metadata"`
	Features []domain.RawFeature `json:"features"`
}

type metadata struct {
	Count *int   `json:"count"`
	Title string `json:"title"`
}
