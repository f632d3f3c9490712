// Command quakecheck runs a single query against the configured USGS feeds and
// prints the result as JSON. It reads the same environment as the API server,
// so it doubles as a smoke check for a deployment's upstream settings.
//
// Usage:
//
//	go run ./cmd/quakecheck -op risk -lat 35.68 -lon 139.69
//	go run ./cmd/quakecheck -op nearby -lat 61.2 -lon -149.9 -radius 300 -min 2.5
//	go run ./cmd/quakecheck -op top -period week -limit 5
//	go run ./cmd/quakecheck -op overview
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/quake-data-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-data-service/internal/config"
	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/engine"
	"github.com/couchcryptid/quake-data-service/internal/observability"
)

type options struct {
	op      string
	lat     float64
	lon     float64
	radius  float64
	min     float64
	period  string
	limit   int
	timeout time.Duration
}

func main() {
	var o options
	flag.StringVar(&o.op, "op", "overview", "operation: risk, nearby, top or overview")
	flag.Float64Var(&o.lat, "lat", 0, "latitude for risk and nearby")
	flag.Float64Var(&o.lon, "lon", 0, "longitude for risk and nearby")
	flag.Float64Var(&o.radius, "radius", 100, "radius in km for nearby")
	flag.Float64Var(&o.min, "min", 2.5, "minimum magnitude for nearby and top")
	flag.StringVar(&o.period, "period", "week", "period for top: day, week or month")
	flag.IntVar(&o.limit, "limit", 10, "result limit for top")
	flag.DurationVar(&o.timeout, "timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	if code := run(o, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(o options, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	// Logs go to stderr so stdout stays valid JSON.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	// Unregistered: nothing scrapes a one-shot run.
	metrics := observability.NewMetricsForTesting()
	eng := engine.New(usgs.NewClient(cfg, metrics, logger), logger, metrics, cfg.FeedConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	result, err := execute(ctx, eng, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %s: %v\n", o.op, err)
		return 1
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: encode result: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, eng *engine.Engine, o options) (any, error) {
	center := domain.Point{Latitude: o.lat, Longitude: o.lon}
	switch o.op {
	case engine.OpRisk:
		return eng.AssessLocation(ctx, domain.RiskParams{Center: center})
	case engine.OpNearby:
		return eng.Nearby(ctx, domain.NearbyParams{Center: center, RadiusKm: o.radius, MinMagnitude: o.min})
	case engine.OpTop:
		return eng.Top(ctx, domain.TopParams{
			Period:       domain.FeedWindow(o.period),
			RankBy:       domain.RankByMagnitude,
			MinMagnitude: o.min,
			Limit:        o.limit,
		})
	case engine.OpOverview:
		return eng.Overview(ctx)
	default:
		return nil, fmt.Errorf("unknown operation %q", o.op)
	}
}
