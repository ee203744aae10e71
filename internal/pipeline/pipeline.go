// Package pipeline orchestrates aggregation passes: load the monthly cube,
// aggregate a time series per region, keep the latest table for the API,
// and optionally publish it to the sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/nightsat/nightlights-agg/internal/domain"
	"github.com/nightsat/nightlights-agg/internal/observability"
)

// CubeLoader loads and crops a monthly raster stack.
type CubeLoader interface {
	LoadCube(ctx context.Context, dir, product string, from, to time.Time, grid domain.CoordinateSystem) (domain.DataCube, error)
}

// TablePublisher pushes a finished regional table to downstream consumers.
type TablePublisher interface {
	PublishTable(ctx context.Context, product string, table *domain.RegionalTable) error
}

// Params collects the pipeline's collaborators and job settings.
type Params struct {
	Loader    CubeLoader
	Regions   domain.RegionTable
	Publisher TablePublisher // nil disables publishing
	Grid      domain.CoordinateSystem

	RasterDir string
	Product   string
	From, To  time.Time
	Attribute string

	RefreshInterval time.Duration
	Workers         int

	Logger  *slog.Logger
	Metrics *observability.Metrics
	Clock   clockwork.Clock
}

// Pipeline runs aggregation passes and holds the latest result.
type Pipeline struct {
	p      Params
	latest atomic.Pointer[domain.RegionalTable]
}

// New creates a Pipeline. A nil Clock defaults to the real clock.
func New(p Params) *Pipeline {
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}
	if p.Workers < 1 {
		p.Workers = 1
	}
	return &Pipeline{p: p}
}

// CheckReadiness returns nil once at least one pass has produced a table.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.latest.Load() == nil {
		return errors.New("no aggregation pass has completed yet")
	}
	return nil
}

// Latest returns the most recent regional table, or nil before the first
// successful pass.
func (p *Pipeline) Latest() *domain.RegionalTable {
	return p.latest.Load()
}

// Run executes one pass immediately, then one per refresh interval until the
// context is cancelled. A failing pass is logged and retried at the next
// tick; the previous table stays served in the meantime.
func (p *Pipeline) Run(ctx context.Context) error {
	p.p.Logger.Info("pipeline started",
		"product", p.p.Product,
		"from", p.p.From.Format("200601"),
		"to", p.p.To.Format("200601"),
		"refresh", p.p.RefreshInterval,
		"workers", p.p.Workers,
	)
	p.p.Metrics.PipelineRunning.Set(1)
	defer p.p.Metrics.PipelineRunning.Set(0)

	p.pass(ctx)

	ticker := p.p.Clock.NewTicker(p.p.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.p.Logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.pass(ctx)
		}
	}
}

// pass runs a single aggregation pass and records the outcome.
func (p *Pipeline) pass(ctx context.Context) {
	start := time.Now()
	table, err := p.RunOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.p.Logger.Error("aggregation pass failed", "error", err)
		p.p.Metrics.PassErrors.Inc()
		return
	}
	p.p.Metrics.PassesTotal.Inc()
	p.p.Metrics.PassDuration.Observe(time.Since(start).Seconds())
	p.p.Metrics.RegionsAggregated.Add(float64(len(table.Labels)))
	p.p.Metrics.LastSuccess.Set(float64(p.p.Clock.Now().Unix()))
	p.p.Logger.Info("aggregation pass complete",
		"regions", len(table.Labels),
		"months", len(table.Timestamps),
		"duration", time.Since(start),
	)
}

// RunOnce loads the cube, aggregates every region, stores the result as the
// latest table, and publishes it when a publisher is configured.
func (p *Pipeline) RunOnce(ctx context.Context) (*domain.RegionalTable, error) {
	cube, err := p.p.Loader.LoadCube(ctx, p.p.RasterDir, p.p.Product, p.p.From, p.p.To, p.p.Grid)
	if err != nil {
		return nil, fmt.Errorf("load cube: %w", err)
	}
	p.p.Metrics.CubeMonths.Observe(float64(cube.Len()))

	var table *domain.RegionalTable
	if p.p.Workers > 1 {
		table, err = p.aggregateParallel(ctx, cube)
	} else {
		table, err = domain.AggregateTable(p.p.Grid, cube, p.p.Regions, p.p.Attribute)
	}
	if err != nil {
		return nil, err
	}

	// GeneratedAt comes from the pipeline clock for both aggregation paths.
	table.GeneratedAt = p.p.Clock.Now()
	p.latest.Store(table)

	if p.p.Publisher != nil {
		if err := p.p.Publisher.PublishTable(ctx, p.p.Product, table); err != nil {
			// The table is already served; a sink outage should not fail the pass.
			p.p.Logger.Warn("publish table failed", "error", err)
			p.p.Metrics.PublishErrors.Inc()
		} else {
			p.p.Metrics.SeriesPublished.Add(float64(len(table.Labels)))
		}
	}
	return table, nil
}

// aggregateParallel fans region aggregation out across workers. Regions are
// independent and the cube, grid, and region table are read-only, so workers
// share them freely; each worker writes only its own row slot. Output order
// and duplicate-label semantics match domain.AggregateTable exactly.
func (p *Pipeline) aggregateParallel(ctx context.Context, cube domain.DataCube) (*domain.RegionalTable, error) {
	if cube.Height != p.p.Grid.Height || cube.Width != p.p.Grid.Width {
		return nil, fmt.Errorf("cube %dx%d vs grid %dx%d: %w",
			cube.Height, cube.Width, p.p.Grid.Height, p.p.Grid.Width, domain.ErrDimensionMismatch)
	}

	n := p.p.Regions.Len()
	labels := make([]string, n)
	columns := make([][]float64, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.p.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			label, err := p.p.Regions.Label(i, p.p.Attribute)
			if err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			mask, err := p.p.Regions.Mask(i, p.p.Grid)
			if err != nil {
				return fmt.Errorf("rasterize region %q: %w", label, err)
			}
			series, err := domain.AggregateSeries(cube, mask)
			if err != nil {
				return fmt.Errorf("aggregate region %q: %w", label, err)
			}
			labels[i] = label
			columns[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := &domain.RegionalTable{
		Labels:     labels,
		Timestamps: cube.Times,
		Series:     make(map[string][]float64, n),
	}
	for i, label := range labels {
		if _, exists := table.Series[label]; exists {
			return nil, fmt.Errorf("region %d %q: %w", i, label, domain.ErrDuplicateLabel)
		}
		table.Series[label] = columns[i]
	}
	return table, nil
}
