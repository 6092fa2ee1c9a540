package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/viant/geobench/dataset"
	"github.com/viant/geobench/index"
	"github.com/viant/geobench/recorder"
	"golang.org/x/sync/errgroup"
)

// Runner executes benchmark runs against one dataset store.
type Runner struct {
	store *dataset.Store
	cfg   Config
}

// New creates a runner. Results are written to the store's output directory.
func New(store *dataset.Store, cfg Config) *Runner {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return &Runner{store: store, cfg: cfg}
}

// Run builds the backend once, queries it with every query point and flushes
// the results. The adapter is always closed; a close failure is joined into
// the returned error. A cancelled run writes nothing.
func (r *Runner) Run(ctx context.Context, params Params) (*recorder.RunStatistics, error) {
	return r.run(ctx, params, r.cfg.Progress != nil)
}

func (r *Runner) run(ctx context.Context, params Params, progress bool) (stats *recorder.RunStatistics, err error) {
	queryPoints := params.QueryPoints
	if queryPoints == 0 {
		queryPoints = r.cfg.QueryPoints
	}
	key := recorder.Key{Backend: params.Backend, IndexPoints: params.IndexPoints, RadiusMetres: params.RadiusMetres}

	indexSet, err := r.store.Get(ctx, dataset.RoleIndex, params.IndexPoints)
	if err != nil {
		return nil, fmt.Errorf("runner: %s: index set: %w", key, err)
	}
	adapter, err := index.New(params.Backend, r.cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("runner: %s: %w", key, err)
	}
	defer func() {
		if closeErr := adapter.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("runner: %s: close: %w", key, closeErr))
		}
	}()

	started := time.Now()
	if err := adapter.Build(indexSet); err != nil {
		return nil, fmt.Errorf("runner: %s: %w", key, err)
	}
	buildDuration := time.Since(started)

	querySet, err := r.store.Get(ctx, dataset.RoleQuery, queryPoints)
	if err != nil {
		return nil, fmt.Errorf("runner: %s: query set: %w", key, err)
	}
	rec := recorder.New(r.store.Config().Dir, key, queryPoints)
	rec.SetBuildDuration(buildDuration)

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.NewOptions(len(querySet),
			progressbar.OptionSetWriter(r.cfg.Progress),
			progressbar.OptionSetDescription(key.String()),
			progressbar.OptionShowCount(),
		)
	}
	for _, point := range querySet {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		queryStarted := time.Now()
		outcome, err := adapter.Nearest(point, params.RadiusMetres)
		latency := time.Since(queryStarted)
		if err != nil {
			return nil, fmt.Errorf("runner: %s: query %v: %w", key, point, err)
		}
		if err := rec.Add(outcome, latency); err != nil {
			return nil, err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err := rec.Flush(); err != nil {
		return nil, fmt.Errorf("runner: %s: %w", key, err)
	}
	result := rec.Finalize()
	log.Info().
		Str("backend", key.Backend).
		Int("indexPoints", key.IndexPoints).
		Float64("radius", key.RadiusMetres).
		Dur("build", result.BuildDuration).
		Dur("query", result.QueryDuration).
		Float64("avgCandidates", result.AverageCandidates).
		Int("found", result.Found).
		Msg("run complete")
	return &result, nil
}

// Sweep runs every combination, at most Parallelism at a time, each with its
// own adapter and recorder. Statistics come back in combination order; the
// first failure cancels the remaining runs.
func (r *Runner) Sweep(ctx context.Context, params SweepParams) ([]*recorder.RunStatistics, error) {
	combinations := params.Combinations()
	results := make([]*recorder.RunStatistics, len(combinations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallelism)
	// concurrent bars would interleave on one writer
	progress := r.cfg.Progress != nil && r.cfg.Parallelism == 1
	for i, combination := range combinations {
		g.Go(func() error {
			stats, err := r.run(gctx, combination, progress)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
