package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/geobench/dataset"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
	_ "github.com/viant/geobench/index/backends"
	"github.com/viant/geobench/recorder"
)

var errClose = errors.New("close failed")

// scripted is an adapter that records how the runner drives it.
type scripted struct {
	buildErr error
	closeErr error
	queries  int
	closed   bool
	state    index.State
}

var scripts = map[string]*scripted{}

func registerScripted(name string, p *scripted) {
	scripts[name] = p
	index.Register(name, func(index.Options) (index.Adapter, error) { return scripts[name], nil })
}

func init() {
	registerScripted("scripted-build-fails", &scripted{buildErr: index.ErrBuild})
	registerScripted("scripted-close-fails", &scripted{closeErr: errClose})
	registerScripted("scripted-ok", &scripted{})
}

func (p *scripted) Name() string { return "scripted" }

func (p *scripted) Build(points []geo.Point) error {
	if p.buildErr != nil {
		return p.buildErr
	}
	p.state = index.Built
	return nil
}

func (p *scripted) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := p.state.CanQuery("scripted"); err != nil {
		return index.Outcome{}, err
	}
	p.queries++
	return index.Match(p.queries, 1, 2), nil
}

func (p *scripted) Close() error {
	p.closed = true
	p.state = index.Closed
	return p.closeErr
}

func newTestRunner(t *testing.T, cfg Config) (*Runner, string) {
	dsCfg := dataset.DefaultConfig()
	dsCfg.Dir = filepath.Join(t.TempDir(), "out")
	dsCfg.Seed = 1
	return New(dataset.NewStore(dsCfg), cfg), dsCfg.Dir
}

func TestRunner_RunEveryBackend(t *testing.T) {
	for _, backend := range []string{"bruteforce", "vptree", "cover", "kdtree", "memrtree", "rtree", "geohash"} {
		t.Run(backend, func(t *testing.T) {
			runner, dir := newTestRunner(t, Config{QueryPoints: 25})
			stats, err := runner.Run(context.Background(), Params{Backend: backend, IndexPoints: 300, RadiusMetres: 50000})
			require.NoError(t, err)
			assert.Equal(t, 25, stats.Queries)
			assert.Equal(t, 25, stats.QueryPoints)
			assert.Equal(t, backend, stats.Backend)
			assert.Positive(t, stats.Found)

			key := recorder.Key{Backend: backend, IndexPoints: 300, RadiusMetres: 50000}
			entries, err := recorder.ReadResults(recorder.ResultPath(dir, key))
			require.NoError(t, err)
			assert.Len(t, entries, 25)
			summary, err := recorder.ReadSummary(recorder.SummaryPath(dir, key))
			require.NoError(t, err)
			assert.Equal(t, stats.RunID, summary.RunID)
		})
	}
}

func TestRunner_BackendsAgree(t *testing.T) {
	runner, _ := newTestRunner(t, Config{QueryPoints: 50})
	ctx := context.Background()
	reference, err := runner.Run(ctx, Params{Backend: "bruteforce", IndexPoints: 500, RadiusMetres: 30000})
	require.NoError(t, err)
	for _, backend := range []string{"vptree", "kdtree", "memrtree", "rtree"} {
		stats, err := runner.Run(ctx, Params{Backend: backend, IndexPoints: 500, RadiusMetres: 30000})
		require.NoError(t, err)
		assert.Equal(t, reference.Found, stats.Found, backend)
		assert.InDelta(t, reference.MeanDistance, stats.MeanDistance, 1e-6, backend)
	}
}

func TestRunner_BuildFailureClosesAdapter(t *testing.T) {
	runner, dir := newTestRunner(t, Config{QueryPoints: 5})
	_, err := runner.Run(context.Background(), Params{Backend: "scripted-build-fails", IndexPoints: 10, RadiusMetres: 100})
	assert.ErrorIs(t, err, index.ErrBuild)
	assert.True(t, scripts["scripted-build-fails"].closed)
	assert.NoFileExists(t, recorder.ResultPath(dir, recorder.Key{Backend: "scripted-build-fails", IndexPoints: 10, RadiusMetres: 100}))
}

func TestRunner_CloseErrorJoined(t *testing.T) {
	runner, _ := newTestRunner(t, Config{QueryPoints: 3})
	stats, err := runner.Run(context.Background(), Params{Backend: "scripted-close-fails", IndexPoints: 10})
	assert.ErrorIs(t, err, errClose)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.Found)
}

func TestRunner_EmptyWorkload(t *testing.T) {
	runner, dir := newTestRunner(t, Config{})
	stats, err := runner.Run(context.Background(), Params{Backend: "bruteforce", IndexPoints: 10, RadiusMetres: 1000})
	require.NoError(t, err)
	assert.Zero(t, stats.Queries)
	assert.Zero(t, stats.AverageCandidates)
	assert.Zero(t, stats.FoundRatio)
	key := recorder.Key{Backend: "bruteforce", IndexPoints: 10, RadiusMetres: 1000}
	data, err := os.ReadFile(recorder.ResultPath(dir, key))
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.FileExists(t, recorder.SummaryPath(dir, key))
}

func TestRunner_UnknownBackend(t *testing.T) {
	runner, _ := newTestRunner(t, Config{QueryPoints: 1})
	_, err := runner.Run(context.Background(), Params{Backend: "missing", IndexPoints: 10})
	assert.ErrorIs(t, err, index.ErrUnknownBackend)
}

func TestRunner_Cancelled(t *testing.T) {
	runner, dir := newTestRunner(t, Config{QueryPoints: 5})
	// datasets exist so cancellation is observed in the query loop
	_, err := runner.Run(context.Background(), Params{Backend: "bruteforce", IndexPoints: 10})
	require.NoError(t, err)
	require.NoError(t, os.Remove(recorder.ResultPath(dir, recorder.Key{Backend: "bruteforce", IndexPoints: 10})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, Params{Backend: "bruteforce", IndexPoints: 10})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, recorder.ResultPath(dir, recorder.Key{Backend: "bruteforce", IndexPoints: 10}))
}

func TestRunner_Progress(t *testing.T) {
	var out bytes.Buffer
	runner, _ := newTestRunner(t, Config{QueryPoints: 10, Progress: &out})
	_, err := runner.Run(context.Background(), Params{Backend: "kdtree", IndexPoints: 50, RadiusMetres: 1000})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "kdtree-50-1000")
}

func TestRunner_Sweep(t *testing.T) {
	params := SweepParams{
		Backends:    []string{"bruteforce", "kdtree"},
		IndexSizes:  []int{100, 200},
		Radii:       []float64{1000, 100000},
		QueryPoints: 10,
	}
	for _, parallelism := range []int{1, 4} {
		runner, dir := newTestRunner(t, Config{Parallelism: parallelism})
		results, err := runner.Sweep(context.Background(), params)
		require.NoError(t, err)
		combinations := params.Combinations()
		require.Len(t, results, len(combinations))
		for i, combination := range combinations {
			assert.Equal(t, combination.Backend, results[i].Backend)
			assert.Equal(t, combination.IndexPoints, results[i].IndexPoints)
			assert.Equal(t, combination.RadiusMetres, results[i].RadiusMetres)
			assert.FileExists(t, recorder.ResultPath(dir, results[i].Key))
		}
	}
}

func TestRunner_SweepSharedIndexDirectory(t *testing.T) {
	for _, backend := range []string{"geohash", "rtree"} {
		t.Run(backend, func(t *testing.T) {
			indexDir := t.TempDir()
			runner, dir := newTestRunner(t, Config{Parallelism: 4, Options: index.Options{Dir: indexDir}})
			params := SweepParams{
				Backends:    []string{backend},
				IndexSizes:  []int{200},
				Radii:       []float64{1000, 10000, 100000, 0},
				QueryPoints: 10,
			}
			results, err := runner.Sweep(context.Background(), params)
			require.NoError(t, err)
			require.Len(t, results, 4)
			for _, stats := range results {
				assert.Equal(t, 10, stats.Queries)
				assert.FileExists(t, recorder.SummaryPath(dir, stats.Key))
			}
			assert.DirExists(t, index.Options{Dir: indexDir}.IndexDir(backend, 200))

			// a second sweep reuses the persisted index
			_, err = runner.Sweep(context.Background(), params)
			require.NoError(t, err)
		})
	}
}

func TestRunner_SweepFailure(t *testing.T) {
	runner, _ := newTestRunner(t, Config{Parallelism: 2})
	_, err := runner.Sweep(context.Background(), SweepParams{
		Backends:    []string{"bruteforce", "missing"},
		IndexSizes:  []int{20},
		Radii:       []float64{1000},
		QueryPoints: 5,
	})
	assert.ErrorIs(t, err, index.ErrUnknownBackend)
}

func TestSweepParams_Combinations(t *testing.T) {
	combinations := SweepParams{
		Backends:    []string{"a", "b"},
		IndexSizes:  []int{1, 2},
		Radii:       []float64{10},
		QueryPoints: 3,
	}.Combinations()
	assert.Equal(t, []Params{
		{Backend: "a", IndexPoints: 1, QueryPoints: 3, RadiusMetres: 10},
		{Backend: "a", IndexPoints: 2, QueryPoints: 3, RadiusMetres: 10},
		{Backend: "b", IndexPoints: 1, QueryPoints: 3, RadiusMetres: 10},
		{Backend: "b", IndexPoints: 2, QueryPoints: 3, RadiusMetres: 10},
	}, combinations)
}
