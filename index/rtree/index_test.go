package rtree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/geobench/engine"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
	"github.com/viant/geobench/index/indextest"
)

func TestIndex_Contract(t *testing.T) {
	caps := indextest.Capabilities{Distance: true, Exact: true}
	t.Run("memory", func(t *testing.T) {
		indextest.Run(t, func(*testing.T) index.Adapter { return New(index.Options{}) }, caps)
	})
	t.Run("file", func(t *testing.T) {
		indextest.Run(t, func(t *testing.T) index.Adapter { return New(index.Options{Dir: t.TempDir()}) }, caps)
	})
}

func TestIndex_Reuse(t *testing.T) {
	opts := index.Options{Dir: t.TempDir()}
	points := indextest.RandomPoints(1, 500)
	query := geo.Point{Lat: 52, Lon: 0}

	first := New(opts)
	require.NoError(t, first.Build(points))
	assert.False(t, first.Reused)
	want, err := first.Nearest(query, 50000)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	assert.FileExists(t, filepath.Join(opts.IndexDir(Name, len(points)), dbFile))

	second := New(opts)
	require.NoError(t, second.Build(points))
	defer second.Close()
	assert.True(t, second.Reused)
	got, err := second.Nearest(query, 50000)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other := New(opts)
	require.NoError(t, other.Build(points[:10]))
	defer other.Close()
	assert.False(t, other.Reused)
	assert.DirExists(t, opts.IndexDir(Name, 10))
}

func TestIndex_ReuseChecksContent(t *testing.T) {
	opts := index.Options{Dir: t.TempDir()}
	query := geo.Point{Lat: 52, Lon: 0}

	first := New(opts)
	require.NoError(t, first.Build(indextest.RandomPoints(1, 300)))
	require.NoError(t, first.Close())

	points := indextest.RandomPoints(2, 300)
	second := New(opts)
	require.NoError(t, second.Build(points))
	defer second.Close()
	assert.False(t, second.Reused, "same size, different points")

	fresh := New(index.Options{})
	require.NoError(t, fresh.Build(points))
	defer fresh.Close()
	want, err := fresh.Nearest(query, 0)
	require.NoError(t, err)
	got, err := second.Nearest(query, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_Fingerprint(t *testing.T) {
	ctx := context.Background()
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	s, err := newStore(ctx, db)
	require.NoError(t, err)

	fp, err := s.fingerprint(ctx)
	require.NoError(t, err)
	assert.Empty(t, fp)

	points := indextest.RandomPoints(3, 50)
	require.NoError(t, s.load(ctx, points))
	fp, err = s.fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, fingerprint(points), fp)
	assert.Len(t, fp, 2*fingerprintPrecision+1)

	same, err := s.matches(ctx, points)
	require.NoError(t, err)
	assert.True(t, same)
	shifted := append([]geo.Point{{Lat: 50, Lon: 0}}, points[1:]...)
	same, err = s.matches(ctx, shifted)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestIndex_InMemoryOption(t *testing.T) {
	dir := t.TempDir()
	idx := New(index.Options{Dir: dir, InMemory: true})
	require.NoError(t, idx.Build(indextest.FourPoints()))
	defer idx.Close()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIndex_Candidates(t *testing.T) {
	idx := New(index.Options{})
	require.NoError(t, idx.Build(indextest.FourPoints()))
	defer idx.Close()

	testCases := []struct {
		description string
		query       geo.Point
		radius      float64
		candidates  int
		id          int
	}{
		{description: "unbounded counts every row", query: geo.Point{Lat: 50, Lon: 0}, radius: 0, candidates: 4, id: 1},
		{description: "box holds one", query: geo.Point{Lat: 50, Lon: 0}, radius: 1000, candidates: 1, id: 1},
		{description: "box holds two", query: geo.Point{Lat: 50.5, Lon: 0.5}, radius: 80000, candidates: 2, id: 2},
		{description: "empty box", query: geo.Point{Lat: 40, Lon: 0}, radius: 1000, candidates: 0, id: 0},
	}
	for _, testCase := range testCases {
		outcome, err := idx.Nearest(testCase.query, testCase.radius)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.candidates, outcome.Candidates, testCase.description)
		assert.Equal(t, testCase.id, outcome.ID, testCase.description)
	}
}
