package cover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
	"github.com/viant/geobench/index/indextest"
)

func TestIndex_Contract(t *testing.T) {
	factory := func(*testing.T) index.Adapter { return New(0) }
	// float32 chords resolve positions to well under a few metres
	indextest.Run(t, factory, indextest.Capabilities{Distance: true, Exact: true, Tolerance: 5})
}

func TestIndex_Registered(t *testing.T) {
	adapter, err := index.New(Name, index.Options{CoverBase: 2})
	require.NoError(t, err)
	assert.Equal(t, Name, adapter.Name())
	assert.Equal(t, float32(2), adapter.(*Index).base)
}

func TestIndex_Evaluations(t *testing.T) {
	points := indextest.RandomPoints(5, 5000)
	idx := New(1.3)
	require.NoError(t, idx.Build(points))
	outcome, err := idx.Nearest(geo.Point{Lat: 52, Lon: 1}, 50000)
	require.NoError(t, err)
	require.True(t, outcome.Found)
	assert.Less(t, outcome.Candidates, len(points))
}
