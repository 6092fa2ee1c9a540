package memrtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
	"github.com/viant/geobench/index/bruteforce"
	"github.com/viant/geobench/index/indextest"
)

func TestIndex_Contract(t *testing.T) {
	indextest.Run(t, func(*testing.T) index.Adapter { return New() }, indextest.Capabilities{Distance: true, Exact: true})
}

func TestIndex_Candidates(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Build(indextest.FourPoints()))

	testCases := []struct {
		description string
		query       geo.Point
		radius      float64
		candidates  int
		id          int
	}{
		{description: "unbounded scans everything", query: geo.Point{Lat: 50, Lon: 0}, radius: 0, candidates: 4, id: 1},
		{description: "small radius keeps one", query: geo.Point{Lat: 50, Lon: 0}, radius: 1000, candidates: 1, id: 1},
		{description: "radius covering two", query: geo.Point{Lat: 50.5, Lon: 0.5}, radius: 80000, candidates: 2, id: 2},
		{description: "nothing in range", query: geo.Point{Lat: 40, Lon: 0}, radius: 1000, candidates: 0, id: 0},
	}
	for _, testCase := range testCases {
		outcome, err := idx.Nearest(testCase.query, testCase.radius)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.candidates, outcome.Candidates, testCase.description)
		assert.Equal(t, testCase.id, outcome.ID, testCase.description)
	}
}

func TestIndex_MatchesBruteForceCandidates(t *testing.T) {
	points := indextest.RandomPoints(11, 3000)
	queries := indextest.RandomPoints(12, 100)
	tree, brute := New(), bruteforce.New()
	require.NoError(t, tree.Build(points))
	require.NoError(t, brute.Build(points))
	for _, radius := range []float64{0, 2000, 25000} {
		for _, q := range queries {
			expected, err := brute.Nearest(q, radius)
			require.NoError(t, err)
			actual, err := tree.Nearest(q, radius)
			require.NoError(t, err)
			assert.Equal(t, expected, actual, "query %v radius %v", q, radius)
		}
	}
}

func TestIndex_BoxEdgeIncluded(t *testing.T) {
	center := geo.Point{Lat: 50, Lon: 0}
	box := geo.Around(center, 10000)
	edge := geo.Point{Lat: box.MaxLat, Lon: center.Lon}
	idx := New()
	require.NoError(t, idx.Build([]geo.Point{edge}))
	outcome, err := idx.Nearest(center, 10000)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Candidates)
}
