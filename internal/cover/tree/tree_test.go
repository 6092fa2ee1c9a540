package tree

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomVectors(seed uint64, n, dim int) [][]float32 {
	rnd := rand.New(rand.NewPCG(seed, seed))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		for j := range v {
			v[j] = rnd.Float32()
		}
		out[i] = v
	}
	return out
}

func linearNearest(vectors [][]float32, query []float32) (int, float32) {
	best, bestDist := -1, float32(math.MaxFloat32)
	for i, v := range vectors {
		if d := EuclideanDistance(NewPoint(query...), NewPoint(v...)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func TestTree_Nearest(t *testing.T) {
	vectors := randomVectors(1, 3000, 3)
	tree := NewTree[int](0, 2, EuclideanDistance)
	for i, v := range vectors {
		tree.Insert(i, NewPoint(v...))
	}
	require.Equal(t, len(vectors), tree.Len())

	for _, query := range randomVectors(2, 100, 3) {
		wantIdx, wantDist := linearNearest(vectors, query)
		neighbor, evaluations, ok := tree.Nearest(NewPoint(query...), -1)
		require.True(t, ok)
		assert.InDelta(t, wantDist, neighbor.Distance, 1e-6)
		if neighbor.Distance != wantDist {
			continue
		}
		assert.Equal(t, wantIdx, tree.Value(neighbor.Point))
		assert.Less(t, evaluations, len(vectors))
	}
}

func TestTree_NearestBound(t *testing.T) {
	tree := NewTree[string](2, 10, nil)
	tree.Insert("a", NewPoint(0, 0))
	tree.Insert("b", NewPoint(3, 4))
	tree.Insert("c", NewPoint(6, 8))

	testCases := []struct {
		description string
		query       []float32
		bound       float32
		value       string
		found       bool
	}{
		{description: "unbounded", query: []float32{5, 7}, bound: -1, value: "c", found: true},
		{description: "inclusive bound", query: []float32{-3, -4}, bound: 5, value: "a", found: true},
		{description: "exact hit", query: []float32{0, 0}, bound: 0, value: "a", found: true},
		{description: "out of range", query: []float32{-10, 0}, bound: 5, found: false},
	}
	for _, testCase := range testCases {
		neighbor, evaluations, ok := tree.Nearest(NewPoint(testCase.query...), testCase.bound)
		assert.Equal(t, testCase.found, ok, testCase.description)
		assert.Positive(t, evaluations, testCase.description)
		if ok {
			assert.Equal(t, testCase.value, tree.Value(neighbor.Point), testCase.description)
		}
	}
}

func TestTree_Empty(t *testing.T) {
	tree := NewTree[int](1.3, 2, EuclideanDistance)
	_, evaluations, ok := tree.Nearest(NewPoint(0, 0, 1), -1)
	assert.False(t, ok)
	assert.Zero(t, evaluations)
	assert.Zero(t, tree.Value(NewPoint(1)))
}

func TestTree_NearestTiesPreferEarliest(t *testing.T) {
	tree := NewTree[string](2, 10, nil)
	tree.Insert("a", NewPoint(1, 1))
	for _, name := range []string{"b", "c", "d", "e"} {
		tree.Insert(name, NewPoint(0, 0))
	}
	for _, bound := range []float32{-1, 0, 5} {
		neighbor, _, ok := tree.Nearest(NewPoint(0, 0), bound)
		require.True(t, ok, "bound %v", bound)
		assert.Equal(t, "b", tree.Value(neighbor.Point), "bound %v", bound)
	}
}
