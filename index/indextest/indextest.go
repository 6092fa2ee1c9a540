// Package indextest checks that a backend honours the index.Adapter contract.
package indextest

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Capabilities describe what a backend guarantees beyond the base contract.
type Capabilities struct {
	// Distance is set when matches carry the haversine distance.
	Distance bool
	// Exact is set when the match is always the true nearest point in range.
	Exact bool
	// Tolerance (metres) absorbs backends that compare distances at reduced
	// precision. Zero means 1e-6.
	Tolerance float64
}

// Factory returns a fresh, unbuilt adapter.
type Factory func(t *testing.T) index.Adapter

// Run exercises the adapter lifecycle and query semantics.
func Run(t *testing.T, newAdapter Factory, caps Capabilities) {
	tolerance := caps.Tolerance
	if tolerance == 0 {
		tolerance = 1e-6
	}
	t.Run("not built", func(t *testing.T) {
		adapter := newAdapter(t)
		defer adapter.Close()
		_, err := adapter.Nearest(geo.Point{Lat: 50, Lon: 0}, 1000)
		assert.ErrorIs(t, err, index.ErrNotBuilt)
	})

	t.Run("invalid build input", func(t *testing.T) {
		testCases := []struct {
			description string
			points      []geo.Point
		}{
			{description: "empty", points: nil},
			{description: "latitude out of range", points: []geo.Point{{Lat: 50, Lon: 0}, {Lat: 91, Lon: 0}}},
			{description: "nan", points: []geo.Point{{Lat: math.NaN(), Lon: 0}}},
			{description: "infinite longitude", points: []geo.Point{{Lat: 0, Lon: math.Inf(1)}}},
		}
		for _, testCase := range testCases {
			adapter := newAdapter(t)
			err := adapter.Build(testCase.points)
			assert.ErrorIs(t, err, index.ErrBuild, testCase.description)
			_, err = adapter.Nearest(geo.Point{Lat: 50, Lon: 0}, 0)
			assert.ErrorIs(t, err, index.ErrNotBuilt, testCase.description)
			require.NoError(t, adapter.Close(), testCase.description)
		}
	})

	t.Run("four points", func(t *testing.T) {
		adapter := newAdapter(t)
		defer adapter.Close()
		require.NoError(t, adapter.Build(FourPoints()))

		outcome, err := adapter.Nearest(geo.Point{Lat: 50, Lon: 0}, 1000)
		require.NoError(t, err)
		assert.True(t, outcome.Found)
		assert.Equal(t, 1, outcome.ID)
		assert.GreaterOrEqual(t, outcome.Candidates, 1)
		if caps.Distance {
			assert.InDelta(t, 0, outcome.Distance, 1e-9)
		} else {
			assert.Equal(t, index.NoDistance, outcome.Distance)
		}

		outcome, err = adapter.Nearest(geo.Point{Lat: 53.1, Lon: 3}, 0)
		require.NoError(t, err)
		assert.True(t, outcome.Found)
		assert.Equal(t, 4, outcome.ID)
		if caps.Distance {
			assert.InDelta(t, geo.Distance(geo.Point{Lat: 53.1, Lon: 3}, geo.Point{Lat: 53, Lon: 3}), outcome.Distance, 1e-6)
		}

		outcome, err = adapter.Nearest(geo.Point{Lat: 0, Lon: 0}, 1000)
		require.NoError(t, err)
		assert.False(t, outcome.Found)
		assert.Equal(t, 0, outcome.ID)
		assert.Equal(t, index.NoDistance, outcome.Distance)
		assert.GreaterOrEqual(t, outcome.Candidates, 0)
	})

	t.Run("end to end", func(t *testing.T) {
		adapter := newAdapter(t)
		defer adapter.Close()
		require.NoError(t, adapter.Build(EndToEndPoints()))
		for _, radius := range []float64{0, 1000} {
			outcome, err := adapter.Nearest(geo.Point{Lat: 50, Lon: 0}, radius)
			require.NoError(t, err)
			assert.Equal(t, 1, outcome.ID, "radius %v", radius)
			assert.True(t, outcome.Found, "radius %v", radius)
			if caps.Distance {
				assert.InDelta(t, 0, outcome.Distance, 1e-9, "radius %v", radius)
			} else {
				assert.Equal(t, index.NoDistance, outcome.Distance, "radius %v", radius)
			}
		}
	})

	t.Run("ties prefer lower id", func(t *testing.T) {
		if !caps.Exact {
			t.Skip("ranking is approximate")
		}
		adapter := newAdapter(t)
		defer adapter.Close()
		require.NoError(t, adapter.Build([]geo.Point{{Lat: 50, Lon: 0}, {Lat: 50.5, Lon: 0.5}, {Lat: 50, Lon: 0}, {Lat: 50, Lon: 0}}))
		for _, radius := range []float64{0, 1000} {
			outcome, err := adapter.Nearest(geo.Point{Lat: 50, Lon: 0}, radius)
			require.NoError(t, err)
			assert.Equal(t, 1, outcome.ID, "radius %v", radius)
		}
	})

	t.Run("duplicate coordinates", func(t *testing.T) {
		if !caps.Exact {
			t.Skip("ranking is approximate")
		}
		distinct := RandomPoints(5, 20)
		rnd := rand.New(rand.NewPCG(6, 6))
		points := make([]geo.Point, 500)
		lowest := make(map[geo.Point]int)
		for i := range points {
			points[i] = distinct[rnd.IntN(len(distinct))]
			if _, ok := lowest[points[i]]; !ok {
				lowest[points[i]] = i + 1
			}
		}
		adapter := newAdapter(t)
		defer adapter.Close()
		require.NoError(t, adapter.Build(points))
		for p, id := range lowest {
			outcome, err := adapter.Nearest(p, 0)
			require.NoError(t, err)
			assert.Equal(t, id, outcome.ID, "query %v", p)
		}
	})

	t.Run("build twice", func(t *testing.T) {
		adapter := newAdapter(t)
		defer adapter.Close()
		require.NoError(t, adapter.Build(FourPoints()))
		assert.ErrorIs(t, adapter.Build(FourPoints()), index.ErrBuild)
		outcome, err := adapter.Nearest(geo.Point{Lat: 51, Lon: 1}, 1000)
		require.NoError(t, err)
		assert.Equal(t, 2, outcome.ID)
	})

	t.Run("closed", func(t *testing.T) {
		adapter := newAdapter(t)
		require.NoError(t, adapter.Build(FourPoints()))
		require.NoError(t, adapter.Close())
		_, err := adapter.Nearest(geo.Point{Lat: 50, Lon: 0}, 1000)
		assert.ErrorIs(t, err, index.ErrClosed)
		assert.ErrorIs(t, adapter.Build(FourPoints()), index.ErrClosed)
		assert.NoError(t, adapter.Close())
	})

	t.Run("agrees with linear scan", func(t *testing.T) {
		points := RandomPoints(7, 2000)
		queries := RandomPoints(11, 200)
		adapter := newAdapter(t)
		defer adapter.Close()
		require.NoError(t, adapter.Build(points))
		for _, radius := range []float64{0, 5000, 20000, 100000} {
			for _, query := range queries {
				outcome, err := adapter.Nearest(query, radius)
				require.NoError(t, err)
				wantID, wantDistance := LinearNearest(points, query)
				inRange := !index.Bounded(radius) || wantDistance <= radius
				if caps.Exact {
					if index.Bounded(radius) && math.Abs(wantDistance-radius) <= tolerance {
						continue
					}
					require.Equal(t, inRange, outcome.Found, "query %v radius %v", query, radius)
					if inRange {
						assert.InDelta(t, wantDistance, geo.Distance(query, points[outcome.ID-1]), tolerance, "query %v radius %v want #%d", query, radius, wantID)
					}
				} else {
					if inRange {
						require.True(t, outcome.Found, "query %v radius %v", query, radius)
					}
					if outcome.Found {
						assert.True(t, index.SearchBox(query, radius).Contains(points[outcome.ID-1]), "query %v radius %v", query, radius)
					}
				}
				if !outcome.Found {
					assert.Equal(t, index.NoMatch(outcome.Candidates), outcome)
					continue
				}
				require.True(t, outcome.ID >= 1 && outcome.ID <= len(points))
				if caps.Distance {
					assert.InDelta(t, geo.Distance(query, points[outcome.ID-1]), outcome.Distance, tolerance)
				}
			}
		}
	})
}

// FourPoints is the smallest end-to-end fixture: ids 1..4 on a diagonal.
func FourPoints() []geo.Point {
	return []geo.Point{
		{Lat: 50, Lon: 0},
		{Lat: 51, Lon: 1},
		{Lat: 52, Lon: 2},
		{Lat: 53, Lon: 3},
	}
}

// EndToEndPoints is the reference scenario: querying (50,0) must return id 1
// at distance 0.
func EndToEndPoints() []geo.Point {
	return []geo.Point{
		{Lat: 50, Lon: 0},
		{Lat: 50, Lon: 0.1},
		{Lat: 51, Lon: 0},
		{Lat: 52, Lon: 5},
	}
}

// RandomPoints returns n seeded points in the default benchmark area.
func RandomPoints(seed uint64, n int) []geo.Point {
	rnd := rand.New(rand.NewPCG(seed, seed))
	points := make([]geo.Point, n)
	for i := range points {
		points[i] = geo.Point{Lat: 48 + rnd.Float64()*10, Lon: -5 + rnd.Float64()*10}
	}
	return points
}

// LinearNearest returns the id and distance of the nearest point by full scan.
func LinearNearest(points []geo.Point, query geo.Point) (int, float64) {
	bestID, best := 0, math.Inf(1)
	for i, p := range points {
		if d := geo.Distance(query, p); d < best {
			bestID, best = i+1, d
		}
	}
	return bestID, best
}
