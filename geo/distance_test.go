package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	oneDegree := EarthRadius * math.Pi / 180
	testCases := []struct {
		description string
		a, b        Point
		expect      float64
	}{
		{description: "same point", a: Point{50, 0}, b: Point{50, 0}, expect: 0},
		{description: "one degree of latitude", a: Point{50, 0}, b: Point{51, 0}, expect: oneDegree},
		{description: "one degree of longitude on equator", a: Point{0, 0}, b: Point{0, 1}, expect: oneDegree},
		{description: "antipodes", a: Point{0, 0}, b: Point{0, 180}, expect: math.Pi * EarthRadius},
	}
	for _, testCase := range testCases {
		actual := Distance(testCase.a, testCase.b)
		assert.InDelta(t, testCase.expect, actual, 1e-6, testCase.description)
		assert.InDelta(t, actual, Distance(testCase.b, testCase.a), 1e-9, testCase.description)
	}
}

func TestChordRoundTrip(t *testing.T) {
	for _, metres := range []float64{0, 1, 1000, 100000, 5e6, 1.9e7} {
		assert.InDelta(t, metres, MetresFromChord(ChordFromMetres(metres)), 1e-3, "metres=%v", metres)
	}
	assert.EqualValues(t, 2, ChordFromMetres(math.Pi*EarthRadius+1))
}

func TestUnitVector(t *testing.T) {
	a, b := Point{50, 0}, Point{50, 0.1}
	va, vb := UnitVector(a), UnitVector(b)
	require.Len(t, va, 3)
	var sum float64
	for i := range va {
		d := float64(va[i] - vb[i])
		sum += d * d
	}
	assert.InDelta(t, Distance(a, b), MetresFromChord(math.Sqrt(sum)), 5)
}

func TestPointValid(t *testing.T) {
	assert.True(t, Point{58, -5}.Valid())
	assert.False(t, Point{math.NaN(), 0}.Valid())
	assert.False(t, Point{0, math.Inf(1)}.Valid())
	assert.False(t, Point{91, 0}.Valid())
	assert.False(t, Point{0, -181}.Valid())
}

func TestIndex(t *testing.T) {
	indexed := Index([]Point{{50, 0}, {51, 1}, {52, 2}})
	require.Len(t, indexed, 3)
	for i, p := range indexed {
		assert.Equal(t, i+1, p.ID)
	}
	assert.Equal(t, Point{51, 1}, indexed[1].Point)
}
