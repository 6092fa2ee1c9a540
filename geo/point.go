package geo

import (
	"fmt"
	"math"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// IndexedPoint binds a point to the id it was assigned at build time.
type IndexedPoint struct {
	ID int
	Point
}

// Valid reports whether both coordinates are finite and within WGS84 range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.Lat, p.Lon)
}

// Index assigns ids 1..N to points in input order.
func Index(points []Point) []IndexedPoint {
	out := make([]IndexedPoint, len(points))
	for i, p := range points {
		out[i] = IndexedPoint{ID: i + 1, Point: p}
	}
	return out
}
