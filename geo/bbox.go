package geo

import "math"

// BBox is an axis-aligned latitude/longitude box.
type BBox struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// World covers every valid coordinate.
var World = BBox{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}

// Contains reports whether p lies inside the box, edges included.
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Around returns the smallest box enclosing the spherical cap of the given
// radius (metres) around center. Caps that reach a pole or cross the
// antimeridian widen to the full longitude range.
func Around(center Point, radius float64) BBox {
	if radius <= 0 {
		return BBox{MinLat: center.Lat, MinLon: center.Lon, MaxLat: center.Lat, MaxLon: center.Lon}
	}
	angular := radius / EarthRadius
	if angular >= math.Pi {
		return World
	}
	lat := radians(center.Lat)
	minLat := lat - angular
	maxLat := lat + angular
	box := BBox{MinLon: -180, MaxLon: 180}
	if minLat > -math.Pi/2 && maxLat < math.Pi/2 {
		dLon := math.Asin(math.Sin(angular) / math.Cos(lat))
		minLon := center.Lon - degrees(dLon)
		maxLon := center.Lon + degrees(dLon)
		if minLon >= -180 && maxLon <= 180 {
			box.MinLon, box.MaxLon = minLon, maxLon
		}
	} else {
		minLat = math.Max(minLat, -math.Pi/2)
		maxLat = math.Min(maxLat, math.Pi/2)
	}
	box.MinLat = degrees(minLat)
	box.MaxLat = degrees(maxLat)
	return box
}
