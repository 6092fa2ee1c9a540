package geo

import "math"

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371008.7714

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Distance returns the great-circle (haversine) distance between a and b in metres.
func Distance(a, b Point) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Haversine returns the great-circle distance in metres between two coordinates
// given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	h := sLat*sLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sLon*sLon
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadius * math.Asin(math.Sqrt(h))
}

// ChordFromMetres converts a surface distance to the straight-line distance
// between the two points on the unit sphere.
func ChordFromMetres(metres float64) float64 {
	angle := metres / EarthRadius
	if angle >= math.Pi {
		return 2
	}
	return 2 * math.Sin(angle/2)
}

// MetresFromChord is the inverse of ChordFromMetres.
func MetresFromChord(chord float64) float64 {
	if chord >= 2 {
		return math.Pi * EarthRadius
	}
	if chord <= 0 {
		return 0
	}
	return 2 * EarthRadius * math.Asin(chord/2)
}

// UnitVector returns the point as a float32 vector on the unit sphere (x, y, z).
// Euclidean distance between unit vectors is monotonic in great-circle distance.
func UnitVector(p Point) []float32 {
	lat, lon := radians(p.Lat), radians(p.Lon)
	cosLat := math.Cos(lat)
	return []float32{
		float32(cosLat * math.Cos(lon)),
		float32(cosLat * math.Sin(lon)),
		float32(math.Sin(lat)),
	}
}
