package geo

import "strings"

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// MaxGeohashPrecision bounds the number of characters Geohash produces.
const MaxGeohashPrecision = 12

// Geohash encodes p as a base32 geohash with the given number of characters.
func Geohash(p Point, precision int) string {
	if precision <= 0 {
		return ""
	}
	if precision > MaxGeohashPrecision {
		precision = MaxGeohashPrecision
	}
	latLo, latHi := -90.0, 90.0
	lonLo, lonHi := -180.0, 180.0
	var sb strings.Builder
	sb.Grow(precision)
	bit, ch := 0, 0
	even := true
	for sb.Len() < precision {
		if even {
			mid := (lonLo + lonHi) / 2
			if p.Lon >= mid {
				ch |= 16 >> bit
				lonLo = mid
			} else {
				lonHi = mid
			}
		} else {
			mid := (latLo + latHi) / 2
			if p.Lat >= mid {
				ch |= 16 >> bit
				latLo = mid
			} else {
				latHi = mid
			}
		}
		even = !even
		if bit < 4 {
			bit++
			continue
		}
		sb.WriteByte(geohashAlphabet[ch])
		bit, ch = 0, 0
	}
	return sb.String()
}

// GeohashCellSize returns the height and width in degrees of a geohash cell
// of the given precision.
func GeohashCellSize(precision int) (latDeg, lonDeg float64) {
	bits := 5 * precision
	lonBits := (bits + 1) / 2
	latBits := bits / 2
	return 180 / float64(uint64(1)<<latBits), 360 / float64(uint64(1)<<lonBits)
}

// GeohashCover returns the distinct geohash cells of the given precision that
// intersect box, in row-major order from the south-west corner.
func GeohashCover(box BBox, precision int) []string {
	h, w := GeohashCellSize(precision)
	seen := make(map[string]struct{})
	var out []string
	add := func(lat, lon float64) {
		hash := Geohash(Point{Lat: lat, Lon: lon}, precision)
		if _, ok := seen[hash]; ok {
			return
		}
		seen[hash] = struct{}{}
		out = append(out, hash)
	}
	for lat := box.MinLat; ; lat += h {
		if lat > box.MaxLat {
			lat = box.MaxLat
		}
		for lon := box.MinLon; ; lon += w {
			if lon > box.MaxLon {
				lon = box.MaxLon
			}
			add(lat, lon)
			if lon >= box.MaxLon {
				break
			}
		}
		if lat >= box.MaxLat {
			break
		}
	}
	return out
}

// GeohashCoverCount estimates how many cells GeohashCover would return.
func GeohashCoverCount(box BBox, precision int) int {
	h, w := GeohashCellSize(precision)
	rows := int((box.MaxLat-box.MinLat)/h) + 2
	cols := int((box.MaxLon-box.MinLon)/w) + 2
	return rows * cols
}
