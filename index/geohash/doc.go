// Package geohash provides an inverted geohash index kept in Badger. Every
// point is stored under its full-precision geohash, so the cells covering a
// search box are answered by prefix scans. Matches are ranked by an
// equirectangular approximation and no distance is reported.
package geohash
