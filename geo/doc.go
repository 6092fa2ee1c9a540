// Package geo defines the coordinate model shared by the benchmark harness:
//   - Point and IndexedPoint (decimal degrees, ids assigned 1..N)
//   - haversine distance in metres and its unit-sphere chord equivalent
//   - bounding boxes around a query radius
//   - geohash encoding used by grid-based backends
package geo
