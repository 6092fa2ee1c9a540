// Package memrtree provides an in-memory R-tree backend. Points are bulk
// loaded into a two-dimensional tree and a query scans the rectangles
// intersecting its search box, ranking them by haversine distance.
package memrtree
