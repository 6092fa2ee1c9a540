// Package kdtree provides a two-dimensional KD-tree backend over latitude and
// longitude with spherical pruning bounds, so bounded searches are exact.
package kdtree
