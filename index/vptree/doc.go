// Package vptree provides a vantage-point tree backend. The haversine metric
// satisfies the triangle inequality, so bounded searches are exact.
package vptree
