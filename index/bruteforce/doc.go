// Package bruteforce provides the baseline backend: a linear scan with a
// bounding-box pre-filter and haversine ranking. Every other backend is
// measured against it.
package bruteforce
