// Package index defines the adapter contract shared by all spatial backends:
// build once from a point set, answer nearest-point queries optionally bounded
// by a radius, report how many candidates were examined, and release resources.
//
// Backends live in sub-packages and register themselves by name, so a blank
// import is enough to make one available through New:
//
//	import _ "github.com/viant/geobench/index/kdtree"
//
//	adapter, err := index.New("kdtree", index.Options{})
package index
