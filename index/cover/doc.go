// Package cover provides a cover tree backend over unit-sphere vectors,
// using the Euclidean kernel from github.com/viant/vec.
package cover
