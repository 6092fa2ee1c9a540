package index

import "github.com/viant/geobench/geo"

// Adapter is the contract every spatial backend satisfies. An adapter is
// built once, queried many times, and closed exactly once by its owner.
// Adapters are not safe for concurrent use.
type Adapter interface {
	// Name identifies the backend in result file names and logs.
	Name() string

	// Build indexes points, assigning ids 1..N in input order. It fails with
	// ErrBuild on empty input, on an invalid coordinate, or when called twice.
	Build(points []geo.Point) error

	// Nearest returns the closest indexed point to point. A positive radius
	// (metres) bounds the search; radius <= 0 searches the whole index.
	// A query with nothing in range returns NoMatch.
	Nearest(point geo.Point, radius float64) (Outcome, error)

	// Close releases backend resources. Subsequent queries fail with ErrClosed.
	Close() error
}
