package index

import (
	"fmt"

	"github.com/viant/geobench/geo"
)

// State is an adapter lifecycle position: Unbuilt, then Built, then Closed.
// A failed Build leaves the adapter Unbuilt.
type State int

const (
	Unbuilt State = iota
	Built
	Closed
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Built:
		return "built"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// CanBuild returns nil when an adapter named name may be built.
func (s State) CanBuild(name string) error {
	switch s {
	case Built:
		return fmt.Errorf("%w: %s: already built", ErrBuild, name)
	case Closed:
		return fmt.Errorf("%s: %w", name, ErrClosed)
	}
	return nil
}

// CanQuery returns nil when an adapter named name may answer queries.
func (s State) CanQuery(name string) error {
	switch s {
	case Unbuilt:
		return fmt.Errorf("%s: %w", name, ErrNotBuilt)
	case Closed:
		return fmt.Errorf("%s: %w", name, ErrClosed)
	}
	return nil
}

// ValidatePoints checks build input: at least one point, all coordinates
// finite and within range.
func ValidatePoints(name string, points []geo.Point) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: %s: no points", ErrBuild, name)
	}
	for i, p := range points {
		if !p.Valid() {
			return fmt.Errorf("%w: %s: invalid coordinate %v at position %d", ErrBuild, name, p, i)
		}
	}
	return nil
}

// Bounded reports whether radius restricts the search.
func Bounded(radius float64) bool { return radius > 0 }

// SearchBox returns the box enclosing the search area of a query.
func SearchBox(point geo.Point, radius float64) geo.BBox {
	if !Bounded(radius) {
		return geo.World
	}
	return geo.Around(point, radius)
}
