package bruteforce

import (
	"fmt"
	"math"

	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Name is the registry name of the linear-scan backend.
const Name = "bruteforce"

func init() {
	index.Register(Name, func(index.Options) (index.Adapter, error) { return New(), nil })
}

// Index scans every point, keeping those inside the query bounding box as
// candidates, and returns the closest candidate within the radius.
type Index struct {
	points []geo.Point
	state  index.State
}

// New returns an unbuilt linear-scan index.
func New() *Index { return &Index{} }

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

// Build copies points; ids are positions plus one.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	i.points = append([]geo.Point(nil), points...)
	i.state = index.Built
	return nil
}

// Nearest returns the closest point inside the search box and radius.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("bruteforce: invalid query point %v", point)
	}
	box := index.SearchBox(point, radius)
	bounded := index.Bounded(radius)
	candidates := 0
	bestID, best := 0, math.Inf(1)
	for j, p := range i.points {
		if bounded && !box.Contains(p) {
			continue
		}
		candidates++
		d := geo.Distance(point, p)
		if bounded && d > radius {
			continue
		}
		if d < best {
			bestID, best = j+1, d
		}
	}
	if bestID == 0 {
		return index.NoMatch(candidates), nil
	}
	return index.Match(bestID, best, candidates), nil
}

// Close drops the point set.
func (i *Index) Close() error {
	i.points = nil
	i.state = index.Closed
	return nil
}
