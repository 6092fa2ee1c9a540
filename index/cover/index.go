package cover

import (
	"fmt"

	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
	"github.com/viant/geobench/internal/cover/tree"
)

// Name is the registry name of the cover tree backend.
const Name = "cover"

// maxChord is the largest distance between two unit vectors.
const maxChord = 2

func init() {
	index.Register(Name, func(opts index.Options) (index.Adapter, error) {
		return New(opts.CoverBase), nil
	})
}

// Index is a cover tree over points mapped onto the unit sphere. The chord
// between unit vectors grows with great-circle distance, so the nearest chord
// is the nearest point. Every distance evaluation counts as a candidate.
type Index struct {
	base   float32
	points []geo.Point
	tree   *tree.Tree[int]
	state  index.State
}

// New returns an unbuilt cover tree; base <= 1 selects tree.DefaultBase.
func New(base float64) *Index {
	return &Index{base: float32(base)}
}

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

// Build inserts points in input order; the tree value is the point id.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	t := tree.NewTree[int](i.base, maxChord, tree.EuclideanDistance)
	for j, p := range points {
		t.Insert(j+1, tree.NewPoint(geo.UnitVector(p)...))
	}
	i.points = append([]geo.Point(nil), points...)
	i.tree = t
	i.state = index.Built
	return nil
}

// Nearest converts the radius to a chord bound and reports the haversine
// distance of the match. Chords are compared in float32.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("cover: invalid query point %v", point)
	}
	bound := float32(-1)
	if index.Bounded(radius) {
		bound = float32(geo.ChordFromMetres(radius))
	}
	neighbor, evaluations, ok := i.tree.Nearest(tree.NewPoint(geo.UnitVector(point)...), bound)
	if !ok {
		return index.NoMatch(evaluations), nil
	}
	id := i.tree.Value(neighbor.Point)
	return index.Match(id, geo.Distance(point, i.points[id-1]), evaluations), nil
}

// Close releases the tree.
func (i *Index) Close() error {
	i.points, i.tree = nil, nil
	i.state = index.Closed
	return nil
}
