package memrtree

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Name is the registry name of the in-memory R-tree backend.
const Name = "memrtree"

const (
	minChildren = 25
	maxChildren = 50
	// pointTolerance widens point rectangles so points on a search box edge
	// still intersect it.
	pointTolerance = 1e-9
)

func init() {
	index.Register(Name, func(index.Options) (index.Adapter, error) { return New(), nil })
}

type entry struct {
	geo.IndexedPoint
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index answers queries from an rtreego tree keyed by (lat, lon).
type Index struct {
	tree  *rtreego.Rtree
	state index.State
}

// New returns an unbuilt in-memory R-tree index.
func New() *Index { return &Index{} }

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

// Build bulk loads the tree; ids are positions plus one.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	objs := make([]rtreego.Spatial, len(points))
	for j, p := range geo.Index(points) {
		objs[j] = &entry{IndexedPoint: p, rect: rtreego.Point{p.Lat, p.Lon}.ToRect(pointTolerance)}
	}
	i.tree = rtreego.NewTree(2, minChildren, maxChildren, objs...)
	i.state = index.Built
	return nil
}

// Nearest returns the closest point inside the search box and radius.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("memrtree: invalid query point %v", point)
	}
	box := index.SearchBox(point, radius)
	rect, err := searchRect(box)
	if err != nil {
		return index.Outcome{}, fmt.Errorf("memrtree: %w", err)
	}
	bounded := index.Bounded(radius)
	candidates := 0
	bestID, best := 0, math.Inf(1)
	for _, obj := range i.tree.SearchIntersect(rect) {
		e := obj.(*entry)
		if !box.Contains(e.Point) {
			continue
		}
		candidates++
		d := geo.Distance(point, e.Point)
		if bounded && d > radius {
			continue
		}
		if d < best || (d == best && e.ID < bestID) {
			bestID, best = e.ID, d
		}
	}
	if bestID == 0 {
		return index.NoMatch(candidates), nil
	}
	return index.Match(bestID, best, candidates), nil
}

// searchRect converts box to a rectangle. Degenerate boxes get the point
// tolerance so they intersect the points they contain.
func searchRect(box geo.BBox) (rtreego.Rect, error) {
	lo := rtreego.Point{box.MinLat - pointTolerance, box.MinLon - pointTolerance}
	hi := rtreego.Point{box.MaxLat + pointTolerance, box.MaxLon + pointTolerance}
	return rtreego.NewRectFromPoints(lo, hi)
}

// Close drops the tree.
func (i *Index) Close() error {
	i.tree = nil
	i.state = index.Closed
	return nil
}
