package kdtree

import (
	"fmt"
	"math"

	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Name is the registry name of the KD-tree backend.
const Name = "kdtree"

func init() {
	index.Register(Name, func(index.Options) (index.Adapter, error) { return New(), nil })
}

const (
	axisLon = 0
	axisLat = 1
)

type kdNode struct {
	p  geo.IndexedPoint
	ax int
	l  *kdNode
	r  *kdNode
}

// Index is a two-dimensional KD-tree splitting on longitude then latitude.
// Every node whose distance is evaluated counts as a candidate.
type Index struct {
	root  *kdNode
	state index.State
}

// New returns an unbuilt KD-tree.
func New() *Index { return &Index{} }

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

// Build constructs a balanced tree by median selection.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	i.root = buildKD(geo.Index(points), 0)
	i.state = index.Built
	return nil
}

func buildKD(ps []geo.IndexedPoint, depth int) *kdNode {
	if len(ps) == 0 {
		return nil
	}
	ax := depth % 2
	mid := len(ps) / 2
	selectNth(ps, mid, ax)
	node := &kdNode{p: ps[mid], ax: ax}
	node.l = buildKD(ps[:mid], depth+1)
	node.r = buildKD(ps[mid+1:], depth+1)
	return node
}

// selectNth partially orders a in place so that a[n] holds the n-th element on axis ax.
func selectNth(a []geo.IndexedPoint, n int, ax int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi, (lo+hi)/2, ax)
		if p == n {
			return
		}
		if n < p {
			hi = p - 1
		} else {
			lo = p + 1
		}
	}
}

func partition(a []geo.IndexedPoint, lo, hi, pivot, ax int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if key(a[j].Point, ax) < key(pv.Point, ax) {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

func key(p geo.Point, ax int) float64 {
	if ax == axisLon {
		return p.Lon
	}
	return p.Lat
}

// Nearest searches both sides of a split only when the far side could hold a
// point closer than the current bound.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("kdtree: invalid query point %v", point)
	}
	bestD := math.Inf(1)
	if index.Bounded(radius) {
		bestD = radius
	}
	bestID, visited := 0, 0
	var dfs func(n *kdNode)
	dfs = func(n *kdNode) {
		if n == nil {
			return
		}
		visited++
		d := geo.Distance(point, n.p.Point)
		if d < bestD || (d == bestD && (bestID == 0 || n.p.ID < bestID)) {
			bestD, bestID = d, n.p.ID
		}
		k, q := key(point, n.ax), key(n.p.Point, n.ax)
		first, second := n.l, n.r
		if k >= q {
			first, second = n.r, n.l
		}
		dfs(first)
		// the far side starts at the splitting line; skip it when even that is too
		// far. Equal bounds are visited so ties resolve to the lower id.
		if bound := planeDistance(point, n.ax, q, k >= q); bound <= bestD {
			dfs(second)
		}
	}
	dfs(i.root)
	if bestID == 0 {
		return index.NoMatch(visited), nil
	}
	return index.Match(bestID, bestD, visited), nil
}

// planeDistance is a lower bound on the distance from p to any point on the
// other side of the split at value q. westOrSouth is set when the other side
// holds the smaller keys.
func planeDistance(p geo.Point, ax int, q float64, westOrSouth bool) float64 {
	if ax == axisLat {
		return math.Abs(p.Lat-q) * math.Pi / 180 * geo.EarthRadius
	}
	// the other side is bounded by meridian q and the antimeridian
	var toSplit, toEdge float64
	if westOrSouth {
		toSplit, toEdge = p.Lon-q, 180-p.Lon
	} else {
		toSplit, toEdge = q-p.Lon, p.Lon+180
	}
	return math.Min(crossTrack(p.Lat, toSplit), crossTrack(p.Lat, toEdge))
}

// crossTrack is the distance from a point at lat to a meridian dLon degrees away.
func crossTrack(lat, dLon float64) float64 {
	if dLon <= 0 {
		return 0
	}
	if dLon > 90 {
		dLon = 90
	}
	s := math.Cos(lat*math.Pi/180) * math.Sin(dLon*math.Pi/180)
	if s > 1 {
		s = 1
	}
	return math.Asin(s) * geo.EarthRadius
}

// Close releases the tree.
func (i *Index) Close() error {
	i.root = nil
	i.state = index.Closed
	return nil
}
