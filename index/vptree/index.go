package vptree

import (
	"fmt"
	"math"
	"sort"

	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Name is the registry name of the vantage-point tree backend.
const Name = "vptree"

func init() {
	index.Register(Name, func(index.Options) (index.Adapter, error) { return New(), nil })
}

// Index is a vantage-point tree over haversine distance. Every node whose
// distance to the query is evaluated counts as a candidate.
type Index struct {
	points []geo.Point
	root   *node
	state  index.State
}

type node struct {
	idx   int // index into points
	thr   float64
	left  *node
	right *node
}

// New returns an unbuilt VP-tree.
func New() *Index { return &Index{} }

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

// Build constructs the tree with a median split at every vantage point.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	i.points = append([]geo.Point(nil), points...)
	idxs := make([]int, len(points))
	for k := range idxs {
		idxs[k] = k
	}
	i.root = i.build(idxs)
	i.state = index.Built
	return nil
}

func (i *Index) build(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	// last element is the vantage point, no extra randomness
	vp := idxs[len(idxs)-1]
	idxs = idxs[:len(idxs)-1]
	if len(idxs) == 0 {
		return &node{idx: vp}
	}
	dists := make([]float64, len(idxs))
	for k, j := range idxs {
		dists[k] = geo.Distance(i.points[vp], i.points[j])
	}
	order := make([]int, len(idxs))
	for k := range order {
		order[k] = k
	}
	sort.Slice(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
	mid := len(order) / 2
	thr := dists[order[mid]]
	leftIdxs := make([]int, 0, mid+1)
	rightIdxs := make([]int, 0, len(order)-(mid+1))
	for rank, k := range order {
		if rank <= mid {
			leftIdxs = append(leftIdxs, idxs[k])
		} else {
			rightIdxs = append(rightIdxs, idxs[k])
		}
	}
	return &node{
		idx:   vp,
		thr:   thr,
		left:  i.build(leftIdxs),
		right: i.build(rightIdxs),
	}
}

// Nearest searches with the radius as the initial bound, so nothing beyond
// it is ever returned.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("vptree: invalid query point %v", point)
	}
	tau := math.Inf(1)
	if index.Bounded(radius) {
		tau = radius
	}
	bestIdx, evaluated := -1, 0
	var search func(n *node)
	search = func(n *node) {
		if n == nil {
			return
		}
		d := geo.Distance(point, i.points[n.idx])
		evaluated++
		if d < tau || (d == tau && (bestIdx < 0 || n.idx < bestIdx)) {
			bestIdx, tau = n.idx, d
		}
		// prune using triangle inequality
		if d < n.thr {
			if d-tau <= n.thr {
				search(n.left)
			}
			if d+tau >= n.thr {
				search(n.right)
			}
		} else {
			if d+tau >= n.thr {
				search(n.right)
			}
			if d-tau <= n.thr {
				search(n.left)
			}
		}
	}
	search(i.root)
	if bestIdx < 0 {
		return index.NoMatch(evaluated), nil
	}
	return index.Match(bestIdx+1, tau, evaluated), nil
}

// Close releases the tree.
func (i *Index) Close() error {
	i.points, i.root = nil, nil
	i.state = index.Closed
	return nil
}
