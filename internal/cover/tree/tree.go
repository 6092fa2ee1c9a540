package tree

// This implementation is adapted from github.com/viant/gds/tree/cover.

import (
	"container/heap"
	"math"
	"sync"
)

// DefaultBase is the level base used when none is configured.
const DefaultBase = 1.3

// Tree is a cover tree answering bounded nearest-neighbour queries.
type Tree[T any] struct {
	root     *Node
	base     float32
	topLevel int32
	distance DistanceFunc
	values   values[T]
	size     int
	mu       sync.RWMutex
}

// NewTree constructs a cover tree. maxDistance bounds the distance between
// any two points and fixes the root level so the root covers everything.
func NewTree[T any](base, maxDistance float32, distance DistanceFunc) *Tree[T] {
	if base <= 1 {
		base = DefaultBase
	}
	if distance == nil {
		distance = EuclideanDistance
	}
	var topLevel int32
	if maxDistance > 1 {
		topLevel = int32(math.Ceil(math.Log(float64(maxDistance)) / math.Log(float64(base))))
	}
	return &Tree[T]{base: base, topLevel: topLevel, distance: distance}
}

// Len returns the number of inserted points.
func (t *Tree[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Insert adds a new value/vector pair to the tree and returns its index.
func (t *Tree[T]) Insert(value T, point *Point) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	point.index = t.values.put(value)
	t.size++
	if t.root == nil {
		node := NewNode(point, t.topLevel, t.base)
		t.root = &node
		return point.index
	}
	node := t.root
	d := t.distance(point, node.point)
	for {
		if d > node.radius {
			node.radius = d
		}
		next := -1
		var nextDist float32
		for i := range node.children {
			cd := t.distance(point, node.children[i].point)
			if cd <= node.children[i].cover {
				next, nextDist = i, cd
				break
			}
		}
		if next < 0 {
			node.children = append(node.children, NewNode(point, node.level-1, t.base))
			return point.index
		}
		node, d = &node.children[next], nextDist
	}
}

// Value returns the stored value for the given point.
func (t *Tree[T]) Value(point *Point) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var zero T
	if point == nil || !point.HasValue() {
		return zero
	}
	return t.values.value(point.index)
}

// Nearest runs a best-first search for the point closest to query within
// bound (inclusive); a negative bound is unlimited. Among equidistant points
// the earliest inserted wins. It also returns the number of distance
// evaluations performed.
func (t *Tree[T]) Nearest(query *Point, bound float32) (Neighbor, int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return Neighbor{}, 0, false
	}
	if bound < 0 {
		bound = math.MaxFloat32
	}
	evaluations := 0
	distance := func(n *Node) float32 {
		evaluations++
		return t.distance(query, n.point)
	}
	var best Neighbor
	found := false
	worst := bound
	// equal bounds are still explored so ties resolve by insertion order
	pruned := func(lb float32) bool { return lb > worst }

	pq := &nodeQueue{}
	heap.Init(pq)
	rootDist := distance(t.root)
	heap.Push(pq, nodeItem{node: t.root, lb: rootDist - t.root.radius, centerDist: rootDist})
	for pq.Len() > 0 {
		top := heap.Pop(pq).(nodeItem)
		if pruned(top.lb) {
			break
		}
		if dc := top.centerDist; dc < worst || (dc == worst && (!found || top.node.point.index < best.Point.index)) {
			best = Neighbor{Point: top.node.point, Distance: dc}
			worst = dc
			found = true
		}
		for i := range top.node.children {
			child := &top.node.children[i]
			cd := distance(child)
			lb := cd - child.radius
			if pruned(lb) {
				continue
			}
			heap.Push(pq, nodeItem{node: child, lb: lb, centerDist: cd})
		}
	}
	return best, evaluations, found
}
