package tree

// Neighbor describes the match returned by a nearest search.
type Neighbor struct {
	Point    *Point
	Distance float32
}

type nodeItem struct {
	node       *Node
	lb         float32
	centerDist float32
}

// nodeQueue is a min-heap of nodes by distance lower bound.
type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].lb < q[j].lb }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
