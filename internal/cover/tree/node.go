package tree

import "math"

// Node represents a cover-tree node. Every child lies within cover of its
// parent, and radius is the largest distance from point to any descendant.
type Node struct {
	level    int32
	cover    float32
	point    *Point
	children []Node
	radius   float32
}

// NewNode constructs a node for the provided point and level.
func NewNode(point *Point, level int32, base float32) Node {
	return Node{
		level: level,
		cover: float32(math.Pow(float64(base), float64(level))),
		point: point,
	}
}
