// Package tree implements a cover tree for exact nearest-neighbour search
// under any metric. Each node tracks the radius of its subtree, so a search
// can discard a subtree once its lower bound exceeds the best distance found.
package tree
