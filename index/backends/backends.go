// Package backends registers every backend shipped with geobench. Import it
// for its side effects.
package backends

import (
	_ "github.com/viant/geobench/index/bruteforce"
	_ "github.com/viant/geobench/index/cover"
	_ "github.com/viant/geobench/index/geohash"
	_ "github.com/viant/geobench/index/kdtree"
	_ "github.com/viant/geobench/index/memrtree"
	_ "github.com/viant/geobench/index/rtree"
	_ "github.com/viant/geobench/index/vptree"
)
