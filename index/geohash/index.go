package geohash

import (
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Name is the registry name of the geohash backend.
const Name = "geohash"

// maxCells caps the cells scanned per query when the precision is chosen
// automatically.
const maxCells = 64

func init() {
	index.Register(Name, func(opts index.Options) (index.Adapter, error) { return New(opts), nil })
}

// Index scans the geohash cells covering the search box. Every scanned entry
// is a candidate; entries outside the box are skipped.
type Index struct {
	opts  index.Options
	db    *badger.DB
	// dir is the shared on-disk location; empty for an in-memory database.
	dir   string
	state index.State
	// Reused is set when Build found a matching persisted index.
	Reused bool
}

// New returns an unbuilt geohash index.
func New(opts index.Options) *Index { return &Index{opts: opts} }

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

func (i *Index) open(size int) (*badger.DB, string, error) {
	if !i.opts.Persistent() {
		db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
		return db, "memory", err
	}
	dir := i.opts.IndexDir(Name, size)
	db, err := acquire(dir)
	if err == nil {
		i.dir = dir
	}
	return db, dir, err
}

func (i *Index) closeDB(db *badger.DB) error {
	if i.dir == "" {
		return db.Close()
	}
	dir := i.dir
	i.dir = ""
	return release(dir)
}

// Build writes every point, or reuses a persisted index holding the same
// number of points.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	if i.opts.Persistent() {
		unlock := index.LockDir(i.opts.IndexDir(Name, len(points)))
		defer unlock()
	}
	db, location, err := i.open(len(points))
	if err != nil {
		return fmt.Errorf("%w: geohash: open: %v", index.ErrBuild, err)
	}
	count, err := readCount(db)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: geohash: %v", index.ErrBuild, err), i.closeDB(db))
	}
	if count == len(points) {
		i.Reused = true
		log.Info().Str("backend", Name).Str("location", location).Int("points", count).Msg("reusing index")
	} else {
		if err := load(db, points, count >= 0); err != nil {
			return errors.Join(fmt.Errorf("%w: geohash: load: %v", index.ErrBuild, err), i.closeDB(db))
		}
		log.Info().Str("backend", Name).Str("location", location).Int("points", len(points)).Msg("built index")
	}
	i.db = db
	i.state = index.Built
	return nil
}

// readCount returns the recorded point count, or -1 for an empty database.
func readCount(db *badger.DB) (int, error) {
	count := -1
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(countKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			n, err := decodeCount(val)
			count = n
			return err
		})
	})
	return count, err
}

// load writes all points in a batch and records the count last.
func load(db *badger.DB, points []geo.Point, stale bool) error {
	if stale {
		if err := db.DropAll(); err != nil {
			return err
		}
	}
	wb := db.NewWriteBatch()
	defer wb.Cancel()
	for j, p := range points {
		value, err := encodeEntry(p)
		if err != nil {
			return err
		}
		if err := wb.Set(pointKey(j+1, p), value); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}
	value, err := encodeCount(len(points))
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(countKey, value)
	})
}

// precision picks the cell length for a search box.
func (i *Index) precision(box geo.BBox) int {
	if p := i.opts.GeohashPrecision; p > 0 {
		return min(p, keyPrecision)
	}
	best := 1
	for p := 2; p <= keyPrecision; p++ {
		if geo.GeohashCoverCount(box, p) > maxCells {
			break
		}
		best = p
	}
	return best
}

// Nearest implements index.Adapter. The reported distance is always
// index.NoDistance.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("geohash: invalid query point %v", point)
	}
	var prefixes [][]byte
	box := geo.World
	if index.Bounded(radius) {
		box = geo.Around(point, radius)
		for _, cell := range geo.GeohashCover(box, i.precision(box)) {
			prefixes = append(prefixes, cellPrefix(cell))
		}
	} else {
		prefixes = [][]byte{{pointPrefix}}
	}

	candidates, bestID := 0, 0
	best := math.Inf(1)
	cosLat := math.Cos(point.Lat * math.Pi / 180)
	err := i.db.View(func(txn *badger.Txn) error {
		for _, prefix := range prefixes {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			it := txn.NewIterator(opts)
			for it.Rewind(); it.Valid(); it.Next() {
				item := it.Item()
				id, err := decodeID(item.Key())
				if err != nil {
					it.Close()
					return err
				}
				var p geo.Point
				if err := item.Value(func(val []byte) error {
					p, err = decodeEntry(val)
					return err
				}); err != nil {
					it.Close()
					return err
				}
				candidates++
				if !box.Contains(p) {
					continue
				}
				d := approxDistance(point, p, cosLat)
				if d < best || (d == best && id < bestID) {
					best, bestID = d, id
				}
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return index.Outcome{}, fmt.Errorf("geohash: query: %w", err)
	}
	if bestID == 0 {
		return index.NoMatch(candidates), nil
	}
	return index.Match(bestID, index.NoDistance, candidates), nil
}

// approxDistance is the squared equirectangular distance in degrees.
func approxDistance(a, b geo.Point, cosLat float64) float64 {
	dLon := math.Abs(a.Lon - b.Lon)
	if dLon > 180 {
		dLon = 360 - dLon
	}
	x := dLon * cosLat
	y := a.Lat - b.Lat
	return x*x + y*y
}

// Close releases the Badger handle. A shared on-disk handle closes with its
// last user.
func (i *Index) Close() error {
	if i.state == index.Closed {
		return nil
	}
	i.state = index.Closed
	if i.db == nil {
		return nil
	}
	err := i.closeDB(i.db)
	i.db = nil
	return err
}
