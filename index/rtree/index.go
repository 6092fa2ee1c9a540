package rtree

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/viant/geobench/engine"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
)

// Name is the registry name of the SQLite R*Tree backend.
const Name = "rtree"

const dbFile = "index.db"

func init() {
	index.Register(Name, func(opts index.Options) (index.Adapter, error) { return New(opts), nil })
}

// Index answers queries through a SQLite R*Tree. Rows inside the search box
// are candidates; the nearest one within the radius is the match.
type Index struct {
	opts  index.Options
	db    *sql.DB
	store *store
	state index.State
	// Reused is set when Build found a matching persisted index.
	Reused bool
}

// New returns an unbuilt R*Tree index.
func New(opts index.Options) *Index { return &Index{opts: opts} }

// Name implements index.Adapter.
func (i *Index) Name() string { return Name }

// Build loads points into the R*Tree, or reuses a persisted one holding the
// same number of points with the same fingerprint.
func (i *Index) Build(points []geo.Point) error {
	if err := i.state.CanBuild(Name); err != nil {
		return err
	}
	if err := index.ValidatePoints(Name, points); err != nil {
		return err
	}
	ctx := context.Background()
	dsn := ":memory:"
	if i.opts.Persistent() {
		dir := i.opts.IndexDir(Name, len(points))
		unlock := index.LockDir(dir)
		defer unlock()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: rtree: %v", index.ErrBuild, err)
		}
		dsn = filepath.Join(dir, dbFile)
	}
	db, err := engine.Open(dsn)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrBuild, err)
	}
	// one connection, so an in-memory database is shared by every statement
	db.SetMaxOpenConns(1)
	s, err := newStore(ctx, db)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: %v", index.ErrBuild, err), db.Close())
	}
	same, err := s.matches(ctx, points)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: rtree: %v", index.ErrBuild, err), db.Close())
	}
	if same {
		i.Reused = true
		log.Info().Str("backend", Name).Str("dsn", dsn).Int("points", len(points)).Msg("reusing index")
	} else {
		if err := s.load(ctx, points); err != nil {
			return errors.Join(fmt.Errorf("%w: rtree: load: %v", index.ErrBuild, err), db.Close())
		}
		log.Info().Str("backend", Name).Str("dsn", dsn).Int("points", len(points)).Msg("built index")
	}
	i.db, i.store = db, s
	i.state = index.Built
	return nil
}

// Nearest implements index.Adapter.
func (i *Index) Nearest(point geo.Point, radius float64) (index.Outcome, error) {
	if err := i.state.CanQuery(Name); err != nil {
		return index.Outcome{}, err
	}
	if !point.Valid() {
		return index.Outcome{}, fmt.Errorf("rtree: invalid query point %v", point)
	}
	var box *geo.BBox
	if index.Bounded(radius) {
		b := geo.Around(point, radius)
		box = &b
	}
	id, distance, candidates, err := i.store.nearest(context.Background(), point, box)
	if err != nil {
		return index.Outcome{}, fmt.Errorf("rtree: query: %w", err)
	}
	if id == 0 || (box != nil && distance > radius) {
		return index.NoMatch(candidates), nil
	}
	return index.Match(id, distance, candidates), nil
}

// Close releases the database handle.
func (i *Index) Close() error {
	if i.state == index.Closed {
		return nil
	}
	i.state = index.Closed
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db, i.store = nil, nil
	return err
}
