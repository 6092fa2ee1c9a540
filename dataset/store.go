package dataset

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/viant/geobench/geo"
)

// Store hands out datasets by (role, size), generating each one at most once.
type Store struct {
	cfg Config

	mu    sync.RWMutex
	byKey map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	points   []geo.Point
	loaded   bool
	building bool
	cond     *sync.Cond
}

func newEntry() *entry {
	e := &entry{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

func (e *entry) get() ([]geo.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.points, e.loaded
}

func (e *entry) set(points []geo.Point) {
	e.mu.Lock()
	e.points = points
	e.loaded = true
	e.mu.Unlock()
}

// startBuild claims the entry; false means it is loaded or another caller is building.
func (e *entry) startBuild() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded || e.building {
		return false
	}
	e.building = true
	return true
}

func (e *entry) waitForBuild() ([]geo.Point, bool) {
	e.mu.Lock()
	for e.building {
		e.cond.Wait()
	}
	points, loaded := e.points, e.loaded
	e.mu.Unlock()
	return points, loaded
}

func (e *entry) finishBuild() {
	e.mu.Lock()
	e.building = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

// NewStore creates a store for cfg. Generation bounds are not checked here;
// call cfg.Validate first when the config comes from user input.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg, byKey: make(map[string]*entry)}
}

// Config returns the store configuration.
func (s *Store) Config() Config { return s.cfg }

// Path returns the artifact location for a (role, size) key.
func (s *Store) Path(role Role, size int) string { return Path(s.cfg.Dir, role, size) }

func cacheKey(role Role, size int) string {
	return string(role) + "|" + strconv.Itoa(size)
}

func (s *Store) entry(key string) *entry {
	s.mu.RLock()
	e := s.byKey[key]
	s.mu.RUnlock()
	if e != nil {
		return e
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.byKey[key]; e == nil {
		e = newEntry()
		s.byKey[key] = e
	}
	return e
}

// Get returns the dataset for (role, size), loading the persisted artifact or
// generating and persisting it on first use. Concurrent calls for the same key
// share one generation; the returned slice is shared and must not be modified.
func (s *Store) Get(ctx context.Context, role Role, size int) ([]geo.Point, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("dataset: unknown role %q", role)
	}
	if size < 0 {
		return nil, fmt.Errorf("dataset: invalid size %d", size)
	}
	e := s.entry(cacheKey(role, size))
	for {
		if points, ok := e.get(); ok {
			return points, nil
		}
		if e.startBuild() {
			break
		}
		if points, ok := e.waitForBuild(); ok {
			return points, nil
		}
		// the previous builder failed; retry as builder unless cancelled
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	defer e.finishBuild()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	points, err := s.loadOrGenerate(role, size)
	if err != nil {
		return nil, err
	}
	e.set(points)
	return points, nil
}

func (s *Store) loadOrGenerate(role Role, size int) ([]geo.Point, error) {
	if err := EnsureDir(s.cfg.Dir); err != nil {
		return nil, err
	}
	path := s.Path(role, size)
	_, err := os.Stat(path)
	switch {
	case err == nil:
		points, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		if len(points) != size {
			return nil, fmt.Errorf("%w: %s: expected %d points, found %d", ErrDatasetCorrupt, path, size, len(points))
		}
		log.Info().Str("role", string(role)).Int("size", size).Str("path", path).Msg("loaded dataset")
		return points, nil
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	points := s.generate(role, size)
	if err := WriteFile(path, points); err != nil {
		return nil, err
	}
	log.Info().Str("role", string(role)).Int("size", size).Str("path", path).Msg("generated dataset")
	return points, nil
}

// streamID selects the seeded stream of a (role, size) key.
func streamID(role Role, size int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(cacheKey(role, size)))
	return h.Sum64()
}

// generate draws size points uniformly over the configured bounds. With a
// seed, every (role, size) key has its own stream, so its points do not depend
// on what else the process generated.
func (s *Store) generate(role Role, size int) []geo.Point {
	latSpan := s.cfg.MaxLat - s.cfg.MinLat
	lonSpan := s.cfg.MaxLon - s.cfg.MinLon
	points := make([]geo.Point, size)
	uniform := rand.Float64
	if s.cfg.Seed != 0 {
		uniform = rand.New(rand.NewPCG(s.cfg.Seed, streamID(role, size))).Float64
	}
	for i := range points {
		points[i] = geo.Point{
			Lat: s.cfg.MinLat + uniform()*latSpan,
			Lon: s.cfg.MinLon + uniform()*lonSpan,
		}
	}
	return points
}
