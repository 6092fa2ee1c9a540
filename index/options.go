package index

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Options tune backend construction. Zero values select backend defaults.
type Options struct {
	// Dir is the root for on-disk backends. Empty keeps them in memory.
	Dir string `yaml:"dir,omitempty"`
	// InMemory forces on-disk backends to stay in memory even when Dir is set.
	InMemory bool `yaml:"inMemory,omitempty"`
	// CoverBase is the cover tree level base; values <= 1 select the default.
	CoverBase float64 `yaml:"coverBase,omitempty"`
	// GeohashPrecision fixes the geohash cell length; 0 picks one per query.
	GeohashPrecision int `yaml:"geohashPrecision,omitempty"`
}

// Persistent reports whether on-disk backends should write under Dir.
func (o Options) Persistent() bool {
	return o.Dir != "" && !o.InMemory
}

// IndexDir returns the directory of a persisted index for backend and size.
func (o Options) IndexDir(backend string, size int) string {
	return filepath.Join(o.Dir, fmt.Sprintf("%s-index-%d", backend, size))
}

var dirLocks = struct {
	sync.Mutex
	byPath map[string]*sync.Mutex
}{byPath: make(map[string]*sync.Mutex)}

// LockDir serialises builders of the same on-disk index directory across the
// process. It returns the unlock function.
func LockDir(path string) func() {
	dirLocks.Lock()
	mu, ok := dirLocks.byPath[path]
	if !ok {
		mu = &sync.Mutex{}
		dirLocks.byPath[path] = mu
	}
	dirLocks.Unlock()
	mu.Lock()
	return mu.Unlock
}
