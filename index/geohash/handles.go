package geohash

import (
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Badger locks its directory, so runs over the same persisted index share
// one handle. The last release closes it.
var handles = struct {
	sync.Mutex
	byDir map[string]*handle
}{byDir: make(map[string]*handle)}

type handle struct {
	db   *badger.DB
	refs int
}

// acquire returns the open handle for dir, opening it on first use.
func acquire(dir string) (*badger.DB, error) {
	handles.Lock()
	defer handles.Unlock()
	if h, ok := handles.byDir[dir]; ok {
		h.refs++
		return h.db, nil
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	handles.byDir[dir] = &handle{db: db, refs: 1}
	return db, nil
}

// release drops one reference to dir and closes the handle with the last one.
func release(dir string) error {
	handles.Lock()
	defer handles.Unlock()
	h, ok := handles.byDir[dir]
	if !ok {
		return nil
	}
	if h.refs--; h.refs > 0 {
		return nil
	}
	delete(handles.byDir, dir)
	return h.db.Close()
}

func openHandles(dir string) int {
	handles.Lock()
	defer handles.Unlock()
	if h, ok := handles.byDir[dir]; ok {
		return h.refs
	}
	return 0
}
