package recorder

import (
	"path/filepath"
	"strconv"
)

// Key identifies a run: one backend, one index size, one radius.
type Key struct {
	Backend      string  `yaml:"backend"`
	IndexPoints  int     `yaml:"indexPoints"`
	RadiusMetres float64 `yaml:"radiusMetres"`
}

// String renders the key as used in file names, e.g. "rtree-10000-1000".
func (k Key) String() string {
	return k.Backend + "-" + strconv.Itoa(k.IndexPoints) + "-" + strconv.FormatFloat(k.RadiusMetres, 'f', -1, 64)
}

// ResultPath returns the per-query table location for key under dir.
func ResultPath(dir string, key Key) string {
	return filepath.Join(dir, "results-"+key.String()+".csv")
}

// SummaryPath returns the summary location for key under dir.
func SummaryPath(dir string, key Key) string {
	return filepath.Join(dir, "summary-"+key.String()+".yaml")
}
