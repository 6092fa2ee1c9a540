package runner

import (
	"io"

	"github.com/viant/geobench/index"
)

// Config holds runner settings shared by every run.
type Config struct {
	// QueryPoints is the workload size for runs that do not set one. Zero
	// runs no queries.
	QueryPoints int
	// Parallelism bounds concurrent combinations in a sweep; values < 1 mean 1.
	Parallelism int
	// Progress receives a progress bar per run; nil disables it.
	Progress io.Writer
	// Options are passed to every backend factory.
	Options index.Options
}

// Params select one run.
type Params struct {
	Backend      string
	IndexPoints  int
	QueryPoints  int
	RadiusMetres float64
}

// SweepParams select the combinations of a sweep.
type SweepParams struct {
	Backends    []string
	IndexSizes  []int
	Radii       []float64
	QueryPoints int
}

// Combinations expands the sweep in backend, size, radius order.
func (s SweepParams) Combinations() []Params {
	out := make([]Params, 0, len(s.Backends)*len(s.IndexSizes)*len(s.Radii))
	for _, backend := range s.Backends {
		for _, size := range s.IndexSizes {
			for _, radius := range s.Radii {
				out = append(out, Params{Backend: backend, IndexPoints: size, QueryPoints: s.QueryPoints, RadiusMetres: radius})
			}
		}
	}
	return out
}
