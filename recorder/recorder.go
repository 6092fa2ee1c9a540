package recorder

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/viant/geobench/dataset"
	"github.com/viant/geobench/index"
	"gopkg.in/yaml.v3"
)

// ErrFinalized is returned by Add once the run has been finalized.
var ErrFinalized = errors.New("recorder: run already finalized")

// Entry is one row of the per-query table.
type Entry struct {
	ID       int
	Distance float64
}

// Recorder collects outcomes in query order. It is not safe for concurrent use.
type Recorder struct {
	dir         string
	key         Key
	queryPoints int
	runID       string
	startedAt   time.Time

	entries    []Entry
	candidates int64
	found      int
	distinct   *roaring.Bitmap
	distances  int
	distSum    float64
	minDist    float64
	maxDist    float64
	latency    time.Duration
	build      time.Duration

	stats *RunStatistics
}

// New starts a run writing under dir. queryPoints is the configured workload
// size the found ratio is measured against.
func New(dir string, key Key, queryPoints int) *Recorder {
	return &Recorder{
		dir:         dir,
		key:         key,
		queryPoints: queryPoints,
		runID:       uuid.New().String(),
		startedAt:   time.Now(),
		entries:     make([]Entry, 0, queryPoints),
		distinct:    roaring.New(),
		minDist:     math.Inf(1),
		maxDist:     math.Inf(-1),
	}
}

// Key returns the run key.
func (r *Recorder) Key() Key { return r.key }

// SetBuildDuration records how long the index took to build.
func (r *Recorder) SetBuildDuration(d time.Duration) { r.build = d }

// Add appends one query outcome.
func (r *Recorder) Add(outcome index.Outcome, latency time.Duration) error {
	if r.stats != nil {
		return ErrFinalized
	}
	r.entries = append(r.entries, Entry{ID: outcome.ID, Distance: outcome.Distance})
	r.candidates += int64(outcome.Candidates)
	r.latency += latency
	if !outcome.Found {
		return nil
	}
	r.found++
	if outcome.ID > 0 {
		r.distinct.Add(uint32(outcome.ID))
	}
	if outcome.HasDistance() {
		r.distances++
		r.distSum += outcome.Distance
		r.minDist = math.Min(r.minDist, outcome.Distance)
		r.maxDist = math.Max(r.maxDist, outcome.Distance)
	}
	return nil
}

// Entries returns the per-query table in query order.
func (r *Recorder) Entries() []Entry { return r.entries }

// Finalize computes the run statistics. The average candidate count is taken
// over queries that found a match. Later calls return the same value.
func (r *Recorder) Finalize() RunStatistics {
	if r.stats != nil {
		return *r.stats
	}
	stats := RunStatistics{
		RunID:         r.runID,
		StartedAt:     r.startedAt,
		Key:           r.key,
		QueryPoints:   r.queryPoints,
		Queries:       len(r.entries),
		Candidates:    r.candidates,
		Found:         r.found,
		DistinctIDs:   int(r.distinct.GetCardinality()),
		Distances:     r.distances,
		BuildDuration: r.build,
		QueryDuration: r.latency,
	}
	if r.found > 0 {
		stats.AverageCandidates = float64(r.candidates) / float64(r.found)
	}
	if r.queryPoints > 0 {
		stats.FoundRatio = float64(r.found) / float64(r.queryPoints)
	}
	if r.distances > 0 {
		stats.MinDistance = r.minDist
		stats.MaxDistance = r.maxDist
		stats.MeanDistance = r.distSum / float64(r.distances)
	}
	if len(r.entries) > 0 {
		stats.MeanLatency = r.latency / time.Duration(len(r.entries))
	}
	r.stats = &stats
	return stats
}

// Flush finalizes the run and writes the per-query table and the summary.
// Each file appears only once completely written.
func (r *Recorder) Flush() error {
	stats := r.Finalize()
	if err := dataset.EnsureDir(r.dir); err != nil {
		return err
	}
	if err := WriteResults(ResultPath(r.dir, r.key), r.entries); err != nil {
		return err
	}
	return WriteSummary(SummaryPath(r.dir, r.key), &stats)
}

// WriteResults stores entries as id<TAB>distance lines.
func WriteResults(path string, entries []Entry) error {
	return dataset.WriteAtomic(path, func(w *bufio.Writer) error {
		for _, e := range entries {
			if _, err := w.WriteString(strconv.Itoa(e.ID) + "\t" + dataset.FormatFloat(e.Distance) + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummary stores stats as YAML.
func WriteSummary(path string, stats *RunStatistics) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("recorder: marshal summary: %w", err)
	}
	return dataset.WriteAtomic(path, func(w *bufio.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
