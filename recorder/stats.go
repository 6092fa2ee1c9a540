package recorder

import (
	"fmt"
	"time"
)

// RunStatistics aggregates one run. Distance figures cover only matches whose
// backend reported a distance.
type RunStatistics struct {
	RunID     string    `yaml:"runId"`
	StartedAt time.Time `yaml:"startedAt"`
	Key       `yaml:",inline"`

	// QueryPoints is the configured workload size; Queries is how many ran.
	QueryPoints int `yaml:"queryPoints"`
	Queries     int `yaml:"queries"`

	Candidates        int64   `yaml:"candidates"`
	Found             int     `yaml:"found"`
	AverageCandidates float64 `yaml:"averageCandidates"`
	FoundRatio        float64 `yaml:"foundRatio"`
	DistinctIDs       int     `yaml:"distinctIds"`

	Distances    int     `yaml:"distances"`
	MinDistance  float64 `yaml:"minDistance"`
	MeanDistance float64 `yaml:"meanDistance"`
	MaxDistance  float64 `yaml:"maxDistance"`

	BuildDuration time.Duration `yaml:"buildDuration"`
	QueryDuration time.Duration `yaml:"queryDuration"`
	MeanLatency   time.Duration `yaml:"meanLatency"`
}

// String is the one-line console summary of the run.
func (s RunStatistics) String() string {
	return fmt.Sprintf("%s: average number of candidates within query distance (if used) = %.0f/%d, number of nearest locations found = %d/%d",
		s.Key, s.AverageCandidates, s.IndexPoints, s.Found, s.QueryPoints)
}
