package index

import "fmt"

// NoDistance marks an outcome whose backend does not expose the match distance.
const NoDistance = -1.0

// Outcome is the result of a single Nearest call.
type Outcome struct {
	ID         int
	Distance   float64
	Candidates int
	Found      bool
}

// NoMatch is the outcome of a query with nothing in range.
func NoMatch(candidates int) Outcome {
	return Outcome{Distance: NoDistance, Candidates: candidates}
}

// Match builds a found outcome.
func Match(id int, distance float64, candidates int) Outcome {
	return Outcome{ID: id, Distance: distance, Candidates: candidates, Found: true}
}

// HasDistance reports whether the backend computed a distance for the match.
func (o Outcome) HasDistance() bool {
	return o.Found && o.Distance >= 0
}

func (o Outcome) String() string {
	if !o.Found {
		return fmt.Sprintf("none (%d candidates)", o.Candidates)
	}
	return fmt.Sprintf("#%d at %gm (%d candidates)", o.ID, o.Distance, o.Candidates)
}
