package types

import (
	"context"
	"fmt"
)

// PopulationSource produces the ranks and objects of a run.
//
// Implementations can generate synthetic workloads, replay recorded logs, or
// hand out copies of a fixed population. Every call must return a fresh
// population that shares no mutable state with earlier results.
type PopulationSource interface {
	// Populate builds a new population.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//
	// Returns:
	//   - *Population: Freshly built population
	//   - error: Configuration error for invalid input
	Populate(ctx context.Context) (*Population, error)
}

// PlacementStrategy decides the initial rank of generated objects.
type PlacementStrategy interface {
	// Place maps every object to one of ranks.
	//
	// Parameters:
	//   - ranks: Candidate ranks (non-empty)
	//   - objects: Objects to place
	//
	// Returns:
	//   - map[RankID][]*Object: Rank id → objects placed there (every rank present)
	//   - error: Placement error (e.g., no ranks)
	Place(ranks []RankID, objects []*Object) (map[RankID][]*Object, error)
}

// Reporter receives statistics report requests.
//
// The runtime calls Report after populating and after every iteration; it
// never formats output itself. Implementations must not mutate the ranks.
type Reporter interface {
	Report(ranks []*Rank, accessor func(*Rank) float64, label string)
}

func wrapName(err error, name string) error {
	return fmt.Errorf("%w: %q", err, name)
}
