package source

import (
	"context"
	"sync"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Static implements a population source over a fixed population.
type Static struct {
	mu  sync.RWMutex
	pop *types.Population
}

var _ types.PopulationSource = (*Static)(nil)

// NewStatic creates a new static population source.
//
// The source hands out deep copies of pop, so runs never observe each
// other's migrations. Useful for tests and hand-built scenarios.
//
// Parameters:
//   - pop: Template population (copied, not retained)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	r0, r1 := types.NewRank(0), types.NewRank(1)
//	pop, _ := types.NewPopulation([]*types.Rank{r0, r1})
//	_ = pop.Assign(types.NewObject(0, 10, nil), 0, false)
//	rt, err := lbaf.NewRuntime(ctx, &cfg, source.NewStatic(pop))
func NewStatic(pop *types.Population) *Static {
	s := &Static{}
	s.Update(pop)

	return s
}

// Populate returns a deep copy of the template population.
//
// Returns:
//   - *types.Population: Fresh copy
//   - error: types.ErrPopulationSourceRequired if no template was set
func (s *Static) Populate(_ context.Context) (*types.Population, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pop == nil {
		return nil, types.ErrPopulationSourceRequired
	}

	return s.pop.Clone(), nil
}

// Update replaces the template population.
//
// Parameters:
//   - pop: New template (copied, not retained)
func (s *Static) Update(pop *types.Population) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pop == nil {
		s.pop = nil
		return
	}
	s.pop = pop.Clone()
}
