package lbaf

import "context"

// Hooks defines callbacks for Runtime events.
//
// All hooks are optional. They run synchronously on the goroutine driving
// Execute, so a hook observes the run exactly at the event it describes.
//
// Hook execution behavior:
//   - Hook errors are logged but don't fail the run
//   - Hooks must not mutate the population
//   - The context is the one passed to Execute
//
// Example:
//
//	hooks := &lbaf.Hooks{
//	    OnIteration: func(ctx context.Context, snap lbaf.Snapshot) error {
//	        fmt.Printf("iteration %d imbalance %.3f\n", snap.Iteration, snap.Stats.Imbalance())
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnStateChanged is called after every lifecycle transition.
	OnStateChanged func(ctx context.Context, from, to State) error

	// OnIteration is called after each iteration's snapshot was recorded.
	OnIteration func(ctx context.Context, snap Snapshot) error

	// OnError is called when a run aborts.
	OnError func(ctx context.Context, err error) error
}
