package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// StateSource is the subset of Runtime methods needed for waiting.
// This allows the helper to work with both real runtimes and test doubles.
type StateSource interface {
	// Subscribe returns a channel of state changes and an unsubscribe function.
	Subscribe() (<-chan types.State, func())
}

// WaitState waits until src reports expected, a terminal state, or timeout.
//
// Reaching StateFailed while waiting for another state is reported as an
// error immediately.
//
// Parameters:
//   - ctx: Context for cancellation
//   - src: Runtime (or double) to observe
//   - expected: Target state
//   - timeout: Maximum time to wait
//
// Returns:
//   - error: nil once expected was observed
//
// Example:
//
//	go func() { _ = rt.Run(ctx) }()
//	err := testutil.WaitState(ctx, rt, types.StateCompleted, 5*time.Second)
//	require.NoError(t, err)
func WaitState(ctx context.Context, src StateSource, expected types.State, timeout time.Duration) error {
	ch, unsubscribe := src.Subscribe()
	defer unsubscribe()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case state, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription closed before reaching %s", expected)
			}
			if state == expected {
				return nil
			}
			if state == types.StateFailed {
				return fmt.Errorf("%w: reached %s while waiting for %s", types.ErrRunFailed, state, expected)
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for %s after %v", expected, timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
