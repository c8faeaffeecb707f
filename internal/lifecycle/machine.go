package lifecycle

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// subscriberBuffer allows a full Gossip → Transfer → Snapshot cycle plus the
// final Completed to queue without dropping states when a subscriber is slow.
const subscriberBuffer = 8

// transitions lists the allowed successor states. Failed is handled separately.
var transitions = map[types.State][]types.State{
	types.StateInitialized: {types.StateGossip},
	types.StateGossip:      {types.StateTransfer},
	types.StateTransfer:    {types.StateSnapshot},
	types.StateSnapshot:    {types.StateGossip, types.StateCompleted},
	types.StateCompleted:   {types.StateGossip},
}

// Machine manages runtime state transitions.
//
// Implements a validated state machine with these states:
//   - Initialized: Population loaded, baseline computed
//   - Gossip: Information dissemination in progress
//   - Transfer: Objects being migrated
//   - Snapshot: Iteration statistics being recorded
//   - Completed: Requested iterations finished (may be resumed)
//   - Failed: Run aborted (terminal)
type Machine struct {
	mu      sync.Mutex // serializes transitions
	current atomic.Int32

	logger  types.Logger
	metrics types.RuntimeMetrics

	subscribers      *xsync.Map[uint64, *subscriber]
	nextSubscriberID atomic.Uint64
}

// New creates a state machine in StateInitialized.
//
// Parameters:
//   - logger: Logger for state transitions
//   - metrics: Metrics collector receiving every transition
//
// Returns:
//   - *Machine: A new state machine
func New(logger types.Logger, metrics types.RuntimeMetrics) *Machine {
	m := &Machine{
		logger:      logger,
		metrics:     metrics,
		subscribers: xsync.NewMap[uint64, *subscriber](),
	}
	m.current.Store(int32(types.StateInitialized))

	return m
}

// State returns the current state.
//
// This method is thread-safe and can be called concurrently.
func (m *Machine) State() types.State {
	return types.State(m.current.Load())
}

// CanTransition reports whether to is a valid successor of from.
func CanTransition(from, to types.State) bool {
	if to == types.StateFailed {
		return from != types.StateFailed
	}

	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}

	return false
}

// Transition moves the machine to state to.
//
// Parameters:
//   - to: Target state
//
// Returns:
//   - error: types.ErrInvalidTransition if to is not a valid successor
func (m *Machine) Transition(to types.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.State()
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", types.ErrInvalidTransition, from, to)
	}

	m.emit(from, to)

	return nil
}

// Fail moves the machine to StateFailed.
//
// Failing an already failed machine is a no-op.
//
// Parameters:
//   - cause: Error that aborted the run, logged with the transition
func (m *Machine) Fail(cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.State()
	if from == types.StateFailed {
		return
	}

	m.logger.Error("run failed", "state", from.String(), "error", cause)
	m.emit(from, types.StateFailed)
}

// Subscribe returns a channel that receives state change notifications.
//
// The returned channel is buffered so that a full iteration of transitions
// can queue without blocking the machine. The subscriber receives the
// current state immediately upon subscription. Updates to a full channel are
// dropped.
//
// Returns:
//   - <-chan types.State: Channel that receives state updates
//   - func(): Unsubscribe function that closes the channel
//
// Example:
//
//	ch, unsubscribe := m.Subscribe()
//	defer unsubscribe()
//	for state := range ch {
//	    fmt.Printf("State changed to: %s\n", state)
//	}
func (m *Machine) Subscribe() (<-chan types.State, func()) {
	id := m.nextSubscriberID.Add(1)

	sub := &subscriber{ch: make(chan types.State, subscriberBuffer)}
	m.subscribers.Store(id, sub)

	sub.trySend(m.State())

	unsubscribe := func() {
		if s, ok := m.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}

	return sub.ch, unsubscribe
}

// Close unsubscribes every subscriber.
func (m *Machine) Close() {
	m.subscribers.Range(func(id uint64, _ *subscriber) bool {
		if s, ok := m.subscribers.LoadAndDelete(id); ok {
			s.close()
		}

		return true
	})
}

// emit stores the new state and notifies subscribers. Callers hold mu.
func (m *Machine) emit(from, to types.State) {
	m.current.Store(int32(to)) //nolint:gosec // G115: bounded enum
	m.logger.Debug("state transition", "from", from.String(), "to", to.String())
	m.metrics.RecordStateTransition(from, to)

	m.subscribers.Range(func(_ uint64, sub *subscriber) bool {
		sub.trySend(to)
		return true
	})
}
