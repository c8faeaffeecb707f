package lifecycle

import (
	"sync"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// subscriber is a helper for managing state change subscriptions.
type subscriber struct {
	ch     chan types.State
	mu     sync.Mutex
	closed bool
}

// trySend sends a state update to the subscriber's channel without blocking.
func (s *subscriber) trySend(state types.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- state:
	default:
		// Subscriber is slow; it will get the next update.
	}
}

// close safely closes the subscriber's channel.
func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
