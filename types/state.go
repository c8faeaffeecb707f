package types

// State represents the runtime lifecycle state.
//
// States follow a defined progression:
//
//	StateInitialized → (StateGossip → StateTransfer → StateSnapshot)* → StateCompleted
//
// A completed runtime may be executed again, which re-enters StateGossip and
// continues the iteration numbering. StateFailed is terminal.
type State int

const (
	// StateInitialized indicates the population is loaded and the baseline computed.
	StateInitialized State = iota

	// StateGossip indicates information dissemination is in progress.
	StateGossip

	// StateTransfer indicates objects are being migrated.
	StateTransfer

	// StateSnapshot indicates per-iteration statistics are being recorded.
	StateSnapshot

	// StateCompleted indicates the requested iterations finished.
	StateCompleted

	// StateFailed indicates the run aborted on a protocol violation.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateGossip:
		return "Gossip"
	case StateTransfer:
		return "Transfer"
	case StateSnapshot:
		return "Snapshot"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
