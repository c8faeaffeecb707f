package types

// Candidate describes a proposed migration handed to a Criterion.
type Candidate struct {
	// Objects are the objects proposed for migration (usually one).
	Objects []*Object

	// Source is the rank currently owning Objects.
	Source *Rank

	// Destination is the proposed new owner.
	Destination *Rank

	// KnownDestinationLoad is the source rank's gossip view of the destination load,
	// which may lag behind the destination's actual load.
	KnownDestinationLoad float64

	// AverageLoad is the run's baseline average rank load.
	AverageLoad float64

	// Lookup resolves communication peers by id.
	Lookup func(ObjectID) *Object
}

// Load returns the summed load of the candidate objects.
func (c Candidate) Load() float64 {
	total := 0.0
	for _, o := range c.Objects {
		total += o.Load()
	}

	return total
}

// Decision is the outcome of evaluating a Candidate.
//
// Score carries the criterion's raw value for reporting; Accept is the
// criterion's own reading of that value, so callers never interpret signs.
type Decision struct {
	Score  float64
	Accept bool
}

// Criterion decides whether a candidate migration should proceed.
//
// Implementations must be deterministic and must not mutate the candidate's
// ranks or objects.
type Criterion interface {
	// Name returns the canonical criterion name.
	Name() string

	// Evaluate scores a candidate migration.
	Evaluate(c Candidate) Decision
}

// PMFType selects how destination sampling probabilities are derived from known loads.
type PMFType int

const (
	// PMFUnderload weights each known rank by 1 - load/average.
	PMFUnderload PMFType = iota

	// PMFRelativeToMax weights each known rank by 1 - load/maxKnownLoad.
	PMFRelativeToMax
)

// String returns the configuration name of the PMF type.
func (t PMFType) String() string {
	switch t {
	case PMFUnderload:
		return "underload"
	case PMFRelativeToMax:
		return "relative_to_max"
	default:
		return "unknown"
	}
}

// ParsePMFType resolves a configuration name ("" selects the default).
//
// Returns:
//   - PMFType: Resolved type
//   - error: ErrUnknownPMF for unsupported names
func ParsePMFType(name string) (PMFType, error) {
	switch name {
	case "", "underload", "original":
		return PMFUnderload, nil
	case "relative_to_max", "modified":
		return PMFRelativeToMax, nil
	default:
		return PMFUnderload, wrapName(ErrUnknownPMF, name)
	}
}
