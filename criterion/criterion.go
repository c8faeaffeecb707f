package criterion

import (
	"fmt"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Kind enumerates the built-in criteria.
type Kind int

const (
	// LoadThreshold compares the projected destination load to the average.
	LoadThreshold Kind = iota

	// MinMaxWork minimizes the maximum work of the two ranks involved.
	MinMaxWork

	// StrictLocalizing forbids breaking any on-source communication.
	StrictLocalizing

	// RelaxedLocalizing weighs destination against source communication.
	RelaxedLocalizing
)

// String returns the canonical configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case LoadThreshold:
		return "load_threshold"
	case MinMaxWork:
		return "min_max_work"
	case StrictLocalizing:
		return "strict_localizing"
	case RelaxedLocalizing:
		return "relaxed_localizing"
	default:
		return "unknown"
	}
}

// Kinds returns all built-in kinds in declaration order.
func Kinds() []Kind {
	return []Kind{LoadThreshold, MinMaxWork, StrictLocalizing, RelaxedLocalizing}
}

// ParseKind resolves a configuration name. The empty string selects LoadThreshold.
//
// Returns:
//   - Kind: Resolved kind
//   - error: types.ErrUnknownCriterion for unknown names
func ParseKind(name string) (Kind, error) {
	switch name {
	case "", "load_threshold", "grapevine":
		return LoadThreshold, nil
	case "min_max_work", "minimize_max_work":
		return MinMaxWork, nil
	case "strict_localizing":
		return StrictLocalizing, nil
	case "relaxed_localizing":
		return RelaxedLocalizing, nil
	default:
		return LoadThreshold, fmt.Errorf("%w: %q", types.ErrUnknownCriterion, name)
	}
}

// Option configures criterion construction.
type Option func(*options)

type options struct {
	communicationWeight float64
}

// WithCommunicationWeight sets β, the weight of off-rank communication volume
// in the work model of MinMaxWork. Other criteria ignore it.
//
// Parameters:
//   - beta: Non-negative weight (default 0, load only)
//
// Returns:
//   - Option: Construction option
func WithCommunicationWeight(beta float64) Option {
	return func(o *options) {
		o.communicationWeight = beta
	}
}

// New returns the criterion of the given kind.
//
// Parameters:
//   - kind: Criterion kind
//   - opts: Optional parameters (WithCommunicationWeight)
//
// Returns:
//   - types.Criterion: Criterion instance
//   - error: types.ErrUnknownCriterion for out-of-range kinds, types.ErrInvalidConfig for bad options
//
// Example:
//
//	c, err := criterion.New(criterion.MinMaxWork, criterion.WithCommunicationWeight(0.5))
//	if err != nil {
//	    return err
//	}
//	d := c.Evaluate(candidate)
func New(kind Kind, opts ...Option) (types.Criterion, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.communicationWeight < 0 {
		return nil, fmt.Errorf("%w: communication weight must be >= 0, got %g", types.ErrInvalidConfig, o.communicationWeight)
	}

	switch kind {
	case LoadThreshold:
		return &loadThreshold{}, nil
	case MinMaxWork:
		return &minMaxWork{beta: o.communicationWeight}, nil
	case StrictLocalizing:
		return &strictLocalizing{}, nil
	case RelaxedLocalizing:
		return &relaxedLocalizing{}, nil
	default:
		return nil, fmt.Errorf("%w: kind %d", types.ErrUnknownCriterion, int(kind))
	}
}

// NewByName parses name and returns the matching criterion.
func NewByName(name string, opts ...Option) (types.Criterion, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	return New(kind, opts...)
}
