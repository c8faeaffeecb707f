package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/metrics"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/rng"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// DefaultThreshold is the relative overload factor used when none is set.
const DefaultThreshold = 1.0

// Engine runs the transfer phase.
//
// The phase is sequential: an accepted migration mutates two ranks, so ranks
// are processed one after another in population order. Randomness still comes
// from each source rank's own stream.
type Engine struct {
	criterion types.Criterion
	threshold float64
	pmf       types.PMFType
	streams   *rng.Streams
	logger    types.Logger
	metrics   types.TransferMetrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the relative overload factor. A rank sheds load above
// threshold times the average.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithPMF selects how destination probabilities are derived.
func WithPMF(pmf types.PMFType) Option {
	return func(e *Engine) {
		e.pmf = pmf
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the transfer metrics sink.
func WithMetrics(m types.TransferMetrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// New creates a transfer engine.
//
// Parameters:
//   - criterion: Acceptance rule
//   - streams: Per-rank random streams
//   - opts: Optional settings (WithThreshold, WithPMF, WithLogger, WithMetrics)
//
// Returns:
//   - *Engine: Configured engine
//   - error: types.ErrInvalidConfig for a nil criterion, nil streams or a non-positive threshold
func New(criterion types.Criterion, streams *rng.Streams, opts ...Option) (*Engine, error) {
	if criterion == nil {
		return nil, fmt.Errorf("%w: criterion is required", types.ErrInvalidConfig)
	}
	if streams == nil {
		return nil, fmt.Errorf("%w: random streams are required", types.ErrInvalidConfig)
	}

	e := &Engine{
		criterion: criterion,
		threshold: DefaultThreshold,
		pmf:       types.PMFUnderload,
		streams:   streams,
		logger:    logging.NewNop(),
		metrics:   metrics.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if !(e.threshold > 0) {
		return nil, fmt.Errorf("%w: threshold must be > 0, got %g", types.ErrInvalidConfig, e.threshold)
	}
	if e.pmf != types.PMFUnderload && e.pmf != types.PMFRelativeToMax {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownPMF, int(e.pmf))
	}

	return e, nil
}

// Run executes one transfer phase over pop.
//
// Parameters:
//   - ctx: Checked before each source rank
//   - pop: Population whose ranks carry fresh gossip knowledge
//   - averageLoad: Baseline average load
//
// Returns:
//   - Report: Phase counts
//   - error: Context error or a protocol violation from Population.Migrate
func (e *Engine) Run(ctx context.Context, pop *types.Population, averageLoad float64) (Report, error) {
	var report Report
	ranks := pop.Ranks()

	if !(averageLoad > 0) {
		report.Skipped = len(ranks)
		e.logger.Debug("transfer phase skipped", "reason", "zero average load")
		e.metrics.RecordTransferPhase(0, 0, 0)

		return report, nil
	}

	for _, src := range ranks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := e.shed(pop, src, averageLoad, &report); err != nil {
			return report, err
		}
	}

	e.metrics.RecordTransferPhase(report.Transfers, report.Rejects, report.Ignored)
	e.logger.Debug("transfer phase completed",
		"transfers", report.Transfers,
		"rejects", report.Rejects,
		"ignored", report.Ignored,
		"skipped", report.Skipped,
	)

	return report, nil
}

// shed moves objects off src until its excess is gone or every object was tried.
func (e *Engine) shed(pop *types.Population, src *types.Rank, averageLoad float64, report *Report) error {
	if src.KnowledgeSize() == 0 {
		report.Ignored++

		return nil
	}

	excess := src.Load() - e.threshold*averageLoad
	if excess <= 0 {
		return nil
	}

	targets, cmf, err := e.distribution(src, averageLoad)
	if errors.Is(err, types.ErrDegenerateDistribution) {
		report.Skipped++
		e.logger.Debug("no destination can receive load", "rank", src.ID(), "excess", excess)

		return nil
	}
	if err != nil {
		return err
	}

	stream := e.streams.For(src.ID())
	// Only this loop removes objects from src, and each object is tried once
	// in id order, so one snapshot serves the whole pass.
	candidates := src.Objects()

	for _, obj := range candidates {
		if excess <= 0 {
			break
		}

		dstID, err := stats.InverseTransformSample(stream, targets, cmf)
		if err != nil {
			return err
		}
		dst, ok := pop.Rank(dstID)
		if !ok {
			return fmt.Errorf("%w: rank %d knows unknown rank %d", types.ErrProtocolViolation, src.ID(), dstID)
		}
		knownDst, _ := src.KnownLoad(dstID)

		decision := e.criterion.Evaluate(types.Candidate{
			Objects:              []*types.Object{obj},
			Source:               src,
			Destination:          dst,
			KnownDestinationLoad: knownDst,
			AverageLoad:          averageLoad,
			Lookup:               pop.Object,
		})
		if !decision.Accept {
			report.Rejects++

			continue
		}

		if err := pop.Migrate(obj, src.ID(), dstID); err != nil {
			return fmt.Errorf("migrating object %d: %w", obj.ID(), err)
		}
		excess -= obj.Load()
		src.NoteTransfer(dstID, obj.Load())
		report.Transfers++

		targets, cmf, err = e.distribution(src, averageLoad)
		if errors.Is(err, types.ErrDegenerateDistribution) {
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// distribution builds the destination CMF from src's known loads.
//
// The source itself is never a destination.
func (e *Engine) distribution(src *types.Rank, averageLoad float64) ([]types.RankID, []float64, error) {
	targets := make([]types.RankID, 0, src.KnowledgeSize())
	loads := make([]float64, 0, src.KnowledgeSize())
	for _, id := range src.KnownLoaded() {
		if id == src.ID() {
			continue
		}
		l, _ := src.KnownLoad(id)
		targets = append(targets, id)
		loads = append(loads, l)
	}

	pmf := BuildPMF(e.pmf, loads, averageLoad)
	cmf, err := stats.BuildCMF(pmf)
	if err != nil {
		return nil, nil, err
	}

	return targets, cmf, nil
}

// BuildPMF returns the non-normalized destination weights for known loads.
//
// PMFUnderload weights each load l by 1 - l/averageLoad. PMFRelativeToMax
// weights it by 1 - l/max(loads), and uniformly when every load is zero.
// Negative weights are left for stats.BuildCMF to clamp.
func BuildPMF(kind types.PMFType, loads []float64, averageLoad float64) []float64 {
	pmf := make([]float64, len(loads))

	switch kind {
	case types.PMFRelativeToMax:
		lmax := 0.0
		for _, l := range loads {
			lmax = max(lmax, l)
		}
		for i, l := range loads {
			if lmax > 0 {
				pmf[i] = 1 - l/lmax
			} else {
				pmf[i] = 1
			}
		}
	default:
		for i, l := range loads {
			pmf[i] = 1 - l/averageLoad
		}
	}

	return pmf
}
