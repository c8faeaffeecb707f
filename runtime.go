package lbaf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/criterion"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/gossip"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/lifecycle"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/metrics"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/rng"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/transfer"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Parameters controls one Execute call.
type Parameters struct {
	// Iterations is the number of gossip → transfer → snapshot cycles (>= 1).
	Iterations int

	// Rounds is the maximum number of gossip rounds per iteration (>= 1).
	Rounds int

	// Fanout is the maximum number of peers per rank and round (>= 1).
	Fanout int

	// Threshold is the relative overload factor (> 0).
	Threshold float64

	// PMF selects the destination distribution.
	PMF PMFType
}

// Parameters converts the balancing configuration into Execute parameters.
//
// Returns:
//   - Parameters: Execute parameters
//   - error: types.ErrUnknownPMF for an unknown PMF name
func (b BalancingConfig) Parameters() (Parameters, error) {
	pmf, err := types.ParsePMFType(b.PMF)
	if err != nil {
		return Parameters{}, err
	}

	return Parameters{
		Iterations: b.Iterations,
		Rounds:     b.Rounds,
		Fanout:     b.Fanout,
		Threshold:  b.Threshold,
		PMF:        pmf,
	}, nil
}

// Runtime drives balancing iterations over one population.
//
// Runtime is the main entry point of the library. It owns the population and
// the baseline average load, and keeps the per-iteration history.
//
// Lifecycle:
//   - Create with NewRuntime() (populates and records iteration 0)
//   - Call Run() or Execute() one or more times; numbering continues
//   - Read Statistics(), LoadDistributions() or History()
//   - Call Close() to release subscribers
//
// A protocol violation or cancellation mid-iteration leaves the runtime in
// StateFailed; later Execute calls return ErrRunFailed.
type Runtime struct {
	cfg Config

	pop       *types.Population
	average   float64
	criterion Criterion
	streams   *rng.Streams
	workers   int

	machine  *lifecycle.Machine
	hooks    *Hooks
	reporter Reporter
	metrics  MetricsCollector
	logger   Logger

	execMu sync.Mutex // serializes Execute

	mu      sync.RWMutex // guards history and trend
	trend   *imbalanceTrend
	history []Snapshot
}

// NewRuntime creates a runtime over a freshly populated workload.
//
// Returns a concrete *Runtime struct following the "accept interfaces, return structs" principle.
//
// Parameters:
//   - ctx: Context for population
//   - cfg: Configuration (defaults are applied to a copy)
//   - src: Population source
//   - opts: Optional configuration (logger, metrics, hooks, reporter, criterion, seed, workers)
//
// Returns:
//   - *Runtime: Initialized runtime in StateInitialized
//   - error: Configuration error (retryable) for invalid config or population
//
// Example:
//
//	cfg := lbaf.DefaultConfig()
//	src, _ := source.NewSynthetic(cfg.Workload.Synthetic)
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src, lbaf.WithReporter(report.NewLogReporter(logger)))
//	if err != nil {
//	    return err
//	}
//	if err := rt.Run(ctx); err != nil {
//	    return err
//	}
func NewRuntime(ctx context.Context, cfg *Config, src PopulationSource, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if src == nil {
		return nil, ErrPopulationSourceRequired
	}

	c := *cfg
	SetDefaults(&c)

	options := &runtimeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	if options.seed != nil {
		c.Seed = *options.seed
	}
	if options.workers != 0 {
		c.Workers = options.workers
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}
	hooksInstance := options.hooks
	if hooksInstance == nil {
		hooksInstance = &Hooks{}
	}

	c.ValidateWithWarnings(loggerInstance)

	crit := options.criterion
	if crit == nil {
		var err error
		crit, err = criterion.NewByName(c.Balancing.Criterion,
			criterion.WithCommunicationWeight(c.Balancing.CommunicationWeight))
		if err != nil {
			return nil, err
		}
	}

	pop, err := src.Populate(ctx)
	if err != nil {
		return nil, fmt.Errorf("populate: %w", err)
	}
	if err := validatePopulation(pop); err != nil {
		return nil, err
	}

	r := &Runtime{
		cfg:       c,
		pop:       pop,
		average:   pop.AverageLoad(),
		criterion: crit,
		streams:   rng.New(c.Seed),
		workers:   c.Workers,
		machine:   lifecycle.New(loggerInstance, metricsCollector),
		hooks:     hooksInstance,
		reporter:  options.reporter,
		metrics:   metricsCollector,
		logger:    loggerInstance,
		trend:     newImbalanceTrend(c.Balancing.TrendAge),
	}

	metricsCollector.RecordPopulation(pop.NumRanks(), pop.NumObjects())
	r.report("initial rank loads")
	initial := r.record(Snapshot{Iteration: 0})

	loggerInstance.Info("runtime initialized",
		"ranks", pop.NumRanks(),
		"objects", pop.NumObjects(),
		"average_load", r.average,
		"imbalance", initial.Stats.Imbalance(),
		"criterion", crit.Name(),
		"seed", c.Seed,
	)

	return r, nil
}

// validatePopulation rejects populations the balancing loop cannot run on.
func validatePopulation(pop *types.Population) error {
	if pop == nil {
		return fmt.Errorf("%w: population source returned no population", ErrInvalidConfig)
	}
	if pop.NumRanks() < 2 {
		return fmt.Errorf("%w (got %d)", ErrTooFewRanks, pop.NumRanks())
	}
	if pop.NumObjects() == 0 {
		return ErrNoObjects
	}
	if err := pop.CheckOwnership(); err != nil {
		return err
	}

	return pop.CheckCommunication()
}

// Run executes the iterations configured in Config.Balancing.
//
// Parameters:
//   - ctx: Context checked between phases
//
// Returns:
//   - error: See Execute
func (r *Runtime) Run(ctx context.Context) error {
	params, err := r.cfg.Balancing.Parameters()
	if err != nil {
		return err
	}

	return r.Execute(ctx, params)
}

// Execute runs p.Iterations balancing iterations and ends in StateCompleted.
//
// Re-invoking continues from the current population and iteration number; it
// never resets. Invalid parameters are rejected before any state changes.
//
// Parameters:
//   - ctx: Context checked between phases and inside them
//   - p: Iteration parameters
//
// Returns:
//   - error: Configuration error for invalid parameters, ErrRunFailed after an
//     earlier abort, or the protocol/context error that aborted this run
func (r *Runtime) Execute(ctx context.Context, p Parameters) error {
	r.execMu.Lock()
	defer r.execMu.Unlock()

	if r.machine.State() == StateFailed {
		return ErrRunFailed
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidConfig, p.Iterations)
	}

	proto, err := gossip.New(p.Rounds, p.Fanout, r.streams,
		gossip.WithWorkers(r.workers),
		gossip.WithLogger(r.logger),
		gossip.WithMetrics(r.metrics),
	)
	if err != nil {
		return err
	}
	engine, err := transfer.New(r.criterion, r.streams,
		transfer.WithThreshold(p.Threshold),
		transfer.WithPMF(p.PMF),
		transfer.WithLogger(r.logger),
		transfer.WithMetrics(r.metrics),
	)
	if err != nil {
		return err
	}

	r.logger.Debug("execute started",
		"iterations", p.Iterations,
		"rounds", p.Rounds,
		"fanout", p.Fanout,
		"threshold", p.Threshold,
		"pmf", p.PMF.String(),
	)

	for range p.Iterations {
		if err := r.iterate(ctx, r.Iterations()+1, proto, engine); err != nil {
			return r.fail(ctx, err)
		}
	}

	if err := r.transition(ctx, StateCompleted); err != nil {
		return r.fail(ctx, err)
	}

	last := r.lastSnapshot()
	r.logger.Info("run completed",
		"iterations", last.Iteration,
		"imbalance", last.Stats.Imbalance(),
		"imbalance_trend", last.ImbalanceTrend,
	)

	return nil
}

// iterate runs one gossip → transfer → snapshot cycle.
func (r *Runtime) iterate(ctx context.Context, iteration int, proto *gossip.Protocol, engine *transfer.Engine) error {
	started := time.Now()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.transition(ctx, StateGossip); err != nil {
		return err
	}
	summary, err := proto.Run(ctx, r.pop, r.average)
	if err != nil {
		return fmt.Errorf("iteration %d gossip: %w", iteration, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.transition(ctx, StateTransfer); err != nil {
		return err
	}
	before := r.pop.TotalLoad()
	rep, err := engine.Run(ctx, r.pop, r.average)
	if err != nil {
		return fmt.Errorf("iteration %d transfer: %w", iteration, err)
	}
	if err := r.checkInvariants(before); err != nil {
		return fmt.Errorf("iteration %d transfer: %w", iteration, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.transition(ctx, StateSnapshot); err != nil {
		return err
	}
	snap := r.record(Snapshot{
		Iteration:       iteration,
		Gossip:          summary,
		Transfer:        rep,
		DurationSeconds: time.Since(started).Seconds(),
	})

	r.metrics.RecordIteration(snap.Stats.Imbalance(), snap.DurationSeconds)
	r.report(fmt.Sprintf("iteration %d rank loads", iteration))
	r.logger.Info("iteration completed",
		"iteration", iteration,
		"imbalance", snap.Stats.Imbalance(),
		"maximum_load", snap.Stats.Max,
		"messages", summary.TotalMessages(),
		"transfers", rep.Transfers,
		"rejects", rep.Rejects,
		"rejection_rate", rep.RejectionRate(),
		"ignored", rep.Ignored,
	)

	if r.hooks.OnIteration != nil {
		if err := r.hooks.OnIteration(ctx, snap.clone()); err != nil {
			r.logger.Error("iteration hook error", "iteration", iteration, "error", err)
		}
	}

	return nil
}

// checkInvariants verifies single ownership and load conservation.
func (r *Runtime) checkInvariants(before float64) error {
	if err := r.pop.CheckOwnership(); err != nil {
		return err
	}

	after := r.pop.TotalLoad()
	if math.Abs(after-before) > 1e-9*math.Max(1, math.Abs(before)) {
		return fmt.Errorf("%w: %g before, %g after", types.ErrConservation, before, after)
	}

	return nil
}

// record computes the statistics of the current distribution and appends snap.
func (r *Runtime) record(snap Snapshot) Snapshot {
	snap.Loads = r.pop.LoadDistribution()
	snap.Stats = stats.Compute(snap.Loads, stats.Identity)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap.ImbalanceTrend = r.trend.add(snap.Stats.Imbalance())
	r.history = append(r.history, snap)

	return snap
}

func (r *Runtime) report(label string) {
	if r.reporter == nil {
		return
	}
	r.reporter.Report(r.pop.Ranks(), (*types.Rank).Load, label)
}

// transition moves the state machine and triggers hooks.
func (r *Runtime) transition(ctx context.Context, to State) error {
	from := r.machine.State()
	if err := r.machine.Transition(to); err != nil {
		return err
	}

	if r.hooks.OnStateChanged != nil {
		if err := r.hooks.OnStateChanged(ctx, from, to); err != nil {
			r.logger.Error("state change hook error", "from", from.String(), "to", to.String(), "error", err)
		}
	}

	return nil
}

// fail moves the runtime to StateFailed and returns err.
func (r *Runtime) fail(ctx context.Context, err error) error {
	from := r.machine.State()
	r.machine.Fail(err)

	if r.hooks.OnStateChanged != nil {
		if hookErr := r.hooks.OnStateChanged(ctx, from, StateFailed); hookErr != nil {
			r.logger.Error("state change hook error", "from", from.String(), "to", StateFailed.String(), "error", hookErr)
		}
	}
	if r.hooks.OnError != nil {
		if hookErr := r.hooks.OnError(ctx, err); hookErr != nil {
			r.logger.Error("error hook error", "error", hookErr)
		}
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		r.logger.Error("run aborted", "error", err)
	}

	return err
}

// Statistics returns named metric histories ordered by iteration.
//
// Every list starts with iteration 0, the initial distribution. Keys are
// listed by MetricNames.
//
// Returns:
//   - map[string][]float64: Metric name → values per iteration
func (r *Runtime) Statistics() map[string][]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]float64, len(MetricNames()))
	for _, name := range MetricNames() {
		values := make([]float64, len(r.history))
		for i, snap := range r.history {
			values[i] = snap.metric(name)
		}
		out[name] = values
	}

	return out
}

// LoadDistributions returns the rank load distribution of every iteration,
// starting with iteration 0.
func (r *Runtime) LoadDistributions() [][]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([][]float64, len(r.history))
	for i, snap := range r.history {
		out[i] = append([]float64(nil), snap.Loads...)
	}

	return out
}

// History returns copies of all snapshots, starting with iteration 0.
func (r *Runtime) History() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, len(r.history))
	for i, snap := range r.history {
		out[i] = snap.clone()
	}

	return out
}

// Iterations returns the number of completed iterations.
func (r *Runtime) Iterations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.history) - 1
}

func (r *Runtime) lastSnapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.history[len(r.history)-1].clone()
}

// Population returns a deep copy of the current population.
//
// Hooks may call it. Other goroutines must not call it while Execute runs.
func (r *Runtime) Population() *Population {
	return r.pop.Clone()
}

// AverageLoad returns the baseline average load.
func (r *Runtime) AverageLoad() float64 {
	return r.average
}

// Criterion returns the transfer criterion in use.
func (r *Runtime) Criterion() Criterion {
	return r.criterion
}

// Config returns the effective configuration (defaults applied).
func (r *Runtime) Config() Config {
	return r.cfg
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	return r.machine.State()
}

// Subscribe returns a channel of lifecycle state changes.
//
// The channel receives the current state immediately. Updates are dropped
// while the channel buffer is full.
//
// Returns:
//   - <-chan State: State updates
//   - func(): Unsubscribe function
func (r *Runtime) Subscribe() (<-chan State, func()) {
	return r.machine.Subscribe()
}

// Close releases every subscriber channel.
func (r *Runtime) Close() {
	r.machine.Close()
}
