package lbaf

// Option configures a Runtime with optional dependencies.
type Option func(*runtimeOptions)

// runtimeOptions holds optional Runtime configuration.
type runtimeOptions struct {
	logger    Logger
	metrics   MetricsCollector
	hooks     *Hooks
	reporter  Reporter
	criterion Criterion
	seed      *uint64
	workers   int
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with slog-style loggers)
//
// Returns:
//   - Option: Functional option for NewRuntime
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src, lbaf.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *runtimeOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewRuntime
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "lbaf")
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src, lbaf.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *runtimeOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewRuntime
func WithHooks(hooks *Hooks) Option {
	return func(o *runtimeOptions) {
		o.hooks = hooks
	}
}

// WithReporter sets the statistics report sink.
//
// The reporter is called after populating and after every iteration.
//
// Parameters:
//   - reporter: Reporter implementation (e.g. report.NewLogReporter)
//
// Returns:
//   - Option: Functional option for NewRuntime
func WithReporter(reporter Reporter) Option {
	return func(o *runtimeOptions) {
		o.reporter = reporter
	}
}

// WithCriterion sets a criterion instance, overriding Config.Balancing.Criterion.
//
// Parameters:
//   - c: Criterion implementation
//
// Returns:
//   - Option: Functional option for NewRuntime
func WithCriterion(c Criterion) Option {
	return func(o *runtimeOptions) {
		o.criterion = c
	}
}

// WithSeed overrides Config.Seed.
func WithSeed(seed uint64) Option {
	return func(o *runtimeOptions) {
		o.seed = &seed
	}
}

// WithWorkers overrides Config.Workers.
func WithWorkers(n int) Option {
	return func(o *runtimeOptions) {
		o.workers = n
	}
}
