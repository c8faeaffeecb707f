package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that
// constructing a collector never panics on duplicate registration until it is
// actually exercised.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	stateTransitions  *prometheus.CounterVec
	iterations        prometheus.Counter
	iterationDuration prometheus.Histogram
	imbalance         prometheus.Gauge
	ranks             prometheus.Gauge
	objects           prometheus.Gauge
	gossipMessages    *prometheus.CounterVec
	gossipRounds      prometheus.Counter
	transfers         prometheus.Counter
	rejects           prometheus.Counter
	ignoredRanks      prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "lbaf" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "lbaf"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "runtime",
			Name:      "state_transitions_total",
			Help:      "Total runtime state transitions by source and target state.",
		}, []string{"from", "to"})

		p.iterations = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "runtime",
			Name:      "iterations_total",
			Help:      "Total completed balancing iterations.",
		})

		p.iterationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "runtime",
			Name:      "iteration_duration_seconds",
			Help:      "Wall time of one balancing iteration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs .. ~26s
		})

		p.imbalance = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "runtime",
			Name:      "load_imbalance",
			Help:      "Rank-load imbalance (max/mean - 1) after the last iteration.",
		})

		p.ranks = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "population",
			Name:      "ranks",
			Help:      "Number of ranks in the population.",
		})

		p.objects = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "population",
			Name:      "objects",
			Help:      "Number of objects in the population.",
		})

		p.gossipMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "gossip",
			Name:      "messages_total",
			Help:      "Total gossip messages sent by round number.",
		}, []string{"round"})

		p.gossipRounds = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "gossip",
			Name:      "rounds_total",
			Help:      "Total executed gossip rounds.",
		})

		p.transfers = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "transfer",
			Name:      "accepted_total",
			Help:      "Total accepted object migrations.",
		})

		p.rejects = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "transfer",
			Name:      "rejected_total",
			Help:      "Total candidate migrations rejected by the criterion.",
		})

		p.ignoredRanks = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "transfer",
			Name:      "ignored_ranks_total",
			Help:      "Total ranks skipped because they learned of no peer.",
		})

		p.reg.MustRegister(
			p.stateTransitions,
			p.iterations,
			p.iterationDuration,
			p.imbalance,
			p.ranks,
			p.objects,
			p.gossipMessages,
			p.gossipRounds,
			p.transfers,
			p.rejects,
			p.ignoredRanks,
		)
	})
}

// RecordStateTransition increments the transition counter.
func (p *PrometheusCollector) RecordStateTransition(from, to types.State) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordIteration counts an iteration, observes its duration and sets the imbalance gauge.
func (p *PrometheusCollector) RecordIteration(imbalance float64, duration float64) {
	p.ensureRegistered()
	p.iterations.Inc()
	p.iterationDuration.Observe(duration)
	p.imbalance.Set(imbalance)
}

// RecordPopulation sets the population size gauges.
func (p *PrometheusCollector) RecordPopulation(ranks, objects int) {
	p.ensureRegistered()
	p.ranks.Set(float64(ranks))
	p.objects.Set(float64(objects))
}

// RecordGossipRound counts one round and the messages it sent.
func (p *PrometheusCollector) RecordGossipRound(round int, messages int) {
	p.ensureRegistered()
	p.gossipRounds.Inc()
	p.gossipMessages.WithLabelValues(strconv.Itoa(round)).Add(float64(messages))
}

// RecordTransferPhase adds the phase counts to the transfer counters.
func (p *PrometheusCollector) RecordTransferPhase(transfers, rejects, ignored int) {
	p.ensureRegistered()
	p.transfers.Add(float64(transfers))
	p.rejects.Add(float64(rejects))
	p.ignoredRanks.Add(float64(ignored))
}
