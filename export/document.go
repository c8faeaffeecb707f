package export

import (
	lbaf "github.com/DARMA-tasking/LB-analysis-framework-sub001"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
)

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float = stats.Float

// Stats mirrors stats.Stats with null-safe moments.
type Stats struct {
	N        int   `json:"n"`
	Min      Float `json:"min"`
	Max      Float `json:"max"`
	Mean     Float `json:"mean"`
	Variance Float `json:"variance"`
	Skewness Float `json:"skewness"`
	Kurtosis Float `json:"kurtosis"`
}

func fromStats(s stats.Stats) Stats {
	return Stats{
		N:        s.N,
		Min:      Float(s.Min),
		Max:      Float(s.Max),
		Mean:     Float(s.Mean),
		Variance: Float(s.Variance),
		Skewness: Float(s.Skewness),
		Kurtosis: Float(s.Kurtosis),
	}
}

// Iteration is the exported record of one snapshot.
type Iteration struct {
	Iteration       int                 `json:"iteration"`
	Loads           []Float             `json:"loads"`
	Stats           Stats               `json:"stats"`
	Imbalance       Float               `json:"imbalance"`
	ImbalanceTrend  Float               `json:"imbalance_trend"`
	Gossip          lbaf.GossipSummary  `json:"gossip"`
	Transfer        lbaf.TransferReport `json:"transfer"`
	RejectionRate   Float               `json:"rejection_rate"`
	DurationSeconds float64             `json:"duration_seconds"`
}

// FromSnapshot converts a runtime snapshot.
func FromSnapshot(s lbaf.Snapshot) Iteration {
	return Iteration{
		Iteration:       s.Iteration,
		Loads:           floats(s.Loads),
		Stats:           fromStats(s.Stats),
		Imbalance:       Float(s.Stats.Imbalance()),
		ImbalanceTrend:  Float(s.ImbalanceTrend),
		Gossip:          s.Gossip,
		Transfer:        s.Transfer,
		RejectionRate:   Float(s.Transfer.RejectionRate()),
		DurationSeconds: s.DurationSeconds,
	}
}

// Document is the exported history of one run.
type Document struct {
	// RunID names the run in the KV bucket.
	RunID string `json:"run_id"`

	Seed        uint64 `json:"seed"`
	Criterion   string `json:"criterion"`
	Ranks       int    `json:"ranks"`
	Objects     int    `json:"objects"`
	AverageLoad Float  `json:"average_load"`

	// IterationCount is the number of iterations after iteration 0.
	IterationCount int `json:"iteration_count"`

	// Statistics maps metric name to values ordered by iteration.
	Statistics map[string][]Float `json:"statistics"`

	// LoadDistributions holds the rank loads of every iteration.
	LoadDistributions [][]Float `json:"load_distributions"`

	// Iterations holds one record per snapshot, starting with iteration 0.
	Iterations []Iteration `json:"iterations,omitempty"`
}

// FromRuntime builds the document of a runtime's current history.
//
// Parameters:
//   - runID: Identifier of the run (see ValidateRunID for KV publishing)
//   - rt: Runtime, typically after Run completed
//
// Returns:
//   - Document: Exportable history
func FromRuntime(runID string, rt *lbaf.Runtime) Document {
	history := rt.History()
	pop := rt.Population()

	doc := Document{
		RunID:             runID,
		Seed:              rt.Config().Seed,
		Criterion:         rt.Criterion().Name(),
		Ranks:             pop.NumRanks(),
		Objects:           pop.NumObjects(),
		AverageLoad:       Float(rt.AverageLoad()),
		IterationCount:    len(history) - 1,
		Statistics:        make(map[string][]Float),
		LoadDistributions: make([][]Float, len(history)),
		Iterations:        make([]Iteration, len(history)),
	}
	for name, values := range rt.Statistics() {
		doc.Statistics[name] = floats(values)
	}
	for i, snap := range history {
		doc.LoadDistributions[i] = floats(snap.Loads)
		doc.Iterations[i] = FromSnapshot(snap)
	}

	return doc
}

func floats(values []float64) []Float {
	out := make([]Float, len(values))
	for i, v := range values {
		out[i] = Float(v)
	}

	return out
}
