package report

import (
	"sync"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Entry is one report: a label and the statistics of the reported values.
type Entry struct {
	Label string      `json:"label"`
	Stats stats.Stats `json:"stats"`
}

// LogReporter logs the statistics of every reported distribution.
//
// It keeps the entries it produced so callers can inspect them after a run.
// Reporting never mutates the ranks.
type LogReporter struct {
	logger types.Logger

	mu      sync.Mutex
	entries []Entry
}

var _ types.Reporter = (*LogReporter)(nil)

// NewLogReporter creates a reporter that logs at Info level.
//
// Parameters:
//   - logger: Destination logger (nil discards output)
//
// Returns:
//   - *LogReporter: Reporter ready for lbaf.WithReporter
func NewLogReporter(logger types.Logger) *LogReporter {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &LogReporter{logger: logger}
}

// Report computes the statistics of accessor over ranks and logs them.
func (r *LogReporter) Report(ranks []*types.Rank, accessor func(*types.Rank) float64, label string) {
	st := stats.Compute(ranks, accessor)

	r.mu.Lock()
	r.entries = append(r.entries, Entry{Label: label, Stats: st})
	r.mu.Unlock()

	r.logger.Info(label,
		"n", st.N,
		"min", st.Min,
		"max", st.Max,
		"mean", st.Mean,
		"variance", st.Variance,
		"imbalance", st.Imbalance(),
		"skewness", st.Skewness,
		"kurtosis", st.Kurtosis,
	)
}

// Entries returns a copy of every report produced so far.
func (r *LogReporter) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Entry(nil), r.entries...)
}
