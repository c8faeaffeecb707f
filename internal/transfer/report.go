package transfer

// Report aggregates the outcome of one transfer phase.
type Report struct {
	// Ignored counts ranks that learned of no peer during gossip.
	Ignored int `json:"ignored"`

	// Skipped counts overloaded ranks whose destination distribution was
	// degenerate, and every rank when the average load is zero.
	Skipped int `json:"skipped"`

	// Transfers counts accepted migrations.
	Transfers int `json:"transfers"`

	// Rejects counts candidate migrations the criterion declined.
	Rejects int `json:"rejects"`
}

// RejectionRate returns rejects as a percentage of all evaluated candidates,
// 0 when nothing was evaluated.
func (r Report) RejectionRate() float64 {
	total := r.Transfers + r.Rejects
	if total == 0 {
		return 0
	}

	return 100 * float64(r.Rejects) / float64(total)
}
