package testutil

import (
	"math"
	"testing"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// conservationTolerance is the relative error allowed when comparing load sums.
const conservationTolerance = 1e-9

// AssertConserved verifies that every load distribution in history sums to
// the same total as the first one.
//
// Parameters:
//   - t: testing handle
//   - history: rank load distribution per iteration (Runtime.LoadDistributions)
func AssertConserved(t testing.TB, history [][]float64) {
	t.Helper()

	if len(history) == 0 {
		return
	}

	want := sum(history[0])
	tolerance := conservationTolerance * math.Max(1, math.Abs(want))
	for i, loads := range history[1:] {
		if got := sum(loads); math.Abs(got-want) > tolerance {
			t.Fatalf("iteration %d total load %g differs from initial %g", i+1, got, want)
		}
	}
}

// AssertSingleOwnership verifies that every object lives on exactly one rank
// and that the expected number of objects is present.
//
// Parameters:
//   - t: testing handle
//   - pop: population to check
//   - expectedObjects: expected object count
func AssertSingleOwnership(t testing.TB, pop *types.Population, expectedObjects int) {
	t.Helper()

	if err := pop.CheckOwnership(); err != nil {
		t.Fatalf("ownership violated: %v", err)
	}

	total := 0
	for _, r := range pop.Ranks() {
		total += r.NumObjects() + len(r.Sentinels())
	}
	if total != expectedObjects {
		t.Fatalf("ranks hold %d objects, expected %d", total, expectedObjects)
	}
	if pop.NumObjects() != expectedObjects {
		t.Fatalf("population indexes %d objects, expected %d", pop.NumObjects(), expectedObjects)
	}
}

// AssertKnowledgeConsistent verifies that every rank's known-loaded set and
// known-loads map agree in size and never include the rank itself unless it
// was underloaded.
func AssertKnowledgeConsistent(t testing.TB, pop *types.Population) {
	t.Helper()

	for _, r := range pop.Ranks() {
		if err := r.CheckKnowledge(); err != nil {
			t.Fatalf("rank %d: %v", r.ID(), err)
		}
		if len(r.KnownLoaded()) != len(r.KnownLoads()) {
			t.Fatalf("rank %d knows %d ranks but %d loads", r.ID(), len(r.KnownLoaded()), len(r.KnownLoads()))
		}
	}
}

// AssertFanoutBounded verifies one rank's targets in one gossip round.
//
// A sender may address at most min(fanout, eligible) distinct ranks, where
// eligible is the number of peers it did not know yet, and never itself.
// The arguments after t match gossip.SendObserver so the assertion can be
// called straight from one.
//
// Parameters:
//   - t: testing handle
//   - fanout: configured gossip fanout
//   - round, sender, eligible, targets: as reported by gossip.SendObserver
func AssertFanoutBounded(t testing.TB, fanout, round int, sender types.RankID, eligible int, targets []types.RankID) {
	t.Helper()

	if bound := min(fanout, eligible); len(targets) > bound {
		t.Fatalf("round %d: rank %d sent %d messages, bound is %d", round, sender, len(targets), bound)
	}

	seen := make(map[types.RankID]struct{}, len(targets))
	for _, id := range targets {
		if id == sender {
			t.Fatalf("round %d: rank %d addressed itself", round, sender)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("round %d: rank %d addressed rank %d twice", round, sender, id)
		}
		seen[id] = struct{}{}
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}

	return total
}
