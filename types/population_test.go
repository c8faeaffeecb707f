package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPopulation(t *testing.T, ranks int) *Population {
	t.Helper()

	rs := make([]*Rank, ranks)
	for i := range ranks {
		rs[i] = NewRank(RankID(i))
	}
	pop, err := NewPopulation(rs)
	require.NoError(t, err)

	return pop
}

func TestNewPopulation_RejectsDuplicateRanks(t *testing.T) {
	_, err := NewPopulation([]*Rank{NewRank(0), NewRank(0)})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPopulation_Assign(t *testing.T) {
	pop := newTestPopulation(t, 2)

	o := NewObject(7, 1.0, nil)
	require.NoError(t, pop.Assign(o, 1, false))
	require.Equal(t, RankID(1), o.Owner())
	require.Equal(t, RankID(1), o.SourceRank())

	require.ErrorIs(t, pop.Assign(NewObject(7, 1.0, nil), 0, false), ErrInvalidConfig)
	require.ErrorIs(t, pop.Assign(o, 0, false), ErrOwnership)
	require.ErrorIs(t, pop.Assign(NewObject(8, 1.0, nil), 5, false), ErrInvalidConfig)
}

func TestPopulation_MigrateConservesLoad(t *testing.T) {
	pop := newTestPopulation(t, 2)
	a := NewObject(1, 4, nil)
	b := NewObject(2, 6, nil)
	require.NoError(t, pop.Assign(a, 0, false))
	require.NoError(t, pop.Assign(b, 0, false))

	before := pop.TotalLoad()
	require.NoError(t, pop.Migrate(b, 0, 1))

	require.InDelta(t, before, pop.TotalLoad(), 1e-12)
	require.Equal(t, []float64{4, 6}, pop.LoadDistribution())
	require.Equal(t, RankID(1), b.Owner())
	require.Equal(t, RankID(0), b.SourceRank())
	require.NoError(t, pop.CheckOwnership())
}

func TestPopulation_MigrateRejectsWrongOwner(t *testing.T) {
	pop := newTestPopulation(t, 3)
	o := NewObject(1, 1, nil)
	require.NoError(t, pop.Assign(o, 0, false))

	require.ErrorIs(t, pop.Migrate(o, 2, 1), ErrOwnership)
	require.ErrorIs(t, pop.Migrate(o, 0, 9), ErrOwnership)
	require.Equal(t, RankID(0), o.Owner())
}

func TestPopulation_SentinelsNeverMigrate(t *testing.T) {
	pop := newTestPopulation(t, 2)
	s := NewObject(1, 1, nil)
	require.NoError(t, pop.Assign(s, 0, true))

	require.ErrorIs(t, pop.Migrate(s, 0, 1), ErrOwnership)
	require.NoError(t, pop.CheckOwnership())
}

func TestPopulation_EdgesInvalidatedByMigration(t *testing.T) {
	pop := newTestPopulation(t, 2)

	ca, cb := NewObjectCommunicator(), NewObjectCommunicator()
	ca.Sent[2] = 3.0
	cb.Received[1] = 3.0
	a := NewObject(1, 1, ca)
	b := NewObject(2, 1, cb)
	require.NoError(t, pop.Assign(a, 0, false))
	require.NoError(t, pop.Assign(b, 1, false))
	require.NoError(t, pop.CheckCommunication())

	require.Equal(t, map[EdgeKey]float64{{From: 0, To: 1}: 3.0}, pop.Edges())
	require.False(t, pop.EdgesStale())

	require.NoError(t, pop.Migrate(b, 1, 0))
	require.True(t, pop.EdgesStale())
	require.Empty(t, pop.Edges(), "co-located objects produce no inter-rank edge")
}

func TestPopulation_UndirectedEdges(t *testing.T) {
	pop := newTestPopulation(t, 2)

	ca, cb := NewObjectCommunicator(), NewObjectCommunicator()
	ca.Sent[2], cb.Received[1] = 1.0, 1.0
	cb.Sent[1], ca.Received[2] = 2.0, 2.0
	require.NoError(t, pop.Assign(NewObject(1, 1, ca), 0, false))
	require.NoError(t, pop.Assign(NewObject(2, 1, cb), 1, false))

	require.Equal(t, map[EdgeKey]float64{{From: 0, To: 1}: 3.0}, pop.UndirectedEdges())
}

func TestPopulation_CheckCommunicationDetectsAsymmetry(t *testing.T) {
	pop := newTestPopulation(t, 2)

	ca, cb := NewObjectCommunicator(), NewObjectCommunicator()
	ca.Sent[2] = 3.0
	cb.Received[1] = 2.0
	require.NoError(t, pop.Assign(NewObject(1, 1, ca), 0, false))
	require.NoError(t, pop.Assign(NewObject(2, 1, cb), 1, false))

	require.ErrorIs(t, pop.CheckCommunication(), ErrAsymmetricCommunication)
}

func TestPopulation_CloneIsIndependent(t *testing.T) {
	pop := newTestPopulation(t, 2)
	comm := NewObjectCommunicator()
	o := NewObject(1, 5, comm)
	require.NoError(t, pop.Assign(o, 0, false))
	require.NoError(t, pop.Assign(NewObject(2, 1, nil), 1, true))

	clone := pop.Clone()
	require.Equal(t, pop.LoadDistribution(), clone.LoadDistribution())
	require.NoError(t, clone.CheckOwnership())

	co := clone.Object(1)
	require.NotSame(t, o, co)
	require.NoError(t, clone.Migrate(co, 0, 1))

	require.Equal(t, []float64{5, 1}, pop.LoadDistribution())
	require.Equal(t, []float64{0, 6}, clone.LoadDistribution())

	r1, _ := clone.Rank(1)
	require.Len(t, r1.Sentinels(), 1)
}

func TestPopulation_AverageLoadEmpty(t *testing.T) {
	pop, err := NewPopulation(nil)
	require.NoError(t, err)
	require.Equal(t, 0.0, pop.AverageLoad())
}
