package rng

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

func draws(s *Streams, id types.RankID, n int) []uint64 {
	r := s.For(id)
	out := make([]uint64, n)
	for i := range out {
		out[i] = r.Uint64()
	}

	return out
}

func TestStreams_SameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)

	require.Equal(t, draws(a, 3, 10), draws(b, 3, 10))
}

func TestStreams_RanksAreIndependent(t *testing.T) {
	s := New(42)

	require.NotEqual(t, draws(s, 0, 10), draws(s, 1, 10))
}

func TestStreams_DifferentSeedsDiffer(t *testing.T) {
	require.NotEqual(t, draws(New(1), 0, 10), draws(New(2), 0, 10))
}

func TestStreams_ForReturnsSameStream(t *testing.T) {
	s := New(7)

	require.Same(t, s.For(5), s.For(5))
}

func TestStreams_OrderOfCreationDoesNotMatter(t *testing.T) {
	a := New(9)
	a.Prepare([]types.RankID{0, 1, 2})

	b := New(9)
	b.Prepare([]types.RankID{2, 1, 0})

	for _, id := range []types.RankID{0, 1, 2} {
		require.Equal(t, draws(a, id, 5), draws(b, id, 5), "rank %d", id)
	}
}

func TestStreams_ConcurrentFor(t *testing.T) {
	s := New(11)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id types.RankID) {
			defer wg.Done()
			_ = s.For(id % 4)
		}(types.RankID(i))
	}
	wg.Wait()

	require.Len(t, s.streams, 4)
}
