package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundRobin_Place(t *testing.T) {
	t.Run("distributes objects evenly across ranks", func(t *testing.T) {
		s := NewRoundRobin()
		placed, err := s.Place(rankIDs(3), equalObjects(9, 1))

		require.NoError(t, err)
		require.Len(t, placed, 3)
		require.Len(t, placed[0], 3)
		require.Len(t, placed[1], 3)
		require.Len(t, placed[2], 3)
	})

	t.Run("handles uneven distribution", func(t *testing.T) {
		s := NewRoundRobin()
		placed, err := s.Place(rankIDs(2), equalObjects(5, 1))

		require.NoError(t, err)
		require.Len(t, placed[0], 3)
		require.Len(t, placed[1], 2)
	})

	t.Run("deals in input order", func(t *testing.T) {
		s := NewRoundRobin()
		objects := makeObjects(1, 2, 3, 4)
		placed, err := s.Place(rankIDs(2), objects)

		require.NoError(t, err)
		require.Equal(t, objects[0], placed[0][0])
		require.Equal(t, objects[1], placed[1][0])
		require.Equal(t, objects[2], placed[0][1])
	})
}
