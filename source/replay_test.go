package source

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

func replayFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}

	return fsys
}

func TestReplay_Populate(t *testing.T) {
	fsys := replayFS(map[string]string{
		"data/lb.0.vom": "# phase object time\n0,0,1.5\n0,1,2.5\n0 0 2 3.0\n1,9,100\n",
		"data/lb.1.vom": "0, 2, 4.0\n\n0\t3\t0.5\n1,2,3,9\n",
	})

	pop, err := NewReplay(fsys, "data/lb", 2, 0).Populate(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, pop.NumRanks())
	require.Equal(t, 4, pop.NumObjects())
	require.Equal(t, []float64{4.0, 4.5}, pop.LoadDistribution())
	require.Nil(t, pop.Object(9), "records of other phases are skipped")

	require.NoError(t, pop.CheckCommunication())
	require.Equal(t, 3.0, pop.Object(0).Communicator().Sent[2])
	require.Equal(t, 3.0, pop.Object(2).Communicator().Received[0])
	require.Nil(t, pop.Object(1).Communicator())
	require.Equal(t, map[types.EdgeKey]float64{{From: 0, To: 1}: 3.0}, pop.Edges())
	require.Equal(t, types.RankID(1), pop.Object(3).SourceRank())
}

func TestReplay_SelectsPhase(t *testing.T) {
	fsys := replayFS(map[string]string{
		"lb.0.vom": "0,0,1\n1,0,7\n",
		"lb.1.vom": "1,1,3\n",
	})

	pop, err := NewReplay(fsys, "lb", 2, 1).Populate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []float64{7, 3}, pop.LoadDistribution())
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		target   error
		contains string
	}{
		{
			name:     "missing file",
			files:    map[string]string{"lb.0.vom": "0,0,1\n"},
			target:   types.ErrInvalidConfig,
			contains: "lb.1.vom",
		},
		{
			name:     "wrong field count",
			files:    map[string]string{"lb.0.vom": "0,0\n", "lb.1.vom": ""},
			target:   types.ErrMalformedRecord,
			contains: "lb.0.vom:1",
		},
		{
			name:     "bad time",
			files:    map[string]string{"lb.0.vom": "0,0,1\n0,1,abc\n", "lb.1.vom": ""},
			target:   types.ErrMalformedRecord,
			contains: "lb.0.vom:2",
		},
		{
			name:     "negative time",
			files:    map[string]string{"lb.0.vom": "0,0,-1\n", "lb.1.vom": ""},
			target:   types.ErrMalformedRecord,
			contains: "invalid time",
		},
		{
			name:     "bad phase",
			files:    map[string]string{"lb.0.vom": "", "lb.1.vom": "x,0,1\n"},
			target:   types.ErrMalformedRecord,
			contains: "lb.1.vom:1",
		},
		{
			name:     "edge to unknown object",
			files:    map[string]string{"lb.0.vom": "0,0,1\n0,0,5,1\n", "lb.1.vom": ""},
			target:   types.ErrMalformedRecord,
			contains: "unknown objects",
		},
		{
			name:     "duplicate object",
			files:    map[string]string{"lb.0.vom": "0,0,1\n", "lb.1.vom": "0,0,2\n"},
			target:   types.ErrInvalidConfig,
			contains: "lb.1.vom:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReplay(replayFS(tt.files), "lb", 2, 0).Populate(context.Background())
			require.ErrorIs(t, err, tt.target)
			require.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestReplay_InvalidSetup(t *testing.T) {
	_, err := NewReplay(nil, "lb", 2, 0).Populate(context.Background())
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	_, err = NewReplay(replayFS(nil), "lb", 0, 0).Populate(context.Background())
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestFromConfig(t *testing.T) {
	src, err := FromConfig(Config{Synthetic: DefaultSyntheticConfig()}, nil)
	require.NoError(t, err)
	require.IsType(t, &Synthetic{}, src)

	src, err = FromConfig(Config{Kind: KindReplay, Replay: ReplayConfig{Dir: t.TempDir(), Stem: "lb", Ranks: 2}}, nil)
	require.NoError(t, err)
	require.IsType(t, &Replay{}, src)

	_, err = FromConfig(Config{Kind: KindReplay}, nil)
	require.ErrorIs(t, err, types.ErrInvalidConfig)

	_, err = FromConfig(Config{Kind: "trace"}, nil)
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}
