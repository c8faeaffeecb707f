package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/strategy"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

func TestSynthetic_Populate(t *testing.T) {
	t.Run("generates the configured population", func(t *testing.T) {
		cfg := DefaultSyntheticConfig()
		cfg.Objects = 100
		cfg.Ranks = 6
		cfg.Seed = 11

		src, err := NewSynthetic(cfg)
		require.NoError(t, err)

		pop, err := src.Populate(context.Background())
		require.NoError(t, err)
		require.Equal(t, 6, pop.NumRanks())
		require.Equal(t, 100, pop.NumObjects())
		require.NoError(t, pop.CheckOwnership())

		for _, o := range pop.Objects() {
			require.Greater(t, o.Load(), 0.0)
			require.Nil(t, o.Communicator())
		}
	})

	t.Run("same seed is reproducible", func(t *testing.T) {
		cfg := DefaultSyntheticConfig()
		cfg.Seed = 5
		cfg.CommunicationDegree = 2

		a, err := NewSynthetic(cfg)
		require.NoError(t, err)
		b, err := NewSynthetic(cfg)
		require.NoError(t, err)

		popA, err := a.Populate(context.Background())
		require.NoError(t, err)
		popB, err := b.Populate(context.Background())
		require.NoError(t, err)

		require.Equal(t, popA.LoadDistribution(), popB.LoadDistribution())
		require.Equal(t, popA.Edges(), popB.Edges())
	})

	t.Run("mapped ranks leave the rest empty", func(t *testing.T) {
		cfg := DefaultSyntheticConfig()
		cfg.Ranks = 8
		cfg.MappedRanks = 2
		cfg.Placement = strategy.NameRoundRobin

		src, err := NewSynthetic(cfg)
		require.NoError(t, err)
		pop, err := src.Populate(context.Background())
		require.NoError(t, err)

		loads := pop.LoadDistribution()
		require.Greater(t, loads[0], 0.0)
		require.Greater(t, loads[1], 0.0)
		for _, l := range loads[2:] {
			require.Zero(t, l)
		}
		require.Equal(t, cfg.Objects/2, pop.Ranks()[0].NumObjects())
	})

	t.Run("communication is symmetric with the requested degree", func(t *testing.T) {
		cfg := DefaultSyntheticConfig()
		cfg.Objects = 30
		cfg.CommunicationDegree = 3
		cfg.Volume = SamplerSpec{Name: stats.DistributionUniform, Parameters: []float64{1, 4}}

		src, err := NewSynthetic(cfg)
		require.NoError(t, err)
		pop, err := src.Populate(context.Background())
		require.NoError(t, err)
		require.NoError(t, pop.CheckCommunication())

		for _, o := range pop.Objects() {
			comm := o.Communicator()
			require.NotNil(t, comm)
			require.LessOrEqual(t, len(comm.Sent), 3)
			require.NotContains(t, comm.Sent, o.ID())

			total := 0.0
			for _, v := range comm.Sent {
				total += v
			}
			require.InDelta(t, 7.5, total, 4.5)
		}
	})

	t.Run("custom placement strategy", func(t *testing.T) {
		cfg := DefaultSyntheticConfig()
		cfg.Objects = 10
		cfg.Ranks = 3

		src, err := NewSynthetic(cfg, WithPlacement(strategy.NewRoundRobin()))
		require.NoError(t, err)
		pop, err := src.Populate(context.Background())
		require.NoError(t, err)
		require.Equal(t, 4, pop.Ranks()[0].NumObjects())
		require.Equal(t, 3, pop.Ranks()[2].NumObjects())
	})

	t.Run("honors cancellation", func(t *testing.T) {
		src, err := NewSynthetic(DefaultSyntheticConfig())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = src.Populate(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewSynthetic_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SyntheticConfig)
		target error
	}{
		{"no objects", func(c *SyntheticConfig) { c.Objects = 0 }, types.ErrInvalidConfig},
		{"no ranks", func(c *SyntheticConfig) { c.Ranks = 0 }, types.ErrInvalidConfig},
		{"too many mapped ranks", func(c *SyntheticConfig) { c.MappedRanks = c.Ranks + 1 }, types.ErrInvalidConfig},
		{"negative degree", func(c *SyntheticConfig) { c.CommunicationDegree = -1 }, types.ErrInvalidConfig},
		{"unknown time distribution", func(c *SyntheticConfig) { c.Time.Name = "gamma" }, types.ErrUnsupportedDistribution},
		{"bad time parameters", func(c *SyntheticConfig) { c.Time.Parameters = []float64{1} }, types.ErrInvalidSamplerParameters},
		{"missing volume sampler", func(c *SyntheticConfig) {
			c.CommunicationDegree = 1
			c.Volume = SamplerSpec{}
		}, types.ErrUnsupportedDistribution},
		{"unknown placement", func(c *SyntheticConfig) { c.Placement = "block" }, types.ErrUnknownPlacement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSyntheticConfig()
			tt.mutate(&cfg)

			_, err := NewSynthetic(cfg)
			require.ErrorIs(t, err, tt.target)
			require.True(t, types.IsRetryable(err))
		})
	}
}

func TestSynthetic_VolumeIgnoredWithoutCommunication(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	cfg.Volume = SamplerSpec{}

	_, err := NewSynthetic(cfg)
	require.NoError(t, err)
}
