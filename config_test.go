package lbaf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/source"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 4, cfg.Balancing.Iterations)
	require.Equal(t, 4, cfg.Balancing.Rounds)
	require.Equal(t, 2, cfg.Balancing.Fanout)
	require.Equal(t, 1.0, cfg.Balancing.Threshold)
	require.Equal(t, "underload", cfg.Balancing.PMF)
	require.Equal(t, "load_threshold", cfg.Balancing.Criterion)
	require.Equal(t, 30.0, cfg.Balancing.TrendAge)
	require.Equal(t, source.KindSynthetic, cfg.Workload.Kind)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, ":9090", cfg.Metrics.Address)
	require.Equal(t, "lbaf-history", cfg.Export.Bucket)
	require.Equal(t, 10*time.Second, cfg.Export.OperationTimeout)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, 1, cfg.Workers)
		require.Equal(t, 4, cfg.Balancing.Iterations)
		require.Equal(t, "underload", cfg.Balancing.PMF)
		require.Equal(t, source.KindSynthetic, cfg.Workload.Kind)
		require.Equal(t, 64, cfg.Workload.Synthetic.Objects)
		require.Equal(t, "random", cfg.Workload.Synthetic.Placement)
		require.NoError(t, cfg.Validate())
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			Seed:    9,
			Workers: 4,
			Balancing: BalancingConfig{
				Iterations:          7,
				Rounds:              3,
				Fanout:              5,
				Threshold:           1.2,
				PMF:                 "relative_to_max",
				Criterion:           "min_max_work",
				CommunicationWeight: 0.5,
				TrendAge:            5,
			},
		}
		SetDefaults(&cfg)

		require.Equal(t, uint64(9), cfg.Seed)
		require.Equal(t, 4, cfg.Workers)
		require.Equal(t, 7, cfg.Balancing.Iterations)
		require.Equal(t, 3, cfg.Balancing.Rounds)
		require.Equal(t, 5, cfg.Balancing.Fanout)
		require.Equal(t, 1.2, cfg.Balancing.Threshold)
		require.Equal(t, "relative_to_max", cfg.Balancing.PMF)
		require.Equal(t, "min_max_work", cfg.Balancing.Criterion)
		require.Equal(t, 0.5, cfg.Balancing.CommunicationWeight)
		require.Equal(t, 5.0, cfg.Balancing.TrendAge)
	})

	t.Run("leaves replay workload alone", func(t *testing.T) {
		cfg := Config{Workload: source.Config{Kind: source.KindReplay}}
		SetDefaults(&cfg)

		require.Zero(t, cfg.Workload.Synthetic.Objects)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Balancing.Iterations = 0 }},
		{"zero rounds", func(c *Config) { c.Balancing.Rounds = 0 }},
		{"negative fanout", func(c *Config) { c.Balancing.Fanout = -1 }},
		{"zero threshold", func(c *Config) { c.Balancing.Threshold = 0 }},
		{"unknown pmf", func(c *Config) { c.Balancing.PMF = "overload" }},
		{"unknown criterion", func(c *Config) { c.Balancing.Criterion = "telepathy" }},
		{"negative communication weight", func(c *Config) { c.Balancing.CommunicationWeight = -0.1 }},
		{"trend age below one", func(c *Config) { c.Balancing.TrendAge = 0.5 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.True(t, IsRetryable(err))
		})
	}
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	logger := logging.NewTest(t)

	cfg := DefaultConfig()
	cfg.Balancing.Threshold = 0.8
	cfg.Balancing.Criterion = "min_max_work"
	cfg.ValidateWithWarnings(logger)

	require.Len(t, logger.Entries(), 2)

	quiet := logging.NewTest(t)
	def := DefaultConfig()
	def.ValidateWithWarnings(quiet)
	require.Empty(t, quiet.Entries())
}

func TestParseConfig(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		data := []byte(`
seed: 42
workers: 4
balancing:
  iterations: 8
  rounds: 3
  fanout: 3
  threshold: 1.1
  pmf: relative_to_max
  criterion: relaxed_localizing
  trendAge: 10
workload:
  kind: synthetic
  synthetic:
    objects: 100
    ranks: 10
    mappedRanks: 2
    time: {name: uniform, parameters: [0.5, 1.5]}
    communicationDegree: 2
    placement: round_robin
logging:
  level: warn
metrics:
  enabled: true
  namespace: sim
export:
  jsonPath: out.json
  natsUrl: nats://127.0.0.1:4222
  ttl: 1h
`)
		cfg, err := ParseConfig(data)
		require.NoError(t, err)

		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, 4, cfg.Workers)
		require.Equal(t, 8, cfg.Balancing.Iterations)
		require.Equal(t, "relative_to_max", cfg.Balancing.PMF)
		require.Equal(t, "relaxed_localizing", cfg.Balancing.Criterion)
		require.Equal(t, 10.0, cfg.Balancing.TrendAge)
		require.Equal(t, 100, cfg.Workload.Synthetic.Objects)
		require.Equal(t, 2, cfg.Workload.Synthetic.MappedRanks)
		require.Equal(t, "uniform", cfg.Workload.Synthetic.Time.Name)
		require.Equal(t, []float64{0.5, 1.5}, cfg.Workload.Synthetic.Time.Parameters)
		require.Equal(t, "lognormal", cfg.Workload.Synthetic.Volume.Name, "unset sampler takes the default")
		require.Equal(t, "round_robin", cfg.Workload.Synthetic.Placement)
		require.Equal(t, "warn", cfg.Logging.Level)
		require.True(t, cfg.Metrics.Enabled)
		require.Equal(t, "sim", cfg.Metrics.Namespace)
		require.Equal(t, ":9090", cfg.Metrics.Address)
		require.Equal(t, "out.json", cfg.Export.JSONPath)
		require.Equal(t, time.Hour, cfg.Export.TTL)
		require.Equal(t, "lbaf-history", cfg.Export.Bucket)

		params, err := cfg.Balancing.Parameters()
		require.NoError(t, err)
		require.Equal(t, PMFRelativeToMax, params.PMF)
		require.Equal(t, 8, params.Iterations)
	})

	t.Run("empty document yields defaults", func(t *testing.T) {
		cfg, err := ParseConfig(nil)
		require.NoError(t, err)

		want := DefaultConfig()
		require.Equal(t, &want, cfg)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := ParseConfig([]byte("balancing:\n  iteratons: 3\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := ParseConfig([]byte("balancing:\n  criterion: nope\n"))
		require.ErrorIs(t, err, ErrUnknownCriterion)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lbaf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 3\nbalancing:\n  iterations: 2\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, uint64(3), cfg.Seed)
	require.Equal(t, 2, cfg.Balancing.Iterations)
	require.Equal(t, 4, cfg.Balancing.Rounds)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 2, cfg.Balancing.Iterations)
	require.Equal(t, 16, cfg.Workload.Synthetic.Objects)
	require.Equal(t, 4, cfg.Workload.Synthetic.Ranks)
}
