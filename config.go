package lbaf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/criterion"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/source"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// BalancingConfig controls the balancing loop.
type BalancingConfig struct {
	// Iterations is the number of gossip → transfer → snapshot cycles per Run.
	Iterations int `yaml:"iterations"`

	// Rounds is the maximum number of gossip rounds per iteration.
	Rounds int `yaml:"rounds"`

	// Fanout is the maximum number of peers a rank messages per round.
	Fanout int `yaml:"fanout"`

	// Threshold is the relative overload factor. A rank sheds load above
	// Threshold times the average load.
	Threshold float64 `yaml:"threshold"`

	// PMF selects the destination distribution ("underload" or "relative_to_max").
	PMF string `yaml:"pmf"`

	// Criterion names the transfer acceptance rule (see package criterion).
	Criterion string `yaml:"criterion"`

	// CommunicationWeight scales off-rank communication in work-based criteria.
	// Zero disables the communication term.
	CommunicationWeight float64 `yaml:"communicationWeight"`

	// TrendAge is the age, in iterations, of the moving average that smooths
	// the imbalance trend. The first iteration seeds the average.
	TrendAge float64 `yaml:"trendAge"`
}

// LoggingConfig configures the command-line logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns on metric collection.
	Enabled bool `yaml:"enabled"`

	// Address is the listen address of the /metrics endpoint (e.g. ":9090").
	Address string `yaml:"address"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}

// ExportConfig configures sinks for the finished history.
type ExportConfig struct {
	// JSONPath writes the history as JSON when set.
	JSONPath string `yaml:"jsonPath"`

	// NATSURL publishes the history to a JetStream KV bucket when set.
	NATSURL string `yaml:"natsUrl"`

	// Bucket is the KV bucket name.
	Bucket string `yaml:"bucket"`

	// TTL is how long exported entries remain in KV (0 = no expiration).
	TTL time.Duration `yaml:"ttl"`

	// OperationTimeout bounds each KV operation.
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// Config is the configuration of a Runtime and the command-line harness.
type Config struct {
	// Seed derives every random stream of the run.
	Seed uint64 `yaml:"seed"`

	// Workers bounds the goroutines used by each gossip phase (1 = sequential).
	// Results do not depend on it.
	Workers int `yaml:"workers"`

	// Balancing controls the balancing loop.
	Balancing BalancingConfig `yaml:"balancing"`

	// Workload selects the population source.
	Workload source.Config `yaml:"workload"`

	// Logging configures the logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// Export configures result sinks.
	Export ExportConfig `yaml:"export"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Seed:    0,
		Workers: 1,
		Balancing: BalancingConfig{
			Iterations:          4,
			Rounds:              4,
			Fanout:              2,
			Threshold:           1.0,
			PMF:                 types.PMFUnderload.String(),
			Criterion:           criterion.LoadThreshold.String(),
			CommunicationWeight: 0,
			TrendAge:            30,
		},
		Workload: source.Config{
			Kind:      source.KindSynthetic,
			Synthetic: source.DefaultSyntheticConfig(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Address:   ":9090",
			Namespace: "lbaf",
		},
		Export: ExportConfig{
			Bucket:           "lbaf-history",
			TTL:              0, // No TTL - history persists until deleted
			OperationTimeout: 10 * time.Second,
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.Balancing.Iterations == 0 {
		cfg.Balancing.Iterations = defaults.Balancing.Iterations
	}
	if cfg.Balancing.Rounds == 0 {
		cfg.Balancing.Rounds = defaults.Balancing.Rounds
	}
	if cfg.Balancing.Fanout == 0 {
		cfg.Balancing.Fanout = defaults.Balancing.Fanout
	}
	if cfg.Balancing.Threshold == 0 {
		cfg.Balancing.Threshold = defaults.Balancing.Threshold
	}
	if cfg.Balancing.PMF == "" {
		cfg.Balancing.PMF = defaults.Balancing.PMF
	}
	if cfg.Balancing.Criterion == "" {
		cfg.Balancing.Criterion = defaults.Balancing.Criterion
	}
	if cfg.Balancing.TrendAge == 0 {
		cfg.Balancing.TrendAge = defaults.Balancing.TrendAge
	}
	// Note: CommunicationWeight of 0 is valid (communication ignored), so we don't apply default

	if cfg.Workload.Kind == "" {
		cfg.Workload.Kind = defaults.Workload.Kind
	}
	if cfg.Workload.Kind == source.KindSynthetic {
		syn := &cfg.Workload.Synthetic
		if syn.Objects == 0 {
			syn.Objects = defaults.Workload.Synthetic.Objects
		}
		if syn.Ranks == 0 {
			syn.Ranks = defaults.Workload.Synthetic.Ranks
		}
		if syn.Time.Name == "" {
			syn.Time = defaults.Workload.Synthetic.Time
		}
		if syn.Volume.Name == "" {
			syn.Volume = defaults.Workload.Synthetic.Volume
		}
		if syn.Placement == "" {
			syn.Placement = defaults.Workload.Synthetic.Placement
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = defaults.Metrics.Address
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
	if cfg.Export.Bucket == "" {
		cfg.Export.Bucket = defaults.Export.Bucket
	}
	if cfg.Export.OperationTimeout == 0 {
		cfg.Export.OperationTimeout = defaults.Export.OperationTimeout
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - Iterations, Rounds, Fanout >= 1
//   - Threshold > 0
//   - PMF and Criterion resolve to known kinds
//   - CommunicationWeight >= 0
//   - TrendAge >= 1
//   - Workers >= 1
//   - Logging level is known
//
// Returns:
//   - error: Error wrapping types.ErrInvalidConfig with a clear explanation, nil if valid
func (cfg *Config) Validate() error {
	b := cfg.Balancing

	if b.Iterations < 1 {
		return fmt.Errorf("%w: Iterations must be >= 1, got %d", types.ErrInvalidConfig, b.Iterations)
	}
	if b.Rounds < 1 {
		return fmt.Errorf("%w: Rounds must be >= 1, got %d", types.ErrInvalidConfig, b.Rounds)
	}
	if b.Fanout < 1 {
		return fmt.Errorf("%w: Fanout must be >= 1, got %d", types.ErrInvalidConfig, b.Fanout)
	}
	if !(b.Threshold > 0) {
		return fmt.Errorf("%w: Threshold must be > 0, got %g", types.ErrInvalidConfig, b.Threshold)
	}
	if _, err := types.ParsePMFType(b.PMF); err != nil {
		return err
	}
	if _, err := criterion.ParseKind(b.Criterion); err != nil {
		return err
	}
	if b.CommunicationWeight < 0 {
		return fmt.Errorf("%w: CommunicationWeight must be >= 0, got %g", types.ErrInvalidConfig, b.CommunicationWeight)
	}
	if b.TrendAge < 1 {
		return fmt.Errorf("%w: TrendAge must be >= 1, got %g", types.ErrInvalidConfig, b.TrendAge)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("%w: Workers must be >= 1, got %d", types.ErrInvalidConfig, cfg.Workers)
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}

	return nil
}

// ValidateWithWarnings logs warnings for valid but unusual values.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	b := cfg.Balancing

	if b.Threshold < 1 {
		logger.Warn(
			"Threshold below 1 makes ranks under the average shed load",
			"threshold", b.Threshold,
		)
	}

	kind, err := criterion.ParseKind(b.Criterion)
	if err == nil && kind == criterion.MinMaxWork && b.CommunicationWeight == 0 {
		logger.Warn(
			"min_max_work without CommunicationWeight ignores communication",
			"criterion", b.Criterion,
		)
	}
}

// LoadConfig loads configuration from a YAML file.
//
// Unset fields take their defaults; the result is validated.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: Error if the file cannot be read, parsed or validated
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration, applies defaults and validates it.
//
// Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse config: %w", types.ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TestConfig returns a small, fast configuration for tests.
//
// Returns:
//   - Config: Two-iteration configuration over a 4-rank, 16-object workload
//
// Example:
//
//	cfg := lbaf.TestConfig()
//	cfg.Seed = 7
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Seed = 1
	cfg.Balancing.Iterations = 2
	cfg.Balancing.Rounds = 2
	cfg.Logging.Level = "debug"
	cfg.Workload.Synthetic.Objects = 16
	cfg.Workload.Synthetic.Ranks = 4

	return cfg
}
