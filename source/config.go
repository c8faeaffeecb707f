package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Workload kinds accepted by Config.Kind.
const (
	KindSynthetic = "synthetic"
	KindReplay    = "replay"
)

// ReplayConfig locates recorded per-rank files.
type ReplayConfig struct {
	// Dir is the directory holding the record files.
	Dir string `yaml:"dir"`

	// Stem is the file name stem; rank r reads "<stem>.<r>.vom".
	Stem string `yaml:"stem"`

	// Ranks is the number of rank files.
	Ranks int `yaml:"ranks"`

	// Phase selects the records to load.
	Phase int `yaml:"phase"`
}

// Config selects and configures the workload source.
type Config struct {
	// Kind is KindSynthetic (default) or KindReplay.
	Kind string `yaml:"kind"`

	// Synthetic is used when Kind is KindSynthetic.
	Synthetic SyntheticConfig `yaml:"synthetic"`

	// Replay is used when Kind is KindReplay.
	Replay ReplayConfig `yaml:"replay"`
}

// FromConfig builds the population source described by cfg.
//
// Parameters:
//   - cfg: Workload configuration
//   - logger: Logger for the source (nil allowed)
//
// Returns:
//   - types.PopulationSource: Configured source
//   - error: types.ErrInvalidConfig for unknown kinds or invalid settings
func FromConfig(cfg Config, logger types.Logger) (types.PopulationSource, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindSynthetic:
		return NewSynthetic(cfg.Synthetic, WithLogger(logger))
	case KindReplay:
		if cfg.Replay.Stem == "" {
			return nil, fmt.Errorf("%w: replay stem is required", types.ErrInvalidConfig)
		}
		dir := cfg.Replay.Dir
		if dir == "" {
			dir = "."
		}

		return NewReplay(os.DirFS(dir), cfg.Replay.Stem, cfg.Replay.Ranks, cfg.Replay.Phase, WithReplayLogger(logger)), nil
	default:
		return nil, fmt.Errorf("%w: unknown workload kind %q", types.ErrInvalidConfig, cfg.Kind)
	}
}
