package source

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/rng"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/stats"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/strategy"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Stream keys of the synthetic generator, disjoint from rank ids.
const (
	streamTime uint64 = 1<<62 + iota
	streamVolume
	streamPartners
)

// SamplerSpec names a distribution and its parameters.
type SamplerSpec struct {
	// Name is the distribution name ("uniform" or "lognormal").
	Name string `yaml:"name"`

	// Parameters are passed to stats.NewSampler.
	Parameters []float64 `yaml:"parameters,flow"`
}

// SyntheticConfig describes a generated workload.
type SyntheticConfig struct {
	// Objects is the number of objects to generate.
	Objects int `yaml:"objects"`

	// Ranks is the number of ranks in the population.
	Ranks int `yaml:"ranks"`

	// MappedRanks limits initial placement to the first MappedRanks ranks,
	// leaving the others empty. 0 uses every rank.
	MappedRanks int `yaml:"mappedRanks"`

	// Time samples object loads.
	Time SamplerSpec `yaml:"time"`

	// Volume samples communication weights. Required when CommunicationDegree > 0.
	Volume SamplerSpec `yaml:"volume"`

	// CommunicationDegree is the number of partners each object sends to.
	CommunicationDegree int `yaml:"communicationDegree"`

	// Placement names the initial placement strategy (see package strategy).
	Placement string `yaml:"placement"`

	// Seed drives every random draw of the generator.
	Seed uint64 `yaml:"seed"`
}

// DefaultSyntheticConfig returns a small lognormal workload on 8 ranks.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Objects:   64,
		Ranks:     8,
		Time:      SamplerSpec{Name: stats.DistributionLognormal, Parameters: []float64{1.0, 0.25}},
		Volume:    SamplerSpec{Name: stats.DistributionLognormal, Parameters: []float64{1.0, 0.25}},
		Placement: strategy.NameRandom,
	}
}

// Synthetic generates populations from samplers.
type Synthetic struct {
	cfg       SyntheticConfig
	placement types.PlacementStrategy
	logger    types.Logger
}

var _ types.PopulationSource = (*Synthetic)(nil)

// SyntheticOption configures a Synthetic source.
type SyntheticOption func(*Synthetic)

// WithPlacement overrides the placement strategy named in the config.
func WithPlacement(s types.PlacementStrategy) SyntheticOption {
	return func(syn *Synthetic) {
		syn.placement = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) SyntheticOption {
	return func(syn *Synthetic) {
		if logger != nil {
			syn.logger = logger
		}
	}
}

// NewSynthetic validates cfg and creates a synthetic source.
//
// Parameters:
//   - cfg: Workload description
//   - opts: Optional settings (WithPlacement, WithLogger)
//
// Returns:
//   - *Synthetic: Source ready to populate
//   - error: types.ErrInvalidConfig (or a more specific configuration error) for invalid input
//
// Example:
//
//	cfg := source.DefaultSyntheticConfig()
//	cfg.CommunicationDegree = 2
//	src, err := source.NewSynthetic(cfg)
func NewSynthetic(cfg SyntheticConfig, opts ...SyntheticOption) (*Synthetic, error) {
	s := &Synthetic{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	if s.placement == nil {
		p, err := strategy.New(cfg.Placement, cfg.Seed, s.logger)
		if err != nil {
			return nil, err
		}
		s.placement = p
	}

	return s, nil
}

func (s *Synthetic) validate() error {
	c := s.cfg
	if c.Objects < 1 {
		return fmt.Errorf("%w: objects must be >= 1, got %d", types.ErrInvalidConfig, c.Objects)
	}
	if c.Ranks < 1 {
		return fmt.Errorf("%w: ranks must be >= 1, got %d", types.ErrInvalidConfig, c.Ranks)
	}
	if c.MappedRanks < 0 || c.MappedRanks > c.Ranks {
		return fmt.Errorf("%w: mapped ranks must be in [0, %d], got %d", types.ErrInvalidConfig, c.Ranks, c.MappedRanks)
	}
	if c.CommunicationDegree < 0 {
		return fmt.Errorf("%w: communication degree must be >= 0, got %d", types.ErrInvalidConfig, c.CommunicationDegree)
	}

	// Build throwaway samplers to surface parameter errors eagerly.
	if _, _, err := stats.NewSampler(c.Time.Name, c.Time.Parameters, rand.NewPCG(0, 0)); err != nil {
		return fmt.Errorf("time sampler: %w", err)
	}
	if c.CommunicationDegree > 0 {
		if _, _, err := stats.NewSampler(c.Volume.Name, c.Volume.Parameters, rand.NewPCG(0, 0)); err != nil {
			return fmt.Errorf("volume sampler: %w", err)
		}
	}

	return nil
}

// Populate generates a new population.
//
// The same config always yields the same population.
//
// Returns:
//   - *types.Population: Generated population
//   - error: Context or placement error
func (s *Synthetic) Populate(ctx context.Context) (*types.Population, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := s.cfg
	drawTime, meanTime, err := stats.NewSampler(c.Time.Name, c.Time.Parameters, rng.NewSource(c.Seed, streamTime))
	if err != nil {
		return nil, err
	}

	objects := make([]*types.Object, c.Objects)
	for i := range objects {
		objects[i] = types.NewObject(types.ObjectID(i), drawTime(), nil)
	}

	if c.CommunicationDegree > 0 && c.Objects > 1 {
		if err := s.connect(objects); err != nil {
			return nil, err
		}
	}

	ranks := make([]*types.Rank, c.Ranks)
	ids := make([]types.RankID, c.Ranks)
	for i := range ranks {
		ranks[i] = types.NewRank(types.RankID(i))
		ids[i] = types.RankID(i)
	}
	pop, err := types.NewPopulation(ranks)
	if err != nil {
		return nil, err
	}

	mapped := ids
	if c.MappedRanks > 0 {
		mapped = ids[:c.MappedRanks]
	}
	placed, err := s.placement.Place(mapped, objects)
	if err != nil {
		return nil, err
	}
	for _, id := range mapped {
		for _, o := range placed[id] {
			if err := pop.Assign(o, id, false); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("synthetic population generated",
		"objects", pop.NumObjects(),
		"ranks", pop.NumRanks(),
		"mapped_ranks", len(mapped),
		"expected_object_load", meanTime,
	)

	return pop, nil
}

// connect draws CommunicationDegree distinct-from-self partners per object.
func (s *Synthetic) connect(objects []*types.Object) error {
	c := s.cfg
	drawVolume, _, err := stats.NewSampler(c.Volume.Name, c.Volume.Parameters, rng.NewSource(c.Seed, streamVolume))
	if err != nil {
		return err
	}
	partners := rand.New(rng.NewSource(c.Seed, streamPartners))

	comms := make([]*types.ObjectCommunicator, len(objects))
	for i, o := range objects {
		comms[i] = types.NewObjectCommunicator()
		o.SetCommunicator(comms[i])
	}

	n := len(objects)
	for i := range objects {
		for range c.CommunicationDegree {
			// Shift past i so the draw is uniform over the other n-1 objects.
			j := partners.IntN(n - 1)
			if j >= i {
				j++
			}
			v := drawVolume()
			from, to := objects[i].ID(), objects[j].ID()
			comms[i].Sent[to] += v
			comms[j].Received[from] += v
		}
	}

	return nil
}
