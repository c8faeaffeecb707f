package gossip

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/metrics"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/rng"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

// Summary describes one information phase.
type Summary struct {
	// Rounds is the number of rounds in which at least one message was sent.
	Rounds int `json:"rounds"`

	// Messages holds the number of messages sent per executed round.
	Messages []int `json:"messages"`

	// Informed is the number of ranks that ended with non-empty knowledge.
	Informed int `json:"informed"`
}

// TotalMessages returns the number of messages sent over all rounds.
func (s Summary) TotalMessages() int {
	total := 0
	for _, m := range s.Messages {
		total += m
	}

	return total
}

// Observer is called after the receive phase of every executed round.
//
// It runs on the goroutine driving Run and must not mutate the ranks.
type Observer func(round int, ranks []*types.Rank)

// SendObserver is called once per rank, in rank order, after the send phase
// of every round. eligible is the number of peers the sender did not know
// when it chose targets, so len(targets) <= min(fanout, eligible).
type SendObserver func(round int, sender types.RankID, eligible int, targets []types.RankID)

// Protocol runs the information phase of a balancing iteration.
type Protocol struct {
	rounds   int
	fanout   int
	workers  int
	streams  *rng.Streams
	logger   types.Logger
	metrics  types.GossipMetrics
	observer Observer
	onSend   SendObserver
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithWorkers bounds the goroutines used per phase (values < 1 mean 1).
func WithWorkers(n int) Option {
	return func(p *Protocol) {
		p.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(p *Protocol) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the gossip metrics sink.
func WithMetrics(m types.GossipMetrics) Option {
	return func(p *Protocol) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithObserver installs a per-round observer.
func WithObserver(obs Observer) Option {
	return func(p *Protocol) {
		p.observer = obs
	}
}

// WithSendObserver installs an observer of every rank's chosen targets.
func WithSendObserver(obs SendObserver) Option {
	return func(p *Protocol) {
		p.onSend = obs
	}
}

// New creates a protocol.
//
// Parameters:
//   - rounds: Maximum number of rounds (>= 1)
//   - fanout: Maximum recipients per rank and round (>= 1)
//   - streams: Per-rank random streams
//   - opts: Optional settings
//
// Returns:
//   - *Protocol: Configured protocol
//   - error: types.ErrInvalidConfig for non-positive rounds or fanout
func New(rounds, fanout int, streams *rng.Streams, opts ...Option) (*Protocol, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("%w: gossip rounds must be >= 1, got %d", types.ErrInvalidConfig, rounds)
	}
	if fanout < 1 {
		return nil, fmt.Errorf("%w: gossip fanout must be >= 1, got %d", types.ErrInvalidConfig, fanout)
	}
	if streams == nil {
		return nil, fmt.Errorf("%w: random streams are required", types.ErrInvalidConfig)
	}

	p := &Protocol{
		rounds:  rounds,
		fanout:  fanout,
		workers: 1,
		streams: streams,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.workers = max(p.workers, 1)

	return p, nil
}

type outgoing struct {
	targets  []types.RankID
	msg      *types.Message
	eligible int
}

// Run resets all knowledge and executes up to the configured number of rounds.
//
// The run stops early once a round sends no message. Context cancellation is
// checked at the start of every round.
//
// Returns:
//   - Summary: Per-round message counts
//   - error: Context error or a protocol violation from Process
func (p *Protocol) Run(ctx context.Context, pop *types.Population, averageLoad float64) (Summary, error) {
	ranks := pop.Ranks()
	ids := pop.RankIDs()
	p.streams.Prepare(ids)

	for _, r := range ranks {
		r.ResetKnowledge()
	}

	summary := Summary{Messages: make([]int, 0, p.rounds)}
	for round := 1; round <= p.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		out, err := p.send(ctx, ranks, ids, round, averageLoad)
		if err != nil {
			return summary, err
		}

		sent, err := p.deliver(ctx, pop, out)
		if err != nil {
			return summary, err
		}
		if sent == 0 {
			p.logger.Debug("gossip converged early", "round", round)

			break
		}

		summary.Rounds++
		summary.Messages = append(summary.Messages, sent)
		p.metrics.RecordGossipRound(round, sent)
		p.logger.Debug("gossip round completed", "round", round, "messages", sent)

		if p.observer != nil {
			p.observer(round, ranks)
		}
	}

	for _, r := range ranks {
		if r.KnowledgeSize() > 0 {
			summary.Informed++
		}
	}

	return summary, nil
}

// send computes every rank's outgoing message from settled state.
func (p *Protocol) send(ctx context.Context, ranks []*types.Rank, ids []types.RankID, round int, averageLoad float64) ([]outgoing, error) {
	out := make([]outgoing, len(ranks))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, r := range ranks {
		g.Go(func() error {
			peers := peersOf(ids, i)
			stream := p.streams.For(r.ID())
			if round == 1 {
				out[i].targets, out[i].msg = Initialize(r, peers, averageLoad, p.fanout, stream)
			} else {
				out[i].targets, out[i].msg = Forward(r, round, peers, p.fanout, stream)
			}
			if p.onSend != nil {
				out[i].eligible = countUnknown(r, peers)
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if p.onSend != nil {
		for i, r := range ranks {
			p.onSend(round, r.ID(), out[i].eligible, out[i].targets)
		}
	}

	return out, nil
}

func countUnknown(r *types.Rank, peers []types.RankID) int {
	n := 0
	for _, id := range peers {
		if !r.Knows(id) {
			n++
		}
	}

	return n
}

// deliver groups messages by recipient in sender order and applies them.
func (p *Protocol) deliver(ctx context.Context, pop *types.Population, out []outgoing) (int, error) {
	inbox := make(map[types.RankID][]*types.Message)
	sent := 0
	for _, o := range out {
		for _, dst := range o.targets {
			inbox[dst] = append(inbox[dst], o.msg)
			sent++
		}
	}
	if sent == 0 {
		return 0, nil
	}

	recipients := make([]types.RankID, 0, len(inbox))
	for id := range inbox {
		recipients = append(recipients, id)
	}
	slices.Sort(recipients)

	// Resolve every recipient before any delivery so a bad address leaves
	// all ranks untouched.
	ranks := make([]*types.Rank, len(recipients))
	for i, id := range recipients {
		rank, ok := pop.Rank(id)
		if !ok {
			return sent, fmt.Errorf("%w: message addressed to unknown rank %d", types.ErrProtocolViolation, id)
		}
		ranks[i] = rank
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rank := range ranks {
		msgs := inbox[recipients[i]]
		g.Go(func() error {
			for _, msg := range msgs {
				if err := Process(rank, msg); err != nil {
					return err
				}
			}

			return nil
		})
	}

	return sent, g.Wait()
}

// peersOf returns every id except ids[self].
func peersOf(ids []types.RankID, self int) []types.RankID {
	peers := make([]types.RankID, 0, len(ids)-1)
	peers = append(peers, ids[:self]...)

	return append(peers, ids[self+1:]...)
}
