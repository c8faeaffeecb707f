package export

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/kvutil"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/natsutil"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/types"
)

const (
	summarySuffix   = ".run"
	iterationInfix  = ".iteration."
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
)

// PublisherConfig configures the history bucket.
type PublisherConfig struct {
	// Bucket is the KV bucket name.
	Bucket string

	// TTL is how long entries remain (0 = no expiration).
	TTL time.Duration

	// OperationTimeout bounds each KV operation (default 10s).
	OperationTimeout time.Duration
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets the publisher logger.
func WithLogger(logger types.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Publisher stores run histories in a JetStream KV bucket.
//
// Publisher is safe for concurrent use by multiple goroutines.
type Publisher struct {
	kv      jetstream.KeyValue
	timeout time.Duration
	logger  types.Logger
}

// NewPublisher opens (or creates) the history bucket.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - nc: Connected NATS client
//   - cfg: Bucket configuration
//   - opts: Optional logger
//
// Returns:
//   - *Publisher: Ready publisher
//   - error: ErrUnavailable when NATS cannot be reached, configuration error for an empty bucket name
//
// Example:
//
//	nc, _ := nats.Connect(cfg.Export.NATSURL)
//	pub, err := export.NewPublisher(ctx, nc, export.PublisherConfig{Bucket: "lbaf-history"})
//	if err != nil {
//	    return err
//	}
//	err = pub.Publish(ctx, export.FromRuntime("seed-7", rt))
func NewPublisher(ctx context.Context, nc *nats.Conn, cfg PublisherConfig, opts ...PublisherOption) (*Publisher, error) {
	if nc == nil {
		return nil, fmt.Errorf("%w: NATS connection is required", types.ErrInvalidConfig)
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket name is required", types.ErrInvalidConfig)
	}

	p := &Publisher{
		timeout: cfg.OperationTimeout,
		logger:  logging.NewNop(),
	}
	if p.timeout <= 0 {
		p.timeout = defaultTimeout
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get JetStream context: %w", err))
	}

	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	kv, err := kvutil.EnsureBucket(opCtx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "Load balancing run histories",
		TTL:         cfg.TTL,
		History:     1,
	}, defaultAttempts)
	if err != nil {
		return nil, classify(err)
	}
	p.kv = kv

	return p, nil
}

// Publish stores doc under doc.RunID.
//
// Iteration entries left over from an earlier, longer run with the same id
// are deleted, so a subsequent Load returns exactly doc.
//
// Returns:
//   - error: ErrInvalidRunID, ErrUnavailable, or the underlying KV error
func (p *Publisher) Publish(ctx context.Context, doc Document) error {
	if err := ValidateRunID(doc.RunID); err != nil {
		return err
	}

	p.logger.Debug("publishing history", "run_id", doc.RunID, "iterations", len(doc.Iterations))

	if err := p.cleanupStaleIterations(ctx, doc.RunID, len(doc.Iterations)); err != nil {
		p.logger.Warn("stale iteration cleanup failed, continuing with publish", "run_id", doc.RunID, "error", err)
	}

	for _, it := range doc.Iterations {
		if err := p.put(ctx, iterationKey(doc.RunID, it.Iteration), it); err != nil {
			return err
		}
	}

	summary := doc
	summary.Iterations = nil
	summary.IterationCount = len(doc.Iterations) - 1
	if err := p.put(ctx, doc.RunID+summarySuffix, summary); err != nil {
		return err
	}

	p.logger.Info("history published",
		"bucket", p.kv.Bucket(),
		"run_id", doc.RunID,
		"iterations", summary.IterationCount,
	)

	return nil
}

// Load reads the document published under runID.
//
// Returns:
//   - Document: History with Iterations restored
//   - error: ErrRunNotFound, ErrUnavailable or a decode error
func (p *Publisher) Load(ctx context.Context, runID string) (Document, error) {
	if err := ValidateRunID(runID); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := p.get(ctx, runID+summarySuffix, &doc); err != nil {
		if natsutil.IsNotFound(err) {
			return Document{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}

		return Document{}, err
	}

	doc.Iterations = make([]Iteration, doc.IterationCount+1)
	for i := range doc.Iterations {
		if err := p.get(ctx, iterationKey(runID, i), &doc.Iterations[i]); err != nil {
			return Document{}, fmt.Errorf("run %s iteration %d: %w", runID, i, err)
		}
	}

	return doc, nil
}

// Runs lists the run ids present in the bucket, sorted.
func (p *Publisher) Runs(ctx context.Context) ([]string, error) {
	keys, err := p.keys(ctx)
	if err != nil {
		return nil, err
	}

	runs := make([]string, 0)
	for _, key := range keys {
		if id, ok := strings.CutSuffix(key, summarySuffix); ok {
			runs = append(runs, id)
		}
	}
	slices.Sort(runs)

	return runs, nil
}

// Delete removes every entry of runID.
func (p *Publisher) Delete(ctx context.Context, runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}

	if err := p.cleanupStaleIterations(ctx, runID, 0); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.kv.Delete(opCtx, runID+summarySuffix); err != nil && !natsutil.IsNotFound(err) {
		return classify(fmt.Errorf("failed to delete run %s: %w", runID, err))
	}

	return nil
}

// cleanupStaleIterations deletes iteration entries numbered >= keep.
func (p *Publisher) cleanupStaleIterations(ctx context.Context, runID string, keep int) error {
	keys, err := p.keys(ctx)
	if err != nil {
		return err
	}

	prefix := runID + iterationInfix
	deleted := 0
	for _, key := range keys {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < keep {
			continue
		}

		opCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err = p.kv.Delete(opCtx, key)
		cancel()
		if err != nil {
			p.logger.Warn("failed to delete stale iteration", "key", key, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		p.logger.Debug("cleaned up stale iterations", "run_id", runID, "deleted_count", deleted)
	}

	return nil
}

func (p *Publisher) keys(ctx context.Context) ([]string, error) {
	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	lister, err := p.kv.ListKeys(opCtx)
	if err != nil {
		if natsutil.IsNotFound(err) {
			return nil, nil
		}

		return nil, classify(fmt.Errorf("failed to list keys: %w", err))
	}
	defer func() { _ = lister.Stop() }()

	keys := make([]string, 0)
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	return keys, nil
}

func (p *Publisher) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.kv.Put(opCtx, key, data); err != nil {
		return classify(fmt.Errorf("failed to publish %s: %w", key, err))
	}

	return nil
}

func (p *Publisher) get(ctx context.Context, key string, out any) error {
	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	entry, err := p.kv.Get(opCtx, key)
	if err != nil {
		return classify(fmt.Errorf("failed to read %s: %w", key, err))
	}
	if err := json.Unmarshal(entry.Value(), out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return nil
}

// classify marks connectivity failures as ErrUnavailable.
func classify(err error) error {
	if natsutil.IsConnectivityError(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return err
}

func iterationKey(runID string, iteration int) string {
	return runID + iterationInfix + strconv.Itoa(iteration)
}

// ValidateRunID checks that id can be used as a KV key token.
//
// Allowed characters are ASCII letters, digits, '-', '_' and '='. Dots are
// reserved for the key layout.
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRunID)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '=':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidRunID, id, r)
		}
	}

	return nil
}
