// Package kvutil provides utilities for working with NATS JetStream KeyValue stores.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultAttempts is used when EnsureBucket is given a non-positive attempt count.
const DefaultAttempts = 3

// EnsureBucket creates or opens a KV bucket, retrying transient failures.
//
// Several exporters may target the same history bucket at once; whoever
// loses the creation race opens the existing bucket instead. Other failures
// are retried with exponential backoff (10ms, 20ms, 40ms, ...).
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - attempts: Maximum number of attempts (DefaultAttempts when <= 0)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: The last error once all attempts failed, or the context error
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "lbaf-history",
//	    History: 1,
//	}, 3)
func EnsureBucket(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	attempts int,
) (jetstream.KeyValue, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := range attempts {
		kv, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, openErr := js.KeyValue(ctx, config.Bucket)
			if openErr == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", openErr)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled while opening KV bucket %s: %w", config.Bucket, ctx.Err())
		}

		if attempt < attempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is small
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, attempts, lastErr)
}
