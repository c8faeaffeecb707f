package kvutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	lbaftest "github.com/DARMA-tasking/LB-analysis-framework-sub001/testing"
)

func newJetStream(t *testing.T) jetstream.JetStream {
	t.Helper()

	_, nc := lbaftest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	return js
}

func TestEnsureBucket(t *testing.T) {
	js := newJetStream(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("creates a missing bucket", func(t *testing.T) {
		kv, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "history-create", History: 1}, 3)
		require.NoError(t, err)
		require.Equal(t, "history-create", kv.Bucket())
	})

	t.Run("opens an existing bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "history-existing", History: 1}

		first, err := EnsureBucket(ctx, js, cfg, 3)
		require.NoError(t, err)
		_, err = first.Put(ctx, "run-1.run", []byte("{}"))
		require.NoError(t, err)

		// A different TTL makes CreateKeyValue report the bucket as existing.
		cfg.TTL = time.Minute
		second, err := EnsureBucket(ctx, js, cfg, 3)
		require.NoError(t, err)

		entry, err := second.Get(ctx, "run-1.run")
		require.NoError(t, err)
		require.Equal(t, "{}", string(entry.Value()))
	})

	t.Run("non-positive attempts use the default", func(t *testing.T) {
		kv, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "history-default"}, 0)
		require.NoError(t, err)
		require.NotNil(t, kv)
	})

	t.Run("concurrent exporters share one bucket", func(t *testing.T) {
		const exporters = 10
		cfg := jetstream.KeyValueConfig{Bucket: "history-concurrent", History: 1}

		var wg sync.WaitGroup
		errs := make(chan error, exporters)
		kvs := make([]jetstream.KeyValue, exporters)
		for i := range exporters {
			wg.Go(func() {
				kv, err := EnsureBucket(ctx, js, cfg, 5)
				if err != nil {
					errs <- err
					return
				}
				kvs[i] = kv
			})
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		for i, kv := range kvs {
			require.NotNil(t, kv, "exporter %d should have a bucket", i)
		}
	})
}

func TestEnsureBucket_Cancelled(t *testing.T) {
	js := newJetStream(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "history-cancelled"}, 3)
	require.Error(t, err)
}
