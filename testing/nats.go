package testing

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ServerOption customizes the embedded server started by StartEmbeddedNATS.
type ServerOption func(*server.Options)

// WithStoreDir stores JetStream data in dir instead of a test temp directory.
// Use it to restart a server over the same data.
func WithStoreDir(dir string) ServerOption {
	return func(o *server.Options) {
		o.StoreDir = dir
	}
}

// WithJetStreamMemory caps JetStream memory storage in bytes.
func WithJetStreamMemory(bytes int64) ServerOption {
	return func(o *server.Options) {
		o.JetStreamMaxMemory = bytes
	}
}

// StartEmbeddedNATS starts an in-process NATS server with JetStream enabled.
//
// The server listens on a random local port, so parallel tests do not
// collide, and stores data in a test temp directory. The server and the
// returned connection are shut down when the test completes.
//
// Parameters:
//   - t: Testing context for failure and cleanup
//   - opts: Optional server settings
//
// Returns:
//   - *server.Server: The embedded server (ClientURL gives its address)
//   - *nats.Conn: Connected client
//
// Example:
//
//	func TestPublisher(t *testing.T) {
//	    _, nc := lbaftest.StartEmbeddedNATS(t)
//	    pub, err := export.NewPublisher(t.Context(), nc, export.PublisherConfig{Bucket: "runs"})
//	    require.NoError(t, err)
//	}
func StartEmbeddedNATS(t testing.TB, opts ...ServerOption) (*server.Server, *nats.Conn) {
	t.Helper()

	cfg := &server.Options{
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ns, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("create embedded NATS server: %v", err)
	}
	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server not ready within 5s")
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.Timeout(2*time.Second), nats.Name(t.Name()))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// CreateJetStreamKV creates an in-memory KV bucket.
//
// Parameters:
//   - t: Testing context
//   - nc: Connection from StartEmbeddedNATS
//   - bucket: Bucket name
//
// Returns:
//   - jetstream.KeyValue: The created bucket
func CreateJetStreamKV(t testing.TB, nc *nats.Conn, bucket string) jetstream.KeyValue {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("create JetStream context: %v", err)
	}

	kv, err := js.CreateKeyValue(t.Context(), jetstream.KeyValueConfig{
		Bucket:  bucket,
		Storage: jetstream.MemoryStorage,
	})
	if err != nil {
		t.Fatalf("create KV bucket %s: %v", bucket, err)
	}

	return kv
}

// KeysWithPrefix returns the sorted keys of bucket that start with prefix.
//
// A missing bucket or an empty one yields no keys. Export tests use it to
// check the per-iteration key layout of a published run.
//
// Example:
//
//	keys := lbaftest.KeysWithPrefix(t, nc, "lbaf-history", "seed-7.iteration.")
//	require.Len(t, keys, 3)
func KeysWithPrefix(t testing.TB, nc *nats.Conn, bucket, prefix string) []string {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("create JetStream context: %v", err)
	}

	kv, err := js.KeyValue(t.Context(), bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil
	}
	if err != nil {
		t.Fatalf("open KV bucket %s: %v", bucket, err)
	}

	lister, err := kv.ListKeys(t.Context())
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil
	}
	if err != nil {
		t.Fatalf("list keys of %s: %v", bucket, err)
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for key := range lister.Keys() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	return keys
}
