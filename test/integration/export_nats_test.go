package integration_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DARMA-tasking/LB-analysis-framework-sub001/criterion"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/export"
	lbaftest "github.com/DARMA-tasking/LB-analysis-framework-sub001/testing"
)

func TestExport_RunPublishedToJetStream(t *testing.T) {
	_, nc := lbaftest.StartEmbeddedNATS(t)

	pub, err := export.NewPublisher(t.Context(), nc, export.PublisherConfig{
		Bucket:           "lbaf-integration",
		TTL:              time.Hour,
		OperationTimeout: 5 * time.Second,
	}, export.WithLogger(lbaftest.NewTestLogger(t)))
	require.NoError(t, err)

	for _, seed := range []uint64{1, 2} {
		rt := syntheticRuntime(t, criterion.RelaxedLocalizing, seed)
		require.NoError(t, rt.Run(t.Context()))

		doc := export.FromRuntime(runID(seed), rt)
		require.NoError(t, pub.Publish(t.Context(), doc))
	}

	runs, err := pub.Runs(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"seed-1", "seed-2"}, runs)

	require.Len(t, lbaftest.KeysWithPrefix(t, nc, "lbaf-integration", "seed-2.iteration."), 6)

	back, err := pub.Load(t.Context(), "seed-2")
	require.NoError(t, err)
	require.Equal(t, uint64(2), back.Seed)
	require.Equal(t, 16, back.Ranks)
	require.Equal(t, 256, back.Objects)
	require.Len(t, back.Iterations, 6)
	require.Len(t, back.LoadDistributions, 6)
	require.Equal(t, 0, back.Iterations[0].Iteration)

	require.NoError(t, pub.Delete(t.Context(), "seed-1"))
	runs, err = pub.Runs(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"seed-2"}, runs)
}

func runID(seed uint64) string {
	return fmt.Sprintf("seed-%d", seed)
}

func TestExport_RunSurvivesServerRestart(t *testing.T) {
	store := t.TempDir()
	cfg := export.PublisherConfig{Bucket: "lbaf-restart", OperationTimeout: 5 * time.Second}

	rt := syntheticRuntime(t, criterion.LoadThreshold, 9)
	require.NoError(t, rt.Run(t.Context()))
	doc := export.FromRuntime("persisted", rt)

	first, nc := lbaftest.StartEmbeddedNATS(t, lbaftest.WithStoreDir(store))
	pub, err := export.NewPublisher(t.Context(), nc, cfg)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(t.Context(), doc))
	nc.Close()
	first.Shutdown()
	first.WaitForShutdown()

	_, nc = lbaftest.StartEmbeddedNATS(t, lbaftest.WithStoreDir(store))
	pub, err = export.NewPublisher(t.Context(), nc, cfg)
	require.NoError(t, err)

	back, err := pub.Load(t.Context(), "persisted")
	require.NoError(t, err)
	require.Equal(t, doc.LoadDistributions, back.LoadDistributions)
}
