// Package lbaf provides a Go library for simulating gossip-based dynamic load balancing
// of task objects across ranks.
//
// Lbaf models a distributed application as a population of ranks (processors) owning
// migratable objects (tasks) with computational loads and pairwise communication volumes.
// Each balancing iteration spreads load information with a bounded gossip protocol, then
// lets overloaded ranks shed objects toward ranks they believe are underloaded, accepting
// or rejecting each move with a pluggable transfer criterion.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/DARMA-tasking/LB-analysis-framework-sub001"
//	    "github.com/DARMA-tasking/LB-analysis-framework-sub001/source"
//	)
//
//	cfg := lbaf.DefaultConfig()
//	src, err := source.NewSynthetic(cfg.Workload.Synthetic)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	if err := rt.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rt.Statistics()[lbaf.MetricLoadImbalance])
//
// # Key Features
//
//   - Deterministic: Per-rank random streams make results independent of worker count
//   - Bounded Gossip: Rounds and fanout cap the information each rank receives
//   - Pluggable Criteria: Load threshold, min-max work and communication-aware localizing criteria
//   - Workload Sources: Synthetic sampled workloads, replayed per-rank files or static populations
//   - Conservation Checks: Every transfer phase is verified for single ownership and total load
//
// # Architecture
//
// The runtime progresses through a state machine per iteration:
//
//	INITIALIZED → GOSSIP → TRANSFER → SNAPSHOT → ... → COMPLETED
//
// A protocol violation or cancellation moves the runtime to FAILED, which is terminal.
// Every iteration appends a Snapshot (load distribution, statistics, gossip summary and
// transfer report) to the history read by Statistics and LoadDistributions.
//
// # Advanced Usage
//
// Custom criterion with hooks and a report sink:
//
//	import (
//	    "github.com/DARMA-tasking/LB-analysis-framework-sub001"
//	    "github.com/DARMA-tasking/LB-analysis-framework-sub001/criterion"
//	    "github.com/DARMA-tasking/LB-analysis-framework-sub001/report"
//	)
//
//	crit, err := criterion.New(criterion.MinMaxWork, criterion.WithCommunicationWeight(0.5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hooks := &lbaf.Hooks{
//	    OnIteration: func(ctx context.Context, snap lbaf.Snapshot) error {
//	        // Inspect the iteration
//	        return nil
//	    },
//	}
//
//	rt, err := lbaf.NewRuntime(ctx, &cfg, src,
//	    lbaf.WithCriterion(crit),
//	    lbaf.WithHooks(hooks),
//	    lbaf.WithReporter(report.NewLogReporter(logger)),
//	)
//
// See the examples/ directory for complete working examples.
package lbaf
