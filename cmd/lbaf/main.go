// Package main is the command-line harness of the load-balancing runtime.
//
// It loads a YAML configuration, builds the configured workload, runs the
// balancing loop, and prints the metric histories as ASCII plots. The
// finished history can be written as JSON or published to a JetStream KV
// bucket, either on an external NATS server or on one embedded in-process.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/alecthomas/kingpin.v2"

	lbaf "github.com/DARMA-tasking/LB-analysis-framework-sub001"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/export"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/logging"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/internal/metrics"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/report"
	"github.com/DARMA-tasking/LB-analysis-framework-sub001/source"
)

var (
	version = "dev"
	app     = kingpin.New("lbaf", "Gossip-based load-balancing simulation")

	cfgFile = app.Flag(
		"config", "YAML configuration file (defaults are used when omitted)").
		Short('c').
		Default("").
		Envar("LBAF_CONFIG").
		String()

	seed = app.Flag(
		"seed", "Run seed (seed override, -1 keeps the configured value)").
		Short('s').
		Default("-1").
		Int64()

	iterations = app.Flag(
		"iterations", "Balancing iterations (balancing.iterations override)").
		Short('n').
		Default("0").
		Int()

	workers = app.Flag(
		"workers", "Gossip worker goroutines (workers override)").
		Default("0").
		Envar("LBAF_WORKERS").
		Int()

	logLevel = app.Flag(
		"log-level", "Log level: debug, info, warn or error (logging.level override)").
		Default("").
		Envar("LBAF_LOG_LEVEL").
		String()

	jsonPath = app.Flag(
		"json", "Write the run history as JSON to this path (export.jsonPath override)").
		Default("").
		String()

	natsURL = app.Flag(
		"nats-url", "Publish the run history to this NATS server (export.natsUrl override)").
		Default("").
		Envar("NATS_URL").
		String()

	embedNATS = app.Flag(
		"embed-nats", "Start an in-process JetStream server and publish to it").
		Default("false").
		Bool()

	natsStore = app.Flag(
		"nats-store", "JetStream storage directory of the embedded server (temporary when empty)").
		Default("").
		String()

	runID = app.Flag(
		"run-id", "Identifier of the exported run (seed-<seed> when empty)").
		Default("").
		String()

	metricsAddr = app.Flag(
		"metrics-addr", "Serve Prometheus metrics on this address (enables metrics)").
		Default("").
		Envar("LBAF_METRICS_ADDR").
		String()

	plot = app.Flag(
		"plot", "Print ASCII plots of the metric histories (--no-plot disables)").
		Default("true").
		Bool()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "lbaf: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

// loadConfig reads the configuration file, if any, and applies flag overrides.
func loadConfig() (lbaf.Config, error) {
	cfg := lbaf.DefaultConfig()
	if *cfgFile != "" {
		loaded, err := lbaf.LoadConfig(*cfgFile)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if *seed >= 0 {
		cfg.Seed = uint64(*seed)
	}
	if *iterations > 0 {
		cfg.Balancing.Iterations = *iterations
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *jsonPath != "" {
		cfg.Export.JSONPath = *jsonPath
	}
	if *natsURL != "" {
		cfg.Export.NATSURL = *natsURL
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = *metricsAddr
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewText(os.Stderr, cfg.Logging.Level)
	if err != nil {
		return err
	}

	opts := []lbaf.Option{
		lbaf.WithLogger(logger),
		lbaf.WithReporter(report.NewLogReporter(logger)),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		opts = append(opts, lbaf.WithMetrics(metrics.NewPrometheus(reg, cfg.Metrics.Namespace)))

		shutdown := serveMetrics(cfg.Metrics.Address, reg, logger)
		defer shutdown()
	}

	src, err := source.FromConfig(cfg.Workload, logger)
	if err != nil {
		return err
	}

	rt, err := lbaf.NewRuntime(ctx, &cfg, src, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Run(ctx); err != nil {
		return err
	}

	if err := printReport(out, rt, *plot); err != nil {
		return err
	}

	id := *runID
	if id == "" {
		id = fmt.Sprintf("seed-%d", cfg.Seed)
	}

	return exportRun(ctx, cfg.Export, export.FromRuntime(id, rt), logger)
}

// printReport writes the final statistics and, optionally, the plots.
func printReport(out io.Writer, rt *lbaf.Runtime, withPlots bool) error {
	history := rt.History()
	last := history[len(history)-1]

	_, err := fmt.Fprintf(out,
		"ranks=%d objects=%d iterations=%d average=%.4g imbalance=%.4g -> %.4g\n",
		len(last.Loads), rt.Population().NumObjects(), rt.Iterations(), rt.AverageLoad(),
		history[0].Stats.Imbalance(), last.Stats.Imbalance())
	if err != nil || !withPlots {
		return err
	}

	if err := report.WriteHistory(out, rt.Statistics(), lbaf.MetricNames()); err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, report.PlotRanks(rt.LoadDistributions()))

	return err
}

// exportRun writes doc to every configured sink.
func exportRun(ctx context.Context, cfg lbaf.ExportConfig, doc export.Document, logger lbaf.Logger) error {
	if cfg.JSONPath != "" {
		if err := export.WriteFile(cfg.JSONPath, doc); err != nil {
			return fmt.Errorf("write %s: %w", cfg.JSONPath, err)
		}
		logger.Info("history written", "path", cfg.JSONPath)
	}

	url := cfg.NATSURL
	if *embedNATS {
		srv, err := startEmbeddedNATS(*natsStore)
		if err != nil {
			return err
		}
		defer func() {
			srv.Shutdown()
			srv.WaitForShutdown()
		}()
		url = srv.ClientURL()
		logger.Info("embedded NATS server started", "url", url)
	}

	if url == "" {
		return nil
	}

	nc, err := nats.Connect(url, nats.Name("lbaf"))
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, errors.Join(export.ErrUnavailable, err))
	}
	defer nc.Close()

	pub, err := export.NewPublisher(ctx, nc, export.PublisherConfig{
		Bucket:           cfg.Bucket,
		TTL:              cfg.TTL,
		OperationTimeout: cfg.OperationTimeout,
	}, export.WithLogger(logger))
	if err != nil {
		return err
	}

	return pub.Publish(ctx, doc)
}

// serveMetrics exposes reg on addr and returns a function that stops the server.
func serveMetrics(addr string, reg *prometheus.Registry, logger lbaf.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx) // Best effort on exit
	}
}
