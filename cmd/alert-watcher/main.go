// Package main provides the CLI entry point for the alert watcher. It
// loads the current set of active alerts from the API, subscribes to the
// alert change stream, and keeps a reconciled local view, notifying an
// operator about every new alert.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-alerts/internal/alerts"
	"stock-alerts/internal/config"
	"stock-alerts/internal/consumer"
	"stock-alerts/internal/events"
	"stock-alerts/internal/metrics"
	"stock-alerts/internal/notify"
	"stock-alerts/internal/query"
	"stock-alerts/internal/reconcile"
)

const snapshotLogInterval = 30 * time.Second

func main() {
	// Parse command-line flags
	cfg := &config.WatcherConfig{}
	flag.StringVar(&cfg.APIBaseURL, "api-base-url", "http://localhost:8080", "Base URL of the stock-alerts API")
	flag.StringVar(&cfg.KafkaBrokers, "kafka-brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
	flag.StringVar(&cfg.AlertChangedTopic, "alert-changed-topic", "alert.changed", "Kafka topic for alert change events")
	flag.StringVar(&cfg.ConsumerGroup, "consumer-group", "alert-watcher-group", "Kafka consumer group ID")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis server address for metrics reporting (empty disables)")
	flag.StringVar(&cfg.StoreID, "store-id", "", "Optional store ID filter (UUID)")
	flag.StringVar(&cfg.Severity, "severity", "", "Optional severity filter (critical, low, out_of_stock)")
	flag.IntVar(&cfg.PageLimit, "page-limit", query.DefaultLimit, "Page size for alert loading")
	flag.Parse()

	// Set up structured logging
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	slog.Info("Starting alert-watcher",
		"api_base_url", cfg.APIBaseURL,
		"kafka_brokers", cfg.KafkaBrokers,
		"alert_changed_topic", cfg.AlertChangedTopic,
		"consumer_group", cfg.ConsumerGroup,
		"store_id", cfg.StoreID,
		"severity", cfg.Severity,
		"page_limit", cfg.PageLimit,
	)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	filters := query.Filters{
		StoreID:  cfg.StoreID,
		Severity: alerts.Severity(cfg.Severity),
		Limit:    cfg.PageLimit,
	}
	if err := filters.Validate(); err != nil {
		slog.Error("Invalid filter configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Initialize metrics reporting if Redis is configured
	var collector *metrics.Collector
	if cfg.RedisAddr != "" {
		slog.Info("Connecting to Redis", "addr", cfg.RedisAddr)
		redisClient, err := metrics.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			slog.Info("Tip: Start Redis with 'docker compose up -d redis' or ensure Redis is running")
			os.Exit(1)
		}
		defer redisClient.Close()
		collector = metrics.NewCollector("alert-watcher", redisClient)
		collector.Start(ctx)
		defer collector.Stop()
		slog.Info("Metrics reporting enabled")
	}

	// Initialize the reconciliation engine over the API client
	client := query.NewClient(cfg.APIBaseURL)
	sink := notify.NewLogSink()
	var rec reconcile.Recorder
	if collector != nil {
		rec = collector
	}
	engine := reconcile.NewEngine(client, client, sink, rec)

	// Load the current alert population before consuming live events
	slog.Info("Loading initial alert state")
	if err := engine.LoadInitial(ctx, filters); err != nil {
		slog.Error("Failed to load initial alert state", "error", err)
		slog.Info("Tip: Ensure the stock-alerts API is running and reachable")
		os.Exit(1)
	}
	for {
		snap := engine.Snapshot()
		if !snap.HasMore {
			break
		}
		if err := engine.LoadMore(ctx, filters); err != nil {
			slog.Error("Failed to load alert page", "error", err)
			os.Exit(1)
		}
	}
	initial := engine.Snapshot()
	slog.Info("Initial alert state loaded",
		"alerts", len(initial.Records),
		"total", initial.Summary.TotalAlerts,
		"critical", initial.Summary.CriticalAlerts,
	)

	// Initialize Kafka consumer for live change events
	slog.Info("Connecting to Kafka consumer", "topic", cfg.AlertChangedTopic)
	kafkaConsumer, err := consumer.NewConsumer(cfg.KafkaBrokers, cfg.AlertChangedTopic, cfg.ConsumerGroup)
	if err != nil {
		slog.Error("Failed to create Kafka consumer", "error", err)
		slog.Info("Tip: Start Kafka with 'docker compose up -d kafka'")
		os.Exit(1)
	}
	defer kafkaConsumer.Close()
	slog.Info("Successfully connected to Kafka consumer")

	changeCh := make(chan events.AlertChange, 64)
	go kafkaConsumer.Run(ctx, changeCh)

	// Periodically log the reconciled view
	go func() {
		ticker := time.NewTicker(snapshotLogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := engine.Snapshot()
				slog.Info("Alert view snapshot",
					"alerts", len(snap.Records),
					"total", snap.Summary.TotalAlerts,
					"critical", snap.Summary.CriticalAlerts,
					"low_stock", snap.Summary.LowStockAlerts,
					"out_of_stock", snap.Summary.OutOfStockAlerts,
					"has_more", snap.HasMore,
					"err", snap.Err,
				)
			}
		}
	}()

	// Main reconciliation loop
	slog.Info("Starting alert reconciliation loop")
	engine.Run(ctx, changeCh)

	slog.Info("Alert-watcher stopped")
}
