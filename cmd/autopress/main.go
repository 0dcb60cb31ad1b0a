// cmd/autopress/main.go

package main

import (
	"context"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"autopress/internal/adapter/storage"
	"autopress/internal/config"
	"autopress/internal/domain/signal"
	"autopress/internal/server"
	"autopress/internal/service/publish"
	"autopress/internal/service/trends"
)

func main() {
	// Load optional .env before reading configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg.Environment)

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	ossignal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Event bus is optional; the pipeline runs without it
	natsConn := initNATS(cfg.NATS, log)
	if natsConn != nil {
		defer natsConn.Close()
	}

	// Initialize storage adapters
	registry := storage.NewRegistryStore(cfg.Storage.RegistryPath)
	contentStore := storage.NewContentStore(cfg.Storage.ContentPath, cfg.Storage.BackupPath, log)

	// Initialize trend sources
	sources := []signal.Source{
		trends.NewRedditSource(cfg.Trends.Subreddits),
		trends.NewNewsSource(cfg.Trends.FeedURLs),
		trends.NewCuratedSource(),
	}
	if twitterSource := trends.NewTwitterSource(cfg.Trends.TwitterBearerToken, cfg.Trends.TwitterQueries); twitterSource != nil {
		sources = append(sources, twitterSource)
	} else {
		log.Info("Twitter source disabled, no bearer token configured")
	}

	aggregator := trends.NewAggregator(sources, trends.AggregatorConfig{
		SourceTimeout: cfg.Trends.SourceTimeout,
	}, log)

	ranker := trends.NewRanker(aggregator, registry, trends.RankerConfig{
		CacheTTL: cfg.Trends.CacheTTL,
	}, log)

	// Initialize publication services
	catalog := publish.NewCatalog()

	assembler := publish.NewAssembler(catalog, publish.AssemblerConfig{
		Author: cfg.Publish.Author,
	}, nil, log)

	gate := publish.NewGate(registry, publish.GateConfig{
		MaxPostsPerDay:         cfg.Publish.MaxPostsPerDay,
		OpportunisticThreshold: cfg.Publish.OpportunisticThreshold,
	}, nil, log)

	pipeline := publish.NewPipeline(ranker, gate, assembler, registry, contentStore, contentStore, natsConn, publish.PipelineConfig{
		EventsTopic:      cfg.NATS.EventsTopic,
		LegacyExportPath: cfg.Storage.LegacyExportPath,
	}, log)

	scheduler, err := publish.NewScheduler(pipeline, ranker, registry, publish.SchedulerConfig{
		PublishTimes:    cfg.Publish.PublishTimes,
		RefreshInterval: cfg.Publish.RefreshInterval,
		Timezone:        cfg.Publish.Timezone,
	}, log)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	scheduler.Start()

	// Initialize admin HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		cfg.NATS.EventsTopic,
		ranker,
		pipeline,
		contentStore,
		registry,
		log,
	)

	// Start HTTP server
	go func() {
		log.WithFields(logrus.Fields{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		}).Info("Starting admin server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("Scheduler shutdown error")
	}

	log.Info("Shutdown complete")
}

// newLogger creates the process-wide logger
func newLogger(environment string) *logrus.Logger {
	log := logrus.New()
	if environment == "development" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// initNATS connects to the event bus, returning nil when disabled or
// unreachable
func initNATS(cfg config.NATSConfig, log *logrus.Logger) *nats.Conn {
	if cfg.URL == "" {
		log.Info("Event bus disabled, no NATS URL configured")
		return nil
	}

	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		log.WithError(err).Warn("NATS connection failed, continuing without event bus")
		return nil
	}

	return nc
}
