package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-s-adam/streamlink/internal/api"
	"github.com/a-s-adam/streamlink/internal/config"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/logger"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/service"
	"github.com/a-s-adam/streamlink/internal/storage"
)

func main() {
	// CONFIG_PATH overrides the default config lookup for deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := logger.DefaultConfig()
	if cfg.Server.Mode != "release" {
		logCfg.Level = "debug"
		logCfg.Format = "text"
	}
	appLog := logger.New(logCfg)
	logger.SetDefaultLogger(appLog)
	defer logger.Sync()

	ctx := context.Background()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	itemRepo := repository.NewItemRepository(db)
	eventRepo := repository.NewEventRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	userRepo := repository.NewUserRepository(db)
	embeddingRepo := repository.NewEmbeddingRepository(db)
	recommendationRepo := repository.NewRecommendationRepository(db)

	store, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Fatal("Failed to ensure storage bucket: %v", err)
	}

	backend, err := newBrokerBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize job broker: %v", err)
	}
	defer backend.Close()

	embedder, err := service.NewEmbedder(&cfg.Embedding)
	if err != nil {
		logger.Fatal("Failed to initialize embedder: %v", err)
	}

	registry := jobs.NewRegistry()
	orchestrator := jobs.NewOrchestrator(backend, registry)

	ingestService := service.NewIngestService(itemRepo, eventRepo, providerRepo, userRepo, orchestrator)
	enrichService := service.NewEnrichService(
		itemRepo,
		embeddingRepo,
		service.NewTMDBClient(&cfg.TMDB),
		service.NewFallbackEmbedder(embedder),
		orchestrator,
	)
	recommendService := service.NewRecommendService(
		eventRepo,
		embeddingRepo,
		recommendationRepo,
		embedder.ModelName(),
		cfg.Recommend.WindowDays,
		cfg.Recommend.TopN,
	)
	tasks := service.NewTasks(ingestService, enrichService, recommendService, store)
	tasks.Register(registry)

	// The in-process broker has no external consumer, so run the worker
	// pool inside the API for broker-less development.
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	if cfg.Broker.Driver == "memory" {
		worker := jobs.NewWorker(backend, registry, cfg.Worker.Concurrency,
			cfg.Worker.SoftTimeLimit, cfg.Worker.HardTimeLimit)
		go func() {
			worker.Run(workerCtx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	router := api.SetupRouter(&cfg.Server, api.Deps{
		Orchestrator:    orchestrator,
		Store:           store,
		Items:           itemRepo,
		Embeddings:      embeddingRepo,
		Recommendations: recommendationRepo,
		Log:             appLog,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting API server: port=%d mode=%s broker=%s",
			cfg.Server.Port, cfg.Server.Mode, cfg.Broker.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	stopWorker()
	<-workerDone

	logger.Info("Server exited")
}

func newBrokerBackend(ctx context.Context, cfg *config.Config) (jobs.Backend, error) {
	switch cfg.Broker.Driver {
	case "memory":
		return jobs.NewMemoryBackend(), nil
	default:
		return jobs.NewRedisBackend(ctx, cfg.Broker.Addr, cfg.Broker.Password, cfg.Broker.DB, cfg.Broker.ResultTTL)
	}
}
