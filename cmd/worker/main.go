package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-s-adam/streamlink/internal/config"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/logger"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/service"
	"github.com/a-s-adam/streamlink/internal/storage"
)

func main() {
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

	if cfg.Broker.Driver == "memory" {
		logger.Fatal("The memory broker is in-process only; run the API binary instead or configure broker.driver=redis")
	}
	backend, err := jobs.NewRedisBackend(ctx, cfg.Broker.Addr, cfg.Broker.Password, cfg.Broker.DB, cfg.Broker.ResultTTL)
	if err != nil {
		logger.Fatal("Failed to connect to job broker: %v", err)
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

	worker := jobs.NewWorker(backend, registry, cfg.Worker.Concurrency,
		cfg.Worker.SoftTimeLimit, cfg.Worker.HardTimeLimit)

	runCtx, stop := context.WithCancel(ctx)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down worker...")
		stop()
	}()

	// Blocks until the context is cancelled and in-flight jobs finish.
	worker.Run(runCtx)

	logger.Info("Worker exited")
}
