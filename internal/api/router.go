package api

import (
	"github.com/gin-gonic/gin"

	"github.com/a-s-adam/streamlink/internal/api/handler"
	"github.com/a-s-adam/streamlink/internal/api/middleware"
	"github.com/a-s-adam/streamlink/internal/config"
	"github.com/a-s-adam/streamlink/internal/jobs"
	"github.com/a-s-adam/streamlink/internal/logger"
	"github.com/a-s-adam/streamlink/internal/repository"
	"github.com/a-s-adam/streamlink/internal/storage"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Orchestrator    *jobs.Orchestrator
	Store           storage.ObjectStorage
	Items           *repository.ItemRepository
	Embeddings      *repository.EmbeddingRepository
	Recommendations *repository.RecommendationRepository
	Log             *logger.Logger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(cfg *config.ServerConfig, deps Deps) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	ingestHandler := handler.NewIngestHandler(deps.Orchestrator, deps.Store)
	jobHandler := handler.NewJobHandler(deps.Orchestrator)
	statsHandler := handler.NewStatsHandler(deps.Orchestrator, deps.Items, deps.Embeddings)
	itemHandler := handler.NewItemHandler(deps.Items)
	recHandler := handler.NewRecommendationHandler(deps.Recommendations, deps.Orchestrator)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		// Ingestion
		v1.POST("/ingest/netflix", ingestHandler.IngestNetflix)
		v1.POST("/ingest/youtube", ingestHandler.IngestYouTube)

		// Jobs
		v1.GET("/jobs", jobHandler.ListActiveJobs)
		v1.GET("/jobs/stats/overview", statsHandler.Overview)
		v1.GET("/jobs/:id", jobHandler.GetJob)
		v1.DELETE("/jobs/:id", jobHandler.CancelJob)
		v1.POST("/jobs/:id/retry", jobHandler.RetryJob)

		// Catalog
		v1.GET("/items", itemHandler.ListItems)
		v1.GET("/items/:id", itemHandler.GetItem)

		// Recommendations
		v1.GET("/users/:id/recommendations", recHandler.GetRecommendations)
		v1.POST("/users/:id/recommendations/refresh", recHandler.RefreshRecommendations)
	}

	return r
}
