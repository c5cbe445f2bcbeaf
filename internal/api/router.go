package api

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/verseforge/verseforge-api/internal/api/handlers"
	apimiddleware "github.com/verseforge/verseforge-api/internal/api/middleware"
	"github.com/verseforge/verseforge-api/internal/config"
	"github.com/verseforge/verseforge-api/internal/llm"
	"github.com/verseforge/verseforge-api/internal/metrics"
	"github.com/verseforge/verseforge-api/internal/render"
	"github.com/verseforge/verseforge-api/internal/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Score and audio artifacts are served straight from disk
	router.Static("/artifacts", cfg.ArtifactDir)

	// Health check
	healthHandler := handlers.NewHealthHandler(db, cfg)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	cwMetrics, err := metrics.NewClient(context.Background(), cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	}

	// Wire the song pipeline
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	composer := services.NewComposer(factory, cwMetrics)
	lyricist := services.NewLyricist(factory, cwMetrics)
	renderer := render.NewEngine(cfg.FluidsynthPath, cfg.SoundfontPath, render.DefaultSampleRate, cfg.RenderGain)

	songwriter := services.NewSongwriter(composer, lyricist, renderer, db, cfg, cwMetrics)
	songHandler := handlers.NewSongHandler(songwriter, db)

	// API routes v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/songs/generate", songHandler.Generate)
		v1.GET("/songs", songHandler.ListSongs)
		v1.GET("/songs/:id", songHandler.GetSong)
	}

	return router
}
