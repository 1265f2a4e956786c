package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/ad-intel-service/internal/adapter/chromedp_renderer"
	"github.com/user/ad-intel-service/internal/adapter/fsstore"
	"github.com/user/ad-intel-service/internal/adapter/openai"
	"github.com/user/ad-intel-service/internal/adapter/postgres"
	redis_adapter "github.com/user/ad-intel-service/internal/adapter/redis"
	"github.com/user/ad-intel-service/internal/delivery/http/handler"
	"github.com/user/ad-intel-service/internal/delivery/http/router"
	"github.com/user/ad-intel-service/internal/events"
	"github.com/user/ad-intel-service/internal/usecase"
	"github.com/user/ad-intel-service/pkg/config"
	"github.com/user/ad-intel-service/pkg/logger"
	"github.com/user/ad-intel-service/pkg/metrics"
)

const maxBrowserSessions = 2

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	slog.Info("Logger initialized", "level", cfg.LogLevel)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		slog.Error("Unable to apply database schema", "error", err)
		os.Exit(1)
	}
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Adapters ---
	store, err := fsstore.NewScreenshotStore(cfg.ScreenshotsDir)
	if err != nil {
		slog.Error("Unable to prepare screenshots directory", "error", err)
		os.Exit(1)
	}

	pageFactory := chromedp_renderer.NewFactory(maxBrowserSessions, cfg.BrowserHeadless, cfg.NavigationTimeout)
	landingScraper := chromedp_renderer.NewLandingScraper(pageFactory)

	aiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if !aiClient.Configured() {
		slog.Warn("No OpenAI API key configured; relevance filtering fails open and analysis is unavailable")
	}
	checker := redis_adapter.NewCachedChecker(
		openai.NewChecker(aiClient),
		redis_adapter.NewVerdictCache(rdb),
		cfg.VerdictCacheTTL,
	)
	analyzer := openai.NewAnalyzer(aiClient)

	// --- Repositories ---
	adRepo := postgres.NewAdRepo(dbpool)
	searchRepo := postgres.NewSearchRepo(dbpool)
	insightRepo := postgres.NewInsightRepo(dbpool)
	landingRepo := postgres.NewLandingPageRepo(dbpool)

	// --- Use Cases ---
	bus := events.NewBus()
	scraper := usecase.NewScrapeUseCase(pageFactory, adRepo, searchRepo, checker, store, bus, usecase.ScrapeConfig{
		NetworkIdleTimeout: cfg.NetworkIdleTimeout,
		ScrollDelayMin:     cfg.ScrollDelayMin,
		ScrollDelayMax:     cfg.ScrollDelayMax,
		CaptureDelayMin:    cfg.CaptureDelayMin,
		CaptureDelayMax:    cfg.CaptureDelayMax,
	})
	searchManager := usecase.NewSearchManager(searchRepo, adRepo, scraper)
	analysis := usecase.NewAnalysisUseCase(adRepo, insightRepo, analyzer)
	landing := usecase.NewLandingUseCase(landingRepo, landingScraper, store)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(searchManager, analysis, landing, bus)
	httpRouter := router.New(apiHandler, store.Dir())

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 5 * time.Second,
		// Write timeout must accommodate long-lived SSE streams.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
