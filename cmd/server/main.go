// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freshcast/backend-go/internal/api"
	"github.com/freshcast/backend-go/internal/cache"
	"github.com/freshcast/backend-go/internal/catalog"
	"github.com/freshcast/backend-go/internal/config"
	"github.com/freshcast/backend-go/internal/forecast"
	"github.com/freshcast/backend-go/internal/planner"
	"github.com/freshcast/backend-go/internal/repository/csvstore"
	"github.com/freshcast/backend-go/internal/service"
	"github.com/freshcast/backend-go/internal/storage"
	"github.com/freshcast/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Model artifact storage (local disk or S3-compatible)
	store, err := storage.New(cfg.Storage, cfg.App.ModelDir)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// Datasets and catalog
	datasets := csvstore.New(cfg.App.DataDir)
	cat := catalog.New(datasets, cfg.Planner.DefaultShelfLife)

	// Demand forecaster
	forecastCfg := forecast.DefaultConfig()
	forecastCfg.FallbackDailyDemand = cfg.Planner.BaselineDailyDemand
	forecaster := forecast.New(datasets, store, forecastCfg)

	// Stock planner
	plannerCfg := planner.DefaultConfig()
	plannerCfg.MinServiceLevel = cfg.Planner.MinServiceLevel
	plannerCfg.SafetyStockCap = cfg.Planner.SafetyStockCap
	plannerCfg.ShelfLifeNormDays = cfg.Planner.ShelfLifeNormDays
	plannerCfg.DefaultShelfLife = cfg.Planner.DefaultShelfLife
	plannerCfg.BaselineDailyDemand = cfg.Planner.BaselineDailyDemand
	plannerCfg.UnitCost = cfg.Planner.UnitCost
	plannerCfg.HoldingCostRate = cfg.Planner.HoldingCostRate
	stockPlanner := planner.New(forecaster, cat, plannerCfg)

	// Plan cache (redis when enabled, noop otherwise)
	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Plan cache unavailable, continuing without caching")
		planCache = cache.NewNoopPlanCache()
	}

	// Initialize services
	services := &api.Services{
		PlanService:     service.NewPlanService(stockPlanner, planCache),
		ForecastService: service.NewForecastService(forecaster, cat),
		DatasetService:  service.NewDatasetService(datasets, forecaster, planCache),
		Catalog:         cat,
	}

	// Initialize HTTP server
	router := api.NewRouter(services, api.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxUploadSizeMB: cfg.App.MaxUploadSizeMB,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
