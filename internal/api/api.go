// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/freshcast/backend-go/internal/api/handlers"
	"github.com/freshcast/backend-go/internal/api/middleware"
	"github.com/freshcast/backend-go/internal/catalog"
	"github.com/freshcast/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	PlanService     *service.PlanService
	ForecastService *service.ForecastService
	DatasetService  *service.DatasetService
	Catalog         *catalog.Catalog
}

type Options struct {
	AllowedOrigins  []string
	MaxUploadSizeMB int64
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.DatasetService != nil {
			datasetHandler := handlers.NewDatasetHandler(services.DatasetService, opts.MaxUploadSizeMB)
			apiGroup.POST("/upload", datasetHandler.Upload)
		}

		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			apiGroup.POST("/predict", forecastHandler.Predict)
			apiGroup.POST("/model/train", forecastHandler.Train)
		}

		if services.PlanService != nil {
			planHandler := handlers.NewPlanHandler(services.PlanService)
			apiGroup.POST("/plan", planHandler.BuildPlan)
		}

		if services.Catalog != nil {
			productHandler := handlers.NewProductHandler(services.Catalog)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.List)
				productGroup.GET("/stats", productHandler.Stats)
				productGroup.GET("/:id/info", productHandler.Info)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
