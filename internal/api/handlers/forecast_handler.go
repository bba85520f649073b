package handlers

import (
	"fmt"
	"net/http"

	"github.com/freshcast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	forecastService *service.ForecastService
}

func NewForecastHandler(forecastService *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

type predictRequest struct {
	// ProductIDs may be empty; the service then forecasts a default subset
	// of the catalog.
	ProductIDs []string `json:"product_ids"`
	DaysAhead  int      `json:"days_ahead"`
}

// Predict returns standalone demand forecasts without allocation.
func (h *ForecastHandler) Predict(c *gin.Context) {
	var req predictRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	if req.DaysAhead == 0 {
		req.DaysAhead = defaultPlanningHorizon
	}

	forecasts, err := h.forecastService.Predict(c.Request.Context(), req.ProductIDs, req.DaysAhead)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Demand prediction completed",
		"forecast_period": fmt.Sprintf("%d days", req.DaysAhead),
		"predictions":     forecasts,
		"total_products":  len(forecasts),
	})
}

// Train retrains the demand model on the currently uploaded datasets.
func (h *ForecastHandler) Train(c *gin.Context) {
	model, err := h.forecastService.Train(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "model trained",
		"products":       len(model.Products),
		"validation_mae": model.ValidationMAE,
		"trained_at":     model.TrainedAt,
	})
}
