package handlers

import (
	"net/http"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/freshcast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

const defaultPlanningHorizon = 7

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type planRequest struct {
	// ProductIDs stays nil when the field is absent, which selects a
	// default subset of the catalog. An explicit empty list is rejected
	// downstream.
	ProductIDs      []string `json:"product_ids"`
	PlanningHorizon int      `json:"planning_horizon"`
	// StatusFilter narrows the returned stock plan to one classification
	// (understock, optimal, overstock).
	StatusFilter string `json:"status_filter"`
}

// BuildPlan computes a stock plan for the requested products.
func (h *PlanHandler) BuildPlan(c *gin.Context) {
	var req planRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
	}

	if req.PlanningHorizon == 0 {
		req.PlanningHorizon = defaultPlanningHorizon
	}

	var statusFilter domain.StockStatus
	if req.StatusFilter != "" {
		status, ok := domain.ParseStockStatus(req.StatusFilter)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown stock status: " + req.StatusFilter})
			return
		}
		statusFilter = status
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), req.ProductIDs, req.PlanningHorizon)
	if err != nil {
		respondError(c, err)
		return
	}

	if statusFilter != "" {
		plan = filterPlanByStatus(plan, statusFilter)
	}

	c.JSON(http.StatusOK, plan)
}

// filterPlanByStatus keeps only the records with the given classification.
// The summary still describes the full portfolio. The plan may come from the
// cache, so the original is left untouched.
func filterPlanByStatus(plan *domain.PlanResult, status domain.StockStatus) *domain.PlanResult {
	kept := make([]domain.PlanRecord, 0, len(plan.StockPlan))
	for _, record := range plan.StockPlan {
		if record.StockStatus == status {
			kept = append(kept, record)
		}
	}

	filtered := *plan
	filtered.StockPlan = kept
	return &filtered
}
