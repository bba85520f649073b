// internal/planner/risk.go
package planner

import (
	"math"

	"github.com/freshcast/backend-go/internal/domain"
)

const (
	excessRiskWeight  = 0.5
	shelfRiskWeight   = 0.3
	horizonRiskWeight = 0.2

	// Shelf lives at or above this contribute no perishability risk.
	shelfRiskWindowDays = 14.0
)

// WastageRisk estimates the likelihood of unsold or spoiled stock on a
// 0..1 scale. It weighs excess stock over demand, perishability relative to
// a 14-day window, and the planning horizon outrunning the shelf life.
func WastageRisk(dailyStock, demand []float64, shelfLifeDays int) float64 {
	if len(dailyStock) == 0 || len(demand) == 0 {
		return 0
	}

	totalStock := sum(dailyStock)
	totalDemand := sum(demand)

	if totalDemand == 0 {
		if totalStock > 0 {
			return 1
		}
		return 0
	}

	excessRatio := math.Max(0, (totalStock-totalDemand)/totalDemand)
	shelfLifeRisk := math.Max(0, (shelfRiskWindowDays-float64(shelfLifeDays))/shelfRiskWindowDays)

	horizonDays := float64(len(dailyStock))
	horizonRisk := math.Max(0, (horizonDays-float64(shelfLifeDays))/math.Max(horizonDays, 1))

	risk := excessRiskWeight*excessRatio + shelfRiskWeight*shelfLifeRisk + horizonRiskWeight*horizonRisk

	return clamp(risk, 0, 1)
}

// StatusFor classifies a planned stock quantity against predicted demand.
// Thresholds tighten with perishability; a ratio exactly on a threshold
// resolves to optimal.
func (c Config) StatusFor(recommendedStock, predictedDemand float64, shelfLifeDays int) domain.StockStatus {
	if predictedDemand == 0 {
		if recommendedStock == 0 {
			return domain.StatusOptimal
		}
		return domain.StatusOverstock
	}

	ratio := recommendedStock / predictedDemand
	band := c.bandFor(shelfLifeDays)

	switch {
	case ratio < band.Understock:
		return domain.StatusUnderstock
	case ratio > band.Overstock:
		return domain.StatusOverstock
	default:
		return domain.StatusOptimal
	}
}
