// internal/planner/recommend.go
package planner

import (
	"fmt"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const maxRecommendations = 4

// Recommendations assembles at most four actionable messages in a fixed
// priority order: status advice first, then shelf-life handling, then
// service-level tuning.
func (c Config) Recommendations(alloc domain.AllocationResult, status domain.StockStatus, shelfLifeDays int) []string {
	recs := make([]string, 0, maxRecommendations)
	baseline := c.BaselineDailyDemand * float64(len(alloc.DailyStock))

	switch status {
	case domain.StatusOverstock:
		reduce := int((alloc.TotalStock - baseline) / 2)
		if reduce < 5 {
			reduce = 5
		}
		recs = append(recs, fmt.Sprintf("Consider reducing order quantity by %d units", reduce))
		if shelfLifeDays <= 7 {
			recs = append(recs, "Monitor closely for spoilage due to short shelf life")
		}
		recs = append(recs, "Consider promotional pricing to move excess inventory")

	case domain.StatusUnderstock:
		deficit := int(baseline - alloc.TotalStock)
		if deficit < 10 {
			deficit = 10
		}
		recs = append(recs, fmt.Sprintf("Increase order quantity by approximately %d units", deficit))
		recs = append(recs, "Monitor sales closely to avoid stockouts")

	default:
		recs = append(recs, "Stock level appears optimal for forecasted demand")
		if alloc.WastageRisk > 0.3 {
			recs = append(recs, "Monitor inventory turnover to minimize waste")
		}
	}

	if shelfLifeDays <= 3 {
		recs = append(recs, "Use FIFO (First In, First Out) inventory management")
		recs = append(recs, "Consider daily delivery for very perishable items")
	} else if shelfLifeDays <= 7 {
		recs = append(recs, "Implement proper cold chain management")
	}

	if alloc.ServiceLevel < 90 {
		recs = append(recs, "Consider increasing safety stock to improve service level")
	} else if alloc.ServiceLevel > 120 {
		recs = append(recs, "Review forecasting accuracy - may be over-forecasting")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	return recs
}

// Costs estimates the carrying cost of an allocation. Holding cost covers a
// fixed window of cfg.HoldingCostDays regardless of the actual horizon;
// spoilage cost scales inventory value by the wastage risk.
func (c Config) Costs(alloc domain.AllocationResult) domain.CostBreakdown {
	unitCost := decimal.NewFromFloat(c.UnitCost)
	inventoryValue := decimal.NewFromFloat(alloc.TotalStock).Mul(unitCost)

	holdingCost := inventoryValue.
		Mul(decimal.NewFromFloat(c.HoldingCostRate)).
		Mul(decimal.NewFromInt(int64(c.HoldingCostDays)))
	spoilageCost := inventoryValue.Mul(decimal.NewFromFloat(alloc.WastageRisk))

	return domain.CostBreakdown{
		EstimatedInventoryValue: inventoryValue.Round(2).InexactFloat64(),
		WeeklyHoldingCost:       holdingCost.Round(2).InexactFloat64(),
		PotentialSpoilageCost:   spoilageCost.Round(2).InexactFloat64(),
		TotalCostRisk:           holdingCost.Add(spoilageCost).Round(2).InexactFloat64(),
	}
}
