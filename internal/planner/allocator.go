// internal/planner/allocator.go
package planner

import (
	"math"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/montanaflynn/stats"
)

// Allocator turns a per-day demand series into a recommended stock series
// with a variability-driven safety buffer. Allocate is a pure function of
// its inputs; the allocator holds only configuration.
type Allocator struct {
	cfg Config
}

func NewAllocator(cfg Config) *Allocator {
	return &Allocator{cfg: cfg}
}

// Allocate computes the day-by-day stock allocation for one product.
//
// The safety buffer scales with demand variability (capped at
// cfg.SafetyStockCap of base demand) and shrinks for short shelf lives.
// Peak days (>120% of average) are padded by 10%, trough days (<80%)
// trimmed by 10%. If the resulting service level falls below
// cfg.MinServiceLevel, a single correction pass scales the whole series up.
func (a *Allocator) Allocate(demand []float64, shelfLifeDays, horizon int) domain.AllocationResult {
	n := horizon
	if len(demand) < n {
		n = len(demand)
	}

	if n <= 0 || len(demand) == 0 {
		return domain.AllocationResult{
			DailyStock:   make([]float64, 1),
			TotalStock:   0,
			WastageRisk:  0,
			ServiceLevel: 0,
		}
	}

	avgDemand, _ := stats.Mean(demand)
	var demandStd float64
	if len(demand) > 1 {
		demandStd, _ = stats.StandardDeviationPopulation(demand)
	} else {
		// Assumed variability floor when only one observation exists.
		demandStd = avgDemand * 0.2
	}

	safetyFactor := math.Min(a.cfg.SafetyStockCap, demandStd/math.Max(avgDemand, 1))
	shelfFactor := clamp(float64(shelfLifeDays)/a.cfg.ShelfLifeNormDays, 0.1, 1.0)

	dailyStock := make([]float64, n)
	for d := 0; d < n; d++ {
		baseStock := demand[d]
		if baseStock > avgDemand*1.2 {
			baseStock *= 1.1
		} else if baseStock < avgDemand*0.8 {
			baseStock *= 0.9
		}

		safetyStock := baseStock * safetyFactor * shelfFactor
		dailyStock[d] = math.Max(0, round(baseStock+safetyStock, 2))
	}

	totalStock := sum(dailyStock)
	totalDemand := sum(demand)

	risk := WastageRisk(dailyStock, demand, shelfLifeDays)
	serviceLevel := math.Min(100, totalStock/math.Max(totalDemand, 1)*100)

	// Single correction pass; intentionally not iterated to convergence.
	if serviceLevel < a.cfg.MinServiceLevel {
		scale := a.cfg.MinServiceLevel / math.Max(serviceLevel, 1)
		for i := range dailyStock {
			dailyStock[i] *= scale
		}
		totalStock = sum(dailyStock)
		serviceLevel = math.Min(100, totalStock/math.Max(totalDemand, 1)*100)
		risk = WastageRisk(dailyStock, demand, shelfLifeDays)
	}

	for i := range dailyStock {
		dailyStock[i] = round(dailyStock[i], 2)
	}

	return domain.AllocationResult{
		DailyStock:   dailyStock,
		TotalStock:   round(totalStock, 2),
		WastageRisk:  round(risk, 3),
		ServiceLevel: round(serviceLevel, 2),
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round rounds v to the given number of decimal places.
func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
