// internal/planner/config.go
package planner

// StatusBand maps a shelf-life range to stock-status thresholds. A planned
// stock/demand ratio below Understock classifies as understock, above
// Overstock as overstock; boundaries themselves are optimal.
type StatusBand struct {
	MaxShelfLifeDays int // inclusive upper bound; 0 means unbounded
	Understock       float64
	Overstock        float64
}

// Config carries the planning constants. The cost figures are illustrative
// placeholders, kept configurable rather than baked into the logic.
type Config struct {
	// MinServiceLevel is the service-level percentage below which the
	// correction pass scales the allocation up. Runs at most once.
	MinServiceLevel float64

	// SafetyStockCap bounds the safety buffer as a fraction of base demand.
	SafetyStockCap float64

	// ShelfLifeNormDays is the shelf life at which the safety buffer is no
	// longer scaled down for perishability.
	ShelfLifeNormDays float64

	// DefaultShelfLife substitutes for missing or non-positive shelf lives.
	DefaultShelfLife int

	// BaselineDailyDemand is the per-day unit assumption behind the
	// order-adjustment magnitudes in recommendations.
	BaselineDailyDemand float64

	UnitCost        float64
	HoldingCostRate float64 // per day, as a fraction of inventory value
	HoldingCostDays int

	StatusBands []StatusBand
}

// DefaultStatusBands reflect that short shelf lives tolerate less excess.
func DefaultStatusBands() []StatusBand {
	return []StatusBand{
		{MaxShelfLifeDays: 3, Understock: 0.90, Overstock: 1.20},
		{MaxShelfLifeDays: 7, Understock: 0.85, Overstock: 1.30},
		{MaxShelfLifeDays: 0, Understock: 0.80, Overstock: 1.40},
	}
}

func DefaultConfig() Config {
	return Config{
		MinServiceLevel:     80.0,
		SafetyStockCap:      0.5,
		ShelfLifeNormDays:   30.0,
		DefaultShelfLife:    7,
		BaselineDailyDemand: 30.0,
		UnitCost:            5.0,
		HoldingCostRate:     0.02,
		HoldingCostDays:     7,
		StatusBands:         DefaultStatusBands(),
	}
}

func (c Config) bandFor(shelfLifeDays int) StatusBand {
	for _, band := range c.StatusBands {
		if band.MaxShelfLifeDays > 0 && shelfLifeDays <= band.MaxShelfLifeDays {
			return band
		}
	}
	if len(c.StatusBands) > 0 {
		return c.StatusBands[len(c.StatusBands)-1]
	}
	return StatusBand{Understock: 0.80, Overstock: 1.40}
}
