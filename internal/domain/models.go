// internal/domain/models.go
package domain

import "time"

// Product represents one row of the products dataset.
type Product struct {
	ProductID     string `json:"product_id" csv:"product_id"`
	ProductName   string `json:"product_name" csv:"product_name"`
	ShelfLifeDays int    `json:"shelf_life_days" csv:"shelf_life_days"`
	Category      string `json:"category" csv:"category"`
}

// SalesRecord represents one row of the sales dataset.
type SalesRecord struct {
	Date         string  `json:"date" csv:"date"`
	ProductID    string  `json:"product_id" csv:"product_id"`
	QuantitySold float64 `json:"quantity_sold" csv:"quantity_sold"`
	DayOfWeek    int     `json:"day_of_week" csv:"day_of_week"`
	Promotion    int     `json:"promotion" csv:"promotion"`
}

// WeatherRecord represents one row of the weather dataset.
type WeatherRecord struct {
	Date          string  `json:"date" csv:"date"`
	Temperature   float64 `json:"temperature" csv:"temperature"`
	Humidity      float64 `json:"humidity" csv:"humidity"`
	Precipitation float64 `json:"precipitation" csv:"precipitation"`
}

// ImportStats describes one imported dataset file.
type ImportStats struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
}

// ProductShelfProfile is the static product view the planner works with.
// Immutable for the duration of one planning call.
type ProductShelfProfile struct {
	ProductID     string `json:"product_id"`
	DisplayName   string `json:"display_name"`
	ShelfLifeDays int    `json:"shelf_life_days"`
}

// DemandForecast holds the per-day demand estimates for one product.
type DemandForecast struct {
	ProductName   string    `json:"product_name"`
	DailyForecast []float64 `json:"daily_forecast"`
	TotalForecast float64   `json:"total_forecast"`
	ForecastDates []string  `json:"forecast_dates"`
	AvgDaily      float64   `json:"avg_daily_demand"`
}

// AllocationResult is the output of the single-product allocator.
// TotalStock always equals the sum of DailyStock within rounding.
type AllocationResult struct {
	DailyStock   []float64 `json:"daily_stock"`
	TotalStock   float64   `json:"total_stock"`
	WastageRisk  float64   `json:"wastage_risk"`
	ServiceLevel float64   `json:"service_level"`
}

// CostBreakdown estimates the carrying cost of a planned allocation.
type CostBreakdown struct {
	EstimatedInventoryValue float64 `json:"estimated_inventory_value"`
	WeeklyHoldingCost       float64 `json:"weekly_holding_cost"`
	PotentialSpoilageCost   float64 `json:"potential_spoilage_cost"`
	TotalCostRisk           float64 `json:"total_cost_risk"`
}

// PlanRecord is the full planning output for one product.
type PlanRecord struct {
	ProductID        string        `json:"product_id"`
	ProductName      string        `json:"product_name"`
	ShelfLifeDays    int           `json:"shelf_life_days"`
	PredictedDemand  float64       `json:"predicted_demand"`
	RecommendedStock float64       `json:"recommended_stock"`
	DailyStockPlan   []float64     `json:"daily_stock_plan"`
	StockStatus      StockStatus   `json:"stock_status"`
	WastageRisk      float64       `json:"wastage_risk"`
	ServiceLevel     float64       `json:"service_level"`
	Recommendations  []string      `json:"recommendations"`
	CostAnalysis     CostBreakdown `json:"cost_analysis"`
}

// PlanSummary aggregates one planning call across all products.
type PlanSummary struct {
	TotalRecommendedStock   float64             `json:"total_recommended_stock"`
	TotalPredictedDemand    float64             `json:"total_predicted_demand"`
	OverallServiceLevel     float64             `json:"overall_service_level"`
	AverageWastageRisk      float64             `json:"average_wastage_risk"`
	StockStatusDistribution map[StockStatus]int `json:"stock_status_distribution"`
	OptimizationDate        time.Time           `json:"optimization_date"`
}

// PlanResult is the full response of one planning call. Omitted lists the
// product ids that could not be resolved against the forecast or catalog.
type PlanResult struct {
	StockPlan       []PlanRecord `json:"stock_plan"`
	Summary         PlanSummary  `json:"summary"`
	Omitted         []string     `json:"omitted"`
	PlanningHorizon int          `json:"planning_horizon"`
	TotalProducts   int          `json:"total_products"`
}
