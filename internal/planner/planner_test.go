package planner

import (
	"context"
	"fmt"
	"testing"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

type stubForecasts struct {
	forecasts map[string]domain.DemandForecast
	err       error
	calls     int
}

func (s *stubForecasts) Forecast(ctx context.Context, productIDs []string, horizon int) (map[string]domain.DemandForecast, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.forecasts, nil
}

type stubCatalog struct {
	profiles map[string]domain.ProductShelfProfile
	ids      []string
}

func (s *stubCatalog) Lookup(ctx context.Context, productID string) (*domain.ProductShelfProfile, error) {
	profile, ok := s.profiles[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	return &profile, nil
}

func (s *stubCatalog) ListIDs(ctx context.Context, limit int) ([]string, error) {
	if limit > len(s.ids) {
		limit = len(s.ids)
	}
	return s.ids[:limit], nil
}

func steadyForecast(name string, perDay float64, days int) domain.DemandForecast {
	daily := make([]float64, days)
	var total float64
	for i := range daily {
		daily[i] = perDay
		total += perDay
	}
	return domain.DemandForecast{
		ProductName:   name,
		DailyForecast: daily,
		TotalForecast: total,
		AvgDaily:      perDay,
	}
}

func newTestPlanner(forecasts *stubForecasts, catalog *stubCatalog) *Planner {
	return New(forecasts, catalog, DefaultConfig())
}

func TestPlanRejectsEmptyProductList(t *testing.T) {
	p := newTestPlanner(&stubForecasts{}, &stubCatalog{})

	_, err := p.Plan(context.Background(), []string{}, 7)

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlanRejectsNonPositiveHorizon(t *testing.T) {
	p := newTestPlanner(&stubForecasts{}, &stubCatalog{})

	_, err := p.Plan(context.Background(), []string{"P001"}, 0)

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlanEmptyCatalog(t *testing.T) {
	p := newTestPlanner(&stubForecasts{}, &stubCatalog{})

	_, err := p.Plan(context.Background(), nil, 7)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanDefaultsToCatalogSelection(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{
		"P001": steadyForecast("Milk", 50, 7),
		"P002": steadyForecast("Bread", 30, 7),
	}}
	catalog := &stubCatalog{
		ids: []string{"P001", "P002"},
		profiles: map[string]domain.ProductShelfProfile{
			"P001": {ProductID: "P001", DisplayName: "Milk", ShelfLifeDays: 5},
			"P002": {ProductID: "P002", DisplayName: "Bread", ShelfLifeDays: 3},
		},
	}
	p := newTestPlanner(forecasts, catalog)

	result, err := p.Plan(context.Background(), nil, 7)

	require.NoError(t, err)
	require.Equal(t, 1, forecasts.calls, "forecasts are fetched in one batch call")
	require.Len(t, result.StockPlan, 2)
	require.Empty(t, result.Omitted)
	require.Equal(t, 2, result.TotalProducts)
}

func TestPlanPreservesInputOrder(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{
		"P001": steadyForecast("Milk", 50, 7),
		"P002": steadyForecast("Bread", 30, 7),
		"P003": steadyForecast("Eggs", 20, 7),
	}}
	catalog := &stubCatalog{profiles: map[string]domain.ProductShelfProfile{
		"P001": {ProductID: "P001", DisplayName: "Milk", ShelfLifeDays: 5},
		"P002": {ProductID: "P002", DisplayName: "Bread", ShelfLifeDays: 3},
		"P003": {ProductID: "P003", DisplayName: "Eggs", ShelfLifeDays: 21},
	}}
	p := newTestPlanner(forecasts, catalog)

	result, err := p.Plan(context.Background(), []string{"P003", "P001", "P002"}, 7)

	require.NoError(t, err)
	require.Len(t, result.StockPlan, 3)
	require.Equal(t, "P003", result.StockPlan[0].ProductID)
	require.Equal(t, "P001", result.StockPlan[1].ProductID)
	require.Equal(t, "P002", result.StockPlan[2].ProductID)
}

func TestPlanOmitsUnresolvableProducts(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{
		"P001": steadyForecast("Milk", 50, 7),
		"P404": steadyForecast("Ghost", 10, 7),
	}}
	catalog := &stubCatalog{profiles: map[string]domain.ProductShelfProfile{
		"P001": {ProductID: "P001", DisplayName: "Milk", ShelfLifeDays: 5},
		"P777": {ProductID: "P777", DisplayName: "Cheese", ShelfLifeDays: 14},
	}}
	p := newTestPlanner(forecasts, catalog)

	// P404 has a forecast but no catalog entry; P777 the reverse.
	result, err := p.Plan(context.Background(), []string{"P001", "P404", "P777"}, 7)

	require.NoError(t, err)
	require.Len(t, result.StockPlan, 1)
	require.Equal(t, "P001", result.StockPlan[0].ProductID)
	require.ElementsMatch(t, []string{"P404", "P777"}, result.Omitted)
}

func TestPlanRecordFields(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{
		"P001": {
			ProductName:   "Milk",
			DailyForecast: []float64{40, 45, 50, 55, 60, 50, 45},
			TotalForecast: 345,
		},
	}}
	catalog := &stubCatalog{profiles: map[string]domain.ProductShelfProfile{
		"P001": {ProductID: "P001", DisplayName: "Milk", ShelfLifeDays: 7},
	}}
	p := newTestPlanner(forecasts, catalog)

	result, err := p.Plan(context.Background(), []string{"P001"}, 7)

	require.NoError(t, err)
	require.Len(t, result.StockPlan, 1)

	record := result.StockPlan[0]
	require.Equal(t, "Milk", record.ProductName)
	require.Equal(t, 7, record.ShelfLifeDays)
	require.Equal(t, 345.0, record.PredictedDemand)
	require.Equal(t, domain.StatusOptimal, record.StockStatus)
	require.InDelta(t, sum(record.DailyStockPlan), record.RecommendedStock, 0.01)
	require.NotEmpty(t, record.Recommendations)
	require.LessOrEqual(t, len(record.Recommendations), 4)
	require.InDelta(t, record.RecommendedStock*5.0, record.CostAnalysis.EstimatedInventoryValue, 0.01)
}

func TestPlanDefaultsShelfLife(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{
		"P001": steadyForecast("Mystery", 20, 7),
	}}
	catalog := &stubCatalog{profiles: map[string]domain.ProductShelfProfile{
		"P001": {ProductID: "P001", DisplayName: "Mystery"},
	}}
	p := newTestPlanner(forecasts, catalog)

	result, err := p.Plan(context.Background(), []string{"P001"}, 7)

	require.NoError(t, err)
	require.Equal(t, 7, result.StockPlan[0].ShelfLifeDays)
}

func TestPlanSummary(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{
		"P001": steadyForecast("Milk", 50, 7),
		"P002": steadyForecast("Bread", 30, 7),
	}}
	catalog := &stubCatalog{profiles: map[string]domain.ProductShelfProfile{
		"P001": {ProductID: "P001", DisplayName: "Milk", ShelfLifeDays: 5},
		"P002": {ProductID: "P002", DisplayName: "Bread", ShelfLifeDays: 3},
	}}
	p := newTestPlanner(forecasts, catalog)

	result, err := p.Plan(context.Background(), []string{"P001", "P002"}, 7)

	require.NoError(t, err)

	summary := result.Summary
	var wantStock, wantDemand float64
	for _, record := range result.StockPlan {
		wantStock += record.RecommendedStock
		wantDemand += record.PredictedDemand
	}
	require.InDelta(t, wantStock, summary.TotalRecommendedStock, 0.01)
	require.InDelta(t, wantDemand, summary.TotalPredictedDemand, 0.01)
	require.Greater(t, summary.OverallServiceLevel, 0.0)
	require.False(t, summary.OptimizationDate.IsZero())

	var counted int
	for _, n := range summary.StockStatusDistribution {
		counted += n
	}
	require.Equal(t, len(result.StockPlan), counted)
}

func TestPlanEmptyRecordsYieldEmptySummary(t *testing.T) {
	forecasts := &stubForecasts{forecasts: map[string]domain.DemandForecast{}}
	catalog := &stubCatalog{profiles: map[string]domain.ProductShelfProfile{}}
	p := newTestPlanner(forecasts, catalog)

	result, err := p.Plan(context.Background(), []string{"P001"}, 7)

	require.NoError(t, err)
	require.Empty(t, result.StockPlan)
	require.Equal(t, []string{"P001"}, result.Omitted)
	require.Equal(t, domain.PlanSummary{}, result.Summary)
}
