// internal/planner/planner.go
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// defaultProductLimit bounds the catalog selection when the caller passes
// no explicit product ids.
const defaultProductLimit = 10

// planWorkers caps the per-product goroutines in one planning call.
// Allocations are pure functions, so the loop is safe to parallelize.
const planWorkers = 4

// ForecastProvider supplies per-day demand estimates per product. Ids the
// provider cannot serve are simply absent from the returned map.
type ForecastProvider interface {
	Forecast(ctx context.Context, productIDs []string, horizon int) (map[string]domain.DemandForecast, error)
}

// ProductCatalog resolves static product attributes.
type ProductCatalog interface {
	Lookup(ctx context.Context, productID string) (*domain.ProductShelfProfile, error)
	ListIDs(ctx context.Context, limit int) ([]string, error)
}

// Planner orchestrates allocation, risk scoring, and recommendations across
// a batch of products. All state is request-scoped; Plan is safe for
// concurrent use.
type Planner struct {
	forecasts ForecastProvider
	catalog   ProductCatalog
	cfg       Config
	allocator *Allocator
}

func New(forecasts ForecastProvider, catalog ProductCatalog, cfg Config) *Planner {
	return &Planner{
		forecasts: forecasts,
		catalog:   catalog,
		cfg:       cfg,
		allocator: NewAllocator(cfg),
	}
}

// Plan builds a stock plan for the given product ids over the planning
// horizon. A nil id slice selects a deterministic default subset of the
// catalog; an explicit empty slice is a validation error. Ids that resolve
// neither a forecast nor a catalog entry are reported in Omitted rather
// than failing the call.
func (p *Planner) Plan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: planning horizon must be positive, got %d", domain.ErrValidation, horizon)
	}
	if productIDs != nil && len(productIDs) == 0 {
		return nil, fmt.Errorf("%w: product ids must be a non-empty list", domain.ErrValidation)
	}

	if productIDs == nil {
		ids, err := p.catalog.ListIDs(ctx, defaultProductLimit)
		if err != nil {
			return nil, fmt.Errorf("listing catalog products: %w", err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: product catalog is empty", domain.ErrNotFound)
		}
		productIDs = ids
	}

	forecasts, err := p.forecasts.Forecast(ctx, productIDs, horizon)
	if err != nil {
		return nil, fmt.Errorf("fetching demand forecasts: %w", err)
	}

	records := make([]*domain.PlanRecord, len(productIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(planWorkers)
	for i, id := range productIDs {
		g.Go(func() error {
			record, err := p.planProduct(gctx, id, forecasts, horizon)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.PlanResult{
		StockPlan:       make([]domain.PlanRecord, 0, len(productIDs)),
		Omitted:         make([]string, 0),
		PlanningHorizon: horizon,
	}
	for i, record := range records {
		if record == nil {
			result.Omitted = append(result.Omitted, productIDs[i])
			continue
		}
		result.StockPlan = append(result.StockPlan, *record)
	}
	result.TotalProducts = len(result.StockPlan)
	result.Summary = summarize(result.StockPlan)

	return result, nil
}

// planProduct runs allocate -> evaluate -> recommend for one product.
// A nil record with nil error means the id could not be resolved.
func (p *Planner) planProduct(ctx context.Context, productID string, forecasts map[string]domain.DemandForecast, horizon int) (*domain.PlanRecord, error) {
	forecast, ok := forecasts[productID]
	if !ok || len(forecast.DailyForecast) == 0 {
		log.Warn().Str("product_id", productID).Msg("no forecast available, omitting from plan")
		return nil, nil
	}

	profile, err := p.catalog.Lookup(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Str("product_id", productID).Msg("product not in catalog, omitting from plan")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog lookup for %s: %w", productID, err)
	}

	shelfLife := profile.ShelfLifeDays
	if shelfLife <= 0 {
		shelfLife = p.cfg.DefaultShelfLife
	}

	alloc := p.allocator.Allocate(forecast.DailyForecast, shelfLife, horizon)
	predictedDemand := round(forecast.TotalForecast, 2)
	status := p.cfg.StatusFor(alloc.TotalStock, predictedDemand, shelfLife)

	return &domain.PlanRecord{
		ProductID:        productID,
		ProductName:      profile.DisplayName,
		ShelfLifeDays:    shelfLife,
		PredictedDemand:  predictedDemand,
		RecommendedStock: alloc.TotalStock,
		DailyStockPlan:   alloc.DailyStock,
		StockStatus:      status,
		WastageRisk:      alloc.WastageRisk,
		ServiceLevel:     alloc.ServiceLevel,
		Recommendations:  p.cfg.Recommendations(alloc, status, shelfLife),
		CostAnalysis:     p.cfg.Costs(alloc),
	}, nil
}

func summarize(records []domain.PlanRecord) domain.PlanSummary {
	if len(records) == 0 {
		return domain.PlanSummary{}
	}

	var totalStock, totalDemand, serviceSum, riskSum float64
	distribution := make(map[domain.StockStatus]int)
	for _, record := range records {
		totalStock += record.RecommendedStock
		totalDemand += record.PredictedDemand
		serviceSum += record.ServiceLevel
		riskSum += record.WastageRisk
		distribution[record.StockStatus]++
	}

	n := float64(len(records))

	return domain.PlanSummary{
		TotalRecommendedStock:   round(totalStock, 2),
		TotalPredictedDemand:    round(totalDemand, 2),
		OverallServiceLevel:     round(serviceSum/n, 2),
		AverageWastageRisk:      round(riskSum/n, 3),
		StockStatusDistribution: distribution,
		OptimizationDate:        time.Now(),
	}
}
