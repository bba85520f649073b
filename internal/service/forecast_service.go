package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/freshcast/backend-go/internal/forecast"
)

// DemandForecaster is the prediction side of the forecaster.
type DemandForecaster interface {
	Forecast(ctx context.Context, productIDs []string, horizon int) (map[string]domain.DemandForecast, error)
	Train(ctx context.Context) (*forecast.Model, error)
}

// ProductResolver resolves display names and default product selections for
// forecast responses.
type ProductResolver interface {
	Lookup(ctx context.Context, productID string) (*domain.ProductShelfProfile, error)
	ListIDs(ctx context.Context, limit int) ([]string, error)
}

// defaultForecastProducts bounds the selection when no ids are requested.
const defaultForecastProducts = 10

// ForecastService serves standalone demand predictions, decorated with
// catalog names where the product is known.
type ForecastService struct {
	forecaster DemandForecaster
	catalog    ProductResolver
}

func NewForecastService(forecaster DemandForecaster, catalog ProductResolver) *ForecastService {
	return &ForecastService{forecaster: forecaster, catalog: catalog}
}

// Predict forecasts demand for the requested products; with no ids it
// forecasts a default subset of the catalog.
func (s *ForecastService) Predict(ctx context.Context, productIDs []string, horizon int) (map[string]domain.DemandForecast, error) {
	if len(productIDs) == 0 {
		ids, err := s.catalog.ListIDs(ctx, defaultForecastProducts)
		if err != nil {
			return nil, fmt.Errorf("listing catalog products: %w", err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: product catalog is empty", domain.ErrNotFound)
		}
		productIDs = ids
	}

	forecasts, err := s.forecaster.Forecast(ctx, productIDs, horizon)
	if err != nil {
		return nil, err
	}

	for id, fc := range forecasts {
		fc.ProductName = fmt.Sprintf("Product %s", id)
		if profile, err := s.catalog.Lookup(ctx, id); err == nil {
			fc.ProductName = profile.DisplayName
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		forecasts[id] = fc
	}

	return forecasts, nil
}

// Train retrains the demand model on the current datasets.
func (s *ForecastService) Train(ctx context.Context) (*forecast.Model, error) {
	return s.forecaster.Train(ctx)
}
