package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/freshcast/backend-go/internal/domain"
	"github.com/freshcast/backend-go/internal/forecast"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	salesRows    int
	productsRows int
	weatherRows  int
}

func (r *stubRepo) ImportSales(ctx context.Context, data []byte) (domain.ImportStats, error) {
	r.salesRows++
	return domain.ImportStats{Filename: "sales.csv", Rows: 3, Columns: []string{"date", "product_id", "quantity_sold", "day_of_week", "promotion"}}, nil
}

func (r *stubRepo) ImportProducts(ctx context.Context, data []byte) (domain.ImportStats, error) {
	r.productsRows++
	return domain.ImportStats{Filename: "products.csv", Rows: 2, Columns: []string{"product_id", "product_name", "shelf_life_days", "category"}}, nil
}

func (r *stubRepo) ImportWeather(ctx context.Context, data []byte) (domain.ImportStats, error) {
	r.weatherRows++
	return domain.ImportStats{Filename: "weather.csv", Rows: 4, Columns: []string{"date", "temperature", "humidity", "precipitation"}}, nil
}

func (r *stubRepo) Sales(ctx context.Context) ([]domain.SalesRecord, error) {
	return nil, fmt.Errorf("sales: %w", domain.ErrNotFound)
}

func (r *stubRepo) Products(ctx context.Context) ([]domain.Product, error) {
	return nil, fmt.Errorf("products: %w", domain.ErrNotFound)
}

func (r *stubRepo) Weather(ctx context.Context) ([]domain.WeatherRecord, error) {
	return nil, fmt.Errorf("weather: %w", domain.ErrNotFound)
}

type stubModel struct {
	invalidated int
	trained     int
	trainErr    error
}

func (m *stubModel) Train(ctx context.Context) (*forecast.Model, error) {
	m.trained++
	return &forecast.Model{}, m.trainErr
}

func (m *stubModel) Invalidate(ctx context.Context) {
	m.invalidated++
}

func TestUploadSalesRetrainsModel(t *testing.T) {
	repo := &stubRepo{}
	model := &stubModel{}
	planCache := newMemPlanCache()
	planCache.entries["stale"] = &domain.PlanResult{}
	svc := NewDatasetService(repo, model, planCache)

	imported, err := svc.Upload(context.Background(), []DatasetFile{{Dataset: "sales", Data: []byte("csv")}})

	require.NoError(t, err)
	require.Equal(t, 3, imported["sales"].Rows)
	require.Equal(t, "sales.csv", imported["sales"].Filename)
	require.Equal(t, 1, model.invalidated)
	require.Equal(t, 1, model.trained)
	require.Empty(t, planCache.entries, "stale plans dropped")
}

func TestUploadBatchRetrainsOnce(t *testing.T) {
	repo := &stubRepo{}
	model := &stubModel{}
	svc := NewDatasetService(repo, model, newMemPlanCache())

	imported, err := svc.Upload(context.Background(), []DatasetFile{
		{Dataset: "sales", Data: []byte("csv")},
		{Dataset: "products", Data: []byte("csv")},
		{Dataset: "weather", Data: []byte("csv")},
	})

	require.NoError(t, err)
	require.Len(t, imported, 3)
	require.Equal(t, 4, imported["weather"].Rows)
	require.Equal(t, 1, repo.salesRows)
	require.Equal(t, 1, repo.productsRows)
	require.Equal(t, 1, repo.weatherRows)
	require.Equal(t, 1, model.trained, "one retrain covers the whole batch")
}

func TestUploadProductsSkipsRetrain(t *testing.T) {
	model := &stubModel{}
	svc := NewDatasetService(&stubRepo{}, model, newMemPlanCache())

	imported, err := svc.Upload(context.Background(), []DatasetFile{{Dataset: "products", Data: []byte("csv")}})

	require.NoError(t, err)
	require.Equal(t, 2, imported["products"].Rows)
	require.Zero(t, model.trained, "product attributes do not affect the demand model")
}

func TestUploadToleratesMissingTrainingData(t *testing.T) {
	// First upload ever may be sales rows below the training minimum.
	model := &stubModel{trainErr: fmt.Errorf("too few rows: %w", domain.ErrValidation)}
	svc := NewDatasetService(&stubRepo{}, model, newMemPlanCache())

	_, err := svc.Upload(context.Background(), []DatasetFile{{Dataset: "sales", Data: []byte("csv")}})

	require.NoError(t, err)
}

func TestUploadUnknownDataset(t *testing.T) {
	svc := NewDatasetService(&stubRepo{}, &stubModel{}, newMemPlanCache())

	_, err := svc.Upload(context.Background(), []DatasetFile{{Dataset: "inventory", Data: []byte("csv")}})

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUploadNoFiles(t *testing.T) {
	svc := NewDatasetService(&stubRepo{}, &stubModel{}, newMemPlanCache())

	_, err := svc.Upload(context.Background(), nil)

	require.ErrorIs(t, err, domain.ErrValidation)
}
