// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/freshcast/backend-go/internal/domain"
)

// DatasetRepository stores and serves the uploaded CSV datasets. Loads
// return domain.ErrNotFound when the dataset has not been uploaded yet.
type DatasetRepository interface {
	ImportSales(ctx context.Context, data []byte) (domain.ImportStats, error)
	ImportProducts(ctx context.Context, data []byte) (domain.ImportStats, error)
	ImportWeather(ctx context.Context, data []byte) (domain.ImportStats, error)

	Sales(ctx context.Context) ([]domain.SalesRecord, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Weather(ctx context.Context) ([]domain.WeatherRecord, error)
}
