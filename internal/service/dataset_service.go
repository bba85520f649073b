package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshcast/backend-go/internal/cache"
	"github.com/freshcast/backend-go/internal/domain"
	"github.com/freshcast/backend-go/internal/forecast"
	"github.com/freshcast/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// DemandModel is the training side of the forecaster.
type DemandModel interface {
	Train(ctx context.Context) (*forecast.Model, error)
	Invalidate(ctx context.Context)
}

// DatasetService imports uploaded CSV datasets and keeps the demand model
// and plan cache consistent with them.
type DatasetService struct {
	repo      repository.DatasetRepository
	model     DemandModel
	planCache cache.PlanCache
}

func NewDatasetService(repo repository.DatasetRepository, model DemandModel, planCache cache.PlanCache) *DatasetService {
	if planCache == nil {
		planCache = cache.NewNoopPlanCache()
	}
	return &DatasetService{repo: repo, model: model, planCache: planCache}
}

// DatasetFile is one uploaded file, keyed by the dataset it carries.
type DatasetFile struct {
	Dataset string
	Data    []byte
}

// Upload validates and persists a batch of dataset files, then retrains the
// demand model once when training data changed. Retraining is best-effort: a
// products-only upload may legitimately precede any sales data.
func (s *DatasetService) Upload(ctx context.Context, files []DatasetFile) (map[string]domain.ImportStats, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files to import", domain.ErrValidation)
	}

	imported := make(map[string]domain.ImportStats, len(files))
	retrain := false

	for _, file := range files {
		var (
			stats domain.ImportStats
			err   error
		)

		switch file.Dataset {
		case "sales":
			stats, err = s.repo.ImportSales(ctx, file.Data)
			retrain = true
		case "products":
			stats, err = s.repo.ImportProducts(ctx, file.Data)
		case "weather":
			stats, err = s.repo.ImportWeather(ctx, file.Data)
			retrain = true
		default:
			return nil, fmt.Errorf("%w: unknown dataset %q (expected sales, products, or weather)", domain.ErrValidation, file.Dataset)
		}
		if err != nil {
			return nil, err
		}

		log.Info().Str("dataset", file.Dataset).Int("rows", stats.Rows).Msg("dataset imported")
		imported[file.Dataset] = stats
	}

	if err := s.planCache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("upload: plan cache invalidation failed")
	}

	if retrain {
		s.model.Invalidate(ctx)
		if _, err := s.model.Train(ctx); err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
				log.Warn().Err(err).Msg("upload: model retrain skipped")
			} else {
				return nil, fmt.Errorf("retraining demand model: %w", err)
			}
		}
	}

	return imported, nil
}
