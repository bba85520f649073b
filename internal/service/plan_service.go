package service

import (
	"context"

	"github.com/freshcast/backend-go/internal/cache"
	"github.com/freshcast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// StockPlanner is the planning engine behind the service.
type StockPlanner interface {
	Plan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, error)
}

// PlanService fronts the planner with a short-lived result cache. Cache
// failures degrade to a recompute, never to an error.
type PlanService struct {
	planner StockPlanner
	cache   cache.PlanCache
}

func NewPlanService(planner StockPlanner, cacheImpl cache.PlanCache) *PlanService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &PlanService{planner: planner, cache: cacheImpl}
}

func (s *PlanService) GetPlan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, error) {
	if plan, ok, err := s.cache.GetPlan(ctx, productIDs, horizon); err == nil && ok {
		return plan, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("plan: cache get failed")
	}

	plan, err := s.planner.Plan(ctx, productIDs, horizon)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPlan(ctx, productIDs, horizon, plan); err != nil {
		log.Warn().Err(err).Msg("plan: cache set failed")
	}

	return plan, nil
}
