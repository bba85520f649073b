package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/freshcast/backend-go/internal/config"
	"github.com/freshcast/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	planKeyPrefix     = "plan:result"
	planScanBatchSize = 100
)

// PlanCache stores computed stock plans keyed by the planning request.
// Entries are short-lived; any dataset upload or model retrain invalidates
// everything.
type PlanCache interface {
	GetPlan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, bool, error)
	SetPlan(ctx context.Context, productIDs []string, horizon int, plan *domain.PlanResult) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPlanCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) GetPlan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, bool, error) {
	key := buildPlanKey(productIDs, horizon)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var plan domain.PlanResult
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, false, fmt.Errorf("decode plan cache: %w", err)
	}

	return &plan, true, nil
}

func (c *redisPlanCache) SetPlan(ctx context.Context, productIDs []string, horizon int, plan *domain.PlanResult) error {
	key := buildPlanKey(productIDs, horizon)
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPlanCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, planKeyPrefix, planScanBatchSize)
}

func (n *noopPlanCache) GetPlan(ctx context.Context, productIDs []string, horizon int) (*domain.PlanResult, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetPlan(ctx context.Context, productIDs []string, horizon int, plan *domain.PlanResult) error {
	return nil
}

func (n *noopPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPlanKey(productIDs []string, horizon int) string {
	return fmt.Sprintf("%s:%s", planKeyPrefix, planRequestHash(productIDs, horizon))
}

// planRequestHash normalizes the request so id order and whitespace do not
// split cache entries. A nil id list (plan the default selection) hashes
// differently from any explicit list.
func planRequestHash(productIDs []string, horizon int) string {
	parts := []string{"horizon=" + strconv.Itoa(horizon)}

	if productIDs != nil {
		normalized := make([]string, 0, len(productIDs))
		for _, id := range productIDs {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			normalized = append(normalized, id)
		}
		sort.Strings(normalized)
		parts = append(parts, "products="+strings.Join(normalized, ","))
	}

	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
