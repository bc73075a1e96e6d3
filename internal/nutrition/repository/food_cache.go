package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/logging"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
)

const foodKeyPrefix = "nusa:food:" // nusa:food:{canonical name}

// FoodSource is the authoritative food lookup behind the cache.
type FoodSource interface {
	GetFoodByName(ctx context.Context, name string) (*domain.Food, error)
}

// FoodCache is a Redis read-through cache over the food table. Redis
// failures degrade to direct lookups.
type FoodCache struct {
	client *redis.Client
	source FoodSource
	ttl    time.Duration
}

// NewFoodCache creates a FoodCache
func NewFoodCache(client *redis.Client, source FoodSource, ttl time.Duration) *FoodCache {
	return &FoodCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

// GetFoodByName returns the food for a predicted label.
func (r *FoodCache) GetFoodByName(ctx context.Context, name string) (*domain.Food, error) {
	logger := logging.NewLogger(ctx)
	key := r.foodKey(name)

	data, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var food domain.Food
		if err := json.Unmarshal([]byte(data), &food); err == nil {
			return &food, nil
		}
		logger.LogWarnf("food_cache.get", "dropping undecodable entry %s", key)
		r.client.Del(ctx, key)
	case errors.Is(err, redis.Nil):
	default:
		logger.LogWarnf("food_cache.get", "redis unavailable: %v", err)
	}

	food, err := r.source.GetFoodByName(ctx, name)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(food)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal food: %w", err)
	}
	if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
		logger.LogWarnf("food_cache.set", "failed to cache %s: %v", key, err)
	}

	return food, nil
}

// Invalidate drops the cached entries for the given names.
func (r *FoodCache) Invalidate(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, r.foodKey(n))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate foods: %w", err)
	}
	return nil
}

func (r *FoodCache) foodKey(name string) string {
	return foodKeyPrefix + domain.NormalizeFoodName(name)
}
