package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
)

type countingSource struct {
	foods map[string]domain.Food
	calls int
}

func (s *countingSource) GetFoodByName(_ context.Context, name string) (*domain.Food, error) {
	s.calls++
	f, ok := s.foods[domain.NormalizeFoodName(name)]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	return &f, nil
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	return client, mr
}

func TestFoodCache_ReadThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	source := &countingSource{foods: map[string]domain.Food{
		"Lontong": {ID: "12", Name: "Lontong", Calories: 144, CaloriesFor3x: 388, Fat: 1},
	}}
	cache := NewFoodCache(client, source, time.Hour)

	f, err := cache.GetFoodByName(ctx, "lontong")
	require.NoError(t, err)
	assert.Equal(t, "12", f.ID)
	assert.Equal(t, 1, source.calls)
	assert.True(t, mr.Exists("nusa:food:Lontong"))

	f, err = cache.GetFoodByName(ctx, "Lontong")
	require.NoError(t, err)
	assert.Equal(t, 388, f.CaloriesFor3x)
	assert.Equal(t, 1, f.Fat)
	assert.Equal(t, 1, source.calls, "second lookup should be served from redis")

	mr.FastForward(2 * time.Hour)
	_, err = cache.GetFoodByName(ctx, "Lontong")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestFoodCache_NotFoundIsNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	source := &countingSource{foods: map[string]domain.Food{}}
	cache := NewFoodCache(client, source, time.Hour)

	_, err := cache.GetFoodByName(ctx, "Pizza")
	assert.ErrorIs(t, err, domain.ErrFoodNotFound)
	assert.False(t, mr.Exists("nusa:food:Pizza"))
}

func TestFoodCache_RedisDownFallsBack(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	mr.Close()

	source := &countingSource{foods: map[string]domain.Food{"Sate": {ID: "3", Name: "Sate"}}}
	cache := NewFoodCache(client, source, time.Hour)

	f, err := cache.GetFoodByName(context.Background(), "Sate")
	require.NoError(t, err)
	assert.Equal(t, "3", f.ID)
}

func TestFoodCache_Invalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	source := &countingSource{foods: map[string]domain.Food{"Sate": {ID: "3", Name: "Sate"}}}
	cache := NewFoodCache(client, source, time.Hour)

	_, err := cache.GetFoodByName(ctx, "Sate")
	require.NoError(t, err)
	require.True(t, mr.Exists("nusa:food:Sate"))

	require.NoError(t, cache.Invalidate(ctx, "Sate"))
	assert.False(t, mr.Exists("nusa:food:Sate"))
	require.NoError(t, cache.Invalidate(ctx))
}
