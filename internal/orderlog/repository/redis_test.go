package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-storefront-service/internal/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisClient) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, cache.FromClient(client)
}

var base = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

func order(i int) model.OrderDraft {
	return model.OrderDraft{
		ID:        fmt.Sprintf("order-%d", i),
		Customer:  model.Customer{Name: "Client", City: "Rabat"},
		Total:     decimal.NewFromInt(int64(10 * i)),
		CreatedAt: base.Add(time.Duration(i) * time.Minute),
	}
}

func TestAppendAndList_NewestFirst(t *testing.T) {
	_, rc := setupTestRedis(t)
	repo := NewRedisRepository(rc, "", 0)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Append(ctx, order(i)))
	}

	orders, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-3", orders[0].ID)
	assert.Equal(t, "order-1", orders[2].ID)
	assert.True(t, orders[0].Total.Equal(decimal.NewFromInt(30)))

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAppend_CapsList(t *testing.T) {
	mr, rc := setupTestRedis(t)
	repo := NewRedisRepository(rc, "orders:test", 2)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(ctx, order(i)))
	}

	list, err := mr.List("orders:test")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	orders, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"order-5", "order-4"}, []string{orders[0].ID, orders[1].ID})
}

func TestList_SortsByDate(t *testing.T) {
	_, rc := setupTestRedis(t)
	repo := NewRedisRepository(rc, "", 0)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, order(2)))
	require.NoError(t, repo.Append(ctx, order(1)))

	orders, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "order-2", orders[0].ID)
}

func TestList_Empty(t *testing.T) {
	_, rc := setupTestRedis(t)
	orders, err := NewRedisRepository(rc, "", 10).List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestList_CorruptEntry(t *testing.T) {
	mr, rc := setupTestRedis(t)
	_, err := mr.Lpush(DefaultKey, "not json")
	require.NoError(t, err)

	_, err = NewRedisRepository(rc, "", 0).List(context.Background(), 0)
	assert.Error(t, err)
}

func TestAppend_RedisDown(t *testing.T) {
	mr, rc := setupTestRedis(t)
	mr.Close()

	assert.Error(t, NewRedisRepository(rc, "", 0).Append(context.Background(), order(1)))
}
