package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fekuna/omnipos-storefront-service/internal/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "storefront:orders"

// RedisRepository keeps orders in a capped Redis list. LPUSH puts the newest order first.
type RedisRepository struct {
	cache *cache.RedisClient
	key   string
	max   int64
}

func NewRedisRepository(c *cache.RedisClient, key string, max int) *RedisRepository {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRepository{cache: c, key: key, max: int64(max)}
}

func (r *RedisRepository) Append(ctx context.Context, order model.OrderDraft) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", order.ID, err)
	}

	_, err = r.cache.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, data)
		if r.max > 0 {
			pipe.LTrim(ctx, r.key, 0, r.max-1)
		}
		return nil
	})
	return err
}

func (r *RedisRepository) List(ctx context.Context, limit int) ([]model.OrderDraft, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	vals, err := r.cache.Client.LRange(ctx, r.key, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	orders := make([]model.OrderDraft, 0, len(vals))
	for _, v := range vals {
		var o model.OrderDraft
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, o)
	}
	// Notifications land concurrently, so push order can differ slightly from confirmation order.
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
