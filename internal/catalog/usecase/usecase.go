package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"go.uber.org/zap"
)

const (
	// RelatedFetchLimit is how many records are read to build the related strip.
	RelatedFetchLimit = 5
	// RelatedMax is how many related products are shown once the current one is dropped.
	RelatedMax = 4

	DefaultCacheTTL = 5 * time.Minute

	cacheKeyPrefix = "catalog:list:"
)

type catalogUseCase struct {
	repo     catalog.Repository
	cache    *cache.RedisClient
	cacheTTL time.Duration
	logger   logger.ZapLogger
}

// NewCatalogUseCase builds the read side of the catalog. cache may be nil.
func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, ttl time.Duration, log logger.ZapLogger) catalog.UseCase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &catalogUseCase{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   log,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}
	ch, err := catalog.ParseChannel(filters.Channel)
	if err != nil {
		return nil, err
	}

	// 1. Cache
	cacheKey, err := uc.generateCacheKey(ch, filters.SearchQuery)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var products []model.Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
		}
	}

	// 2. Store
	records, err := uc.repo.ListProducts(ctx, 0)
	if err != nil {
		return nil, &catalog.FetchError{Op: "list", Err: err}
	}
	all, err := decodeAll(records)
	if err != nil {
		return nil, &catalog.FetchError{Op: "list", Err: err}
	}
	products := catalog.Classify(all, ch, filters.SearchQuery)

	// 3. Set cache
	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := uc.cache.Client.Set(ctx, cacheKey, data, uc.cacheTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache product list", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return products, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	rec, err := uc.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, &catalog.FetchError{Op: "get", Err: err}
	}
	if rec == nil {
		return nil, catalog.ErrNotFound
	}
	p, err := catalog.DecodeProduct(*rec)
	if err != nil {
		return nil, &catalog.FetchError{Op: "get", Err: err}
	}
	return &p, nil
}

// RelatedProducts reads a small window of the catalog and drops the current product.
func (uc *catalogUseCase) RelatedProducts(ctx context.Context, currentID string) ([]model.Product, error) {
	records, err := uc.repo.ListProducts(ctx, RelatedFetchLimit)
	if err != nil {
		return nil, &catalog.FetchError{Op: "related", Err: err}
	}

	related := make([]model.Product, 0, RelatedMax)
	for _, rec := range records {
		if rec.ID == currentID {
			continue
		}
		p, err := catalog.DecodeProduct(rec)
		if err != nil {
			// Malformed neighbours are skipped, not fatal.
			uc.logger.Warn("skipping malformed related product", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		related = append(related, p)
		if len(related) == RelatedMax {
			break
		}
	}
	return related, nil
}

func decodeAll(records []model.RawRecord) ([]model.Product, error) {
	products := make([]model.Product, 0, len(records))
	var errs []error
	for _, rec := range records {
		p, err := catalog.DecodeProduct(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		products = append(products, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return products, nil
}

func (uc *catalogUseCase) InvalidateCache(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	keys, err := uc.cache.Client.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return uc.cache.Client.Del(ctx, keys...).Err()
}

func (uc *catalogUseCase) generateCacheKey(ch catalog.Channel, query string) (string, error) {
	data, err := json.Marshal(struct {
		Channel catalog.Channel `json:"channel"`
		Query   string          `json:"q"`
	}{ch, query})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:%x", cacheKeyPrefix, ch, md5.Sum(data)), nil
}
