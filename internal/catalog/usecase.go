package catalog

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	RelatedProducts(ctx context.Context, currentID string) ([]model.Product, error)
	// InvalidateCache drops every cached listing so the next read goes to the store.
	InvalidateCache(ctx context.Context) error
}
