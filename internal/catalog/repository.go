package catalog

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	// ListProducts returns raw documents in store order. limit <= 0 means no limit.
	ListProducts(ctx context.Context, limit int) ([]model.RawRecord, error)
	// GetProduct returns nil, nil when the id is unknown.
	GetProduct(ctx context.Context, id string) (*model.RawRecord, error)
}
