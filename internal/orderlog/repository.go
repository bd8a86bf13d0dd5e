package orderlog

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// Repository keeps the admin's history of confirmed orders, newest first.
type Repository interface {
	Append(ctx context.Context, order model.OrderDraft) error
	// List returns at most limit orders; limit <= 0 returns everything kept.
	List(ctx context.Context, limit int) ([]model.OrderDraft, error)
}
