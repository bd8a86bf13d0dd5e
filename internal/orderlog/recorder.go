// Package orderlog records confirmed orders for the admin page and exports them.
package orderlog

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// Recorder appends each confirmed order to the log. It plugs into notify.Fanout.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Name() string { return "orderlog" }

func (r *Recorder) Notify(ctx context.Context, order model.OrderDraft) error {
	return r.repo.Append(ctx, order)
}
