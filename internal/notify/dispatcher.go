package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"go.uber.org/zap"
)

// Dispatcher runs a Notifier in the background for each confirmed order.
type Dispatcher struct {
	notifier Notifier
	logger   logger.ZapLogger
	wg       sync.WaitGroup
}

func NewDispatcher(n Notifier, log logger.ZapLogger) *Dispatcher {
	return &Dispatcher{notifier: n, logger: log}
}

// Dispatch returns immediately. Errors and panics are logged and dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, order model.OrderDraft) {
	if d.notifier == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("order notification panicked",
					zap.String("order_id", order.ID),
					zap.String("panic", fmt.Sprint(r)),
				)
			}
		}()

		if err := d.notifier.Notify(ctx, order); err != nil {
			d.logger.Warn("order notification failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
			return
		}
		d.logger.Debug("order notification delivered", zap.String("order_id", order.ID))
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done. Used on shutdown.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
