package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// Fanout delivers to every notifier concurrently. One failure does not stop the others.
type Fanout []Notifier

func (f Fanout) Name() string { return "fanout" }

func (f Fanout) Notify(ctx context.Context, order model.OrderDraft) error {
	errs := make([]error, len(f))
	var wg sync.WaitGroup
	for i, n := range f {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = &Error{Notifier: n.Name(), Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			if err := n.Notify(ctx, order); err != nil {
				errs[i] = &Error{Notifier: n.Name(), Err: err}
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
