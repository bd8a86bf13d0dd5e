// Package notify delivers confirmed orders to best-effort collaborators.
// Failures are reported to the caller for logging and never retried.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Notifier interface {
	Name() string
	Notify(ctx context.Context, order model.OrderDraft) error
}

// Error tags a delivery failure with the collaborator that produced it.
type Error struct {
	Notifier string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Notifier, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func IsNotification(err error) bool {
	var ne *Error
	return errors.As(err, &ne)
}
