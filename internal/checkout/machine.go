// Package checkout drives the order submission flow: validate, snapshot the cart, confirm, notify.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/delivery"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultResetDelay matches the confirmation overlay's closing animation.
const DefaultResetDelay = 300 * time.Millisecond

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dispatcher hands a confirmed order to the notification collaborators.
// Implementations must not block; the machine never waits for or inspects the result.
type Dispatcher interface {
	Dispatch(ctx context.Context, order model.OrderDraft)
}

// Scheduler runs fn once after d. The session wraps fn so it re-enters under the session lock.
type Scheduler func(d time.Duration, fn func())

func AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type Options struct {
	Cart       *cart.Store
	Fees       *delivery.Table
	Dispatcher Dispatcher
	Logger     logger.ZapLogger
	ResetDelay time.Duration
	Schedule   Scheduler
	Now        func() time.Time
	NewID      func() string
}

// Outcome is returned by Submit. Err is a *ValidationError or ErrAlreadySubmitted.
type Outcome struct {
	State State             `json:"state"`
	Order *model.OrderDraft `json:"order,omitempty"`
	Err   error             `json:"-"`
}

type Machine struct {
	cart       *cart.Store
	fees       *delivery.Table
	dispatcher Dispatcher
	logger     logger.ZapLogger
	resetDelay time.Duration
	schedule   Scheduler
	now        func() time.Time
	newID      func() string

	state    State
	form     Form
	err      *ValidationError
	order    *model.OrderDraft
	resetGen uint64
}

func NewMachine(opts Options) *Machine {
	m := &Machine{
		cart:       opts.Cart,
		fees:       opts.Fees,
		dispatcher: opts.Dispatcher,
		logger:     opts.Logger,
		resetDelay: opts.ResetDelay,
		schedule:   opts.Schedule,
		now:        opts.Now,
		newID:      opts.NewID,
	}
	if m.cart == nil {
		m.cart = cart.NewStore()
	}
	if m.logger == nil {
		m.logger = logger.NewNop()
	}
	if m.resetDelay <= 0 {
		m.resetDelay = DefaultResetDelay
	}
	if m.schedule == nil {
		m.schedule = AfterFunc
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = func() string { return uuid.New().String() }
	}
	return m
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Form() Form { return m.form }

// Err returns the current inline validation message, if any.
func (m *Machine) Err() *ValidationError { return m.err }

// LastOrder is the confirmed order while the confirmation is displayed.
func (m *Machine) LastOrder() *model.OrderDraft { return m.order }

// SetField edits one form input. Editing is refused while the confirmation is displayed.
func (m *Machine) SetField(field, value string) error {
	if m.state == Succeeded {
		return ErrAlreadySubmitted
	}
	return m.form.set(field, value)
}

// SetForm replaces all inputs at once.
func (m *Machine) SetForm(f Form) error {
	if m.state == Succeeded {
		return ErrAlreadySubmitted
	}
	m.form = f
	return nil
}

// Quote previews subtotal, delivery fee and total for the current cart and city.
func (m *Machine) Quote() delivery.Quote {
	return m.fees.Quote(m.cart.Total(), m.form.City)
}

// Submit validates the form against the cart and, on success, snapshots the order,
// clears the cart and confirms before any notification is attempted.
func (m *Machine) Submit(ctx context.Context, f Form) Outcome {
	if m.state == Succeeded {
		return Outcome{State: m.state, Order: m.order, Err: ErrAlreadySubmitted}
	}

	m.form = f
	m.err = nil
	m.state = Submitting

	if m.cart.IsEmpty() {
		return m.fail(&ValidationError{Message: MsgEmptyCart})
	}
	if verr := f.validate(); verr != nil {
		return m.fail(verr)
	}

	order := m.buildOrder(f)
	m.cart.Clear()
	m.order = &order
	m.state = Succeeded

	m.logger.Info("order confirmed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)

	m.dispatch(context.WithoutCancel(ctx), order)

	return Outcome{State: m.state, Order: m.order}
}

// Dismiss closes the checkout overlay. A pending validation message is dropped at once;
// the form is wiped after the reset delay.
func (m *Machine) Dismiss() {
	if m.state == Failed {
		m.err = nil
		m.state = Idle
	}

	m.resetGen++
	gen := m.resetGen
	m.schedule(m.resetDelay, func() {
		if gen != m.resetGen {
			return
		}
		m.reset()
	})
}

func (m *Machine) reset() {
	m.form = Form{}
	m.err = nil
	m.order = nil
	m.state = Idle
}

func (m *Machine) fail(verr *ValidationError) Outcome {
	m.err = verr
	m.state = Failed
	return Outcome{State: m.state, Err: verr}
}

func (m *Machine) buildOrder(f Form) model.OrderDraft {
	items := m.cart.Items()
	lines := make([]model.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.OrderLine{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: it.SalePrice,
			Quantity:  it.Quantity,
		})
	}

	customer := f.customer()
	subtotal := m.cart.Total()
	fee := m.fees.FeeFor(customer.City)

	return model.OrderDraft{
		ID:          m.newID(),
		Customer:    customer,
		Items:       lines,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		CreatedAt:   m.now(),
	}
}

func (m *Machine) dispatch(ctx context.Context, order model.OrderDraft) {
	if m.dispatcher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("order dispatch panicked",
				zap.String("order_id", order.ID),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	m.dispatcher.Dispatch(ctx, order)
}
