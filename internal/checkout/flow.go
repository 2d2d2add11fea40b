package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/storefront-console/internal/order"
	"github.com/wichananm65/storefront-console/internal/payment"
)

var (
	ErrBusy             = errors.New("a checkout step is already in progress")
	ErrPaymentMismatch  = errors.New("payment callback does not belong to the pending payment")
	ErrNoPendingPayment = errors.New("no payment is pending")
	ErrRestarted        = errors.New("checkout was restarted while the step was running")
)

// OrderPlacer creates the local order from the cart.
type OrderPlacer interface {
	Place(ctx context.Context, addr order.Address) (order.Order, error)
}

// PaymentGateway opens and verifies gateway payments.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, orderID int64) (payment.Session, error)
	Verify(ctx context.Context, c payment.Completion) (payment.Verification, error)
}

// Config holds what the widget needs to call back into the console.
type Config struct {
	MerchantName string
	CallbackURL  string
	FailureURL   string
}

// Flow drives one checkout from address entry to a verified payment. Steps
// run one at a time; a step started while another is awaiting the backend
// fails with ErrBusy.
type Flow struct {
	orders   OrderPlacer
	payments PaymentGateway
	cfg      Config
	logger   *zap.Logger

	mu           sync.Mutex
	state        State
	busy         bool
	address      order.Address
	placed       *order.Order
	pending      *payment.Session
	verification *payment.Verification
	attemptID    string
	lastFailure  *payment.Failure
	// generation changes on Abandon; a step finishing under an older
	// generation drops its result.
	generation uint64
}

func NewFlow(orders OrderPlacer, payments PaymentGateway, cfg Config, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{orders: orders, payments: payments, cfg: cfg, logger: logger, state: StateAddressEntry}
}

// Snapshot is a copy of the flow's state for rendering.
type Snapshot struct {
	State        State
	Busy         bool
	Address      order.Address
	Order        *order.Order
	Payment      *payment.Session
	Verification *payment.Verification
	AttemptID    string
	LastFailure  *payment.Failure
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{State: f.state, Busy: f.busy, Address: f.address, AttemptID: f.attemptID}
	if f.placed != nil {
		o := *f.placed
		s.Order = &o
	}
	if f.pending != nil {
		p := *f.pending
		s.Payment = &p
	}
	if f.verification != nil {
		v := *f.verification
		s.Verification = &v
	}
	if f.lastFailure != nil {
		lf := *f.lastFailure
		s.LastFailure = &lf
	}
	return s
}

// begin reserves the flow for one step after checking ev is legal now.
func (f *Flow) begin(ev Event) error {
	if f.busy {
		return ErrBusy
	}
	if _, err := Next(f.state, ev); err != nil {
		return err
	}
	f.busy = true
	return nil
}

// finish releases the busy flag taken at gen. It reports false when the flow
// was abandoned meanwhile, in which case the step's result must be dropped.
func (f *Flow) finish(gen uint64) bool {
	if f.generation != gen {
		return false
	}
	f.busy = false
	return true
}

// apply finishes a step, moving along ev when the step succeeded.
func (f *Flow) apply(ev Event) {
	to, err := Next(f.state, ev)
	if err != nil {
		// unreachable while busy guards the state
		f.logger.Error("checkout state changed during a step", zap.Error(err))
		return
	}
	f.logger.Debug("checkout transition",
		zap.String("from", string(f.state)),
		zap.String("event", string(ev)),
		zap.String("to", string(to)),
		zap.String("attempt", f.attemptID))
	f.state = to
}

// SubmitAddress validates the address and places the order. On failure the
// flow stays in address entry.
func (f *Flow) SubmitAddress(ctx context.Context, addr order.Address) (order.Order, error) {
	addr, err := addr.Normalize()
	if err != nil {
		return order.Order{}, err
	}

	f.mu.Lock()
	if err := f.begin(EventAddressAccepted); err != nil {
		f.mu.Unlock()
		return order.Order{}, err
	}
	f.address = addr
	gen := f.generation
	f.mu.Unlock()

	placed, err := f.orders.Place(ctx, addr)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.finish(gen)
		f.logger.Warn("placing order failed", zap.Error(err))
		return order.Order{}, err
	}
	if !f.finish(gen) {
		return order.Order{}, ErrRestarted
	}
	f.placed = &placed
	f.apply(EventAddressAccepted)
	f.logger.Info("order placed", zap.Int64("orderId", placed.ID))
	return placed, nil
}

// Back returns from order confirmation to address entry. The address is kept
// for editing; submitting again places a new order.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if _, err := Next(f.state, EventBack); err != nil {
		return err
	}
	f.placed = nil
	f.apply(EventBack)
	return nil
}

// Pay creates the gateway order for the placed order and returns the options
// for the payment widget.
func (f *Flow) Pay(ctx context.Context) (payment.WidgetOptions, error) {
	f.mu.Lock()
	if err := f.begin(EventPaymentOpened); err != nil {
		f.mu.Unlock()
		return payment.WidgetOptions{}, err
	}
	orderID := f.placed.ID
	attempt := uuid.NewString()
	gen := f.generation
	f.mu.Unlock()

	session, err := f.payments.CreateOrder(ctx, orderID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.finish(gen)
		f.logger.Warn("creating payment order failed", zap.Int64("orderId", orderID), zap.String("attempt", attempt), zap.Error(err))
		return payment.WidgetOptions{}, err
	}
	if !f.finish(gen) {
		return payment.WidgetOptions{}, ErrRestarted
	}
	f.attemptID = attempt
	f.pending = &session
	f.lastFailure = nil
	f.apply(EventPaymentOpened)
	return session.Options(f.cfg.MerchantName, f.cfg.CallbackURL, f.cfg.FailureURL), nil
}

// Complete consumes the widget's success callback. A callback for another
// gateway order is rejected without touching the flow. Verification failure
// returns the flow to order confirmation.
func (f *Flow) Complete(ctx context.Context, c payment.Completion) (payment.Verification, error) {
	if err := c.Validate(); err != nil {
		return payment.Verification{}, err
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return payment.Verification{}, ErrBusy
	}
	if f.state != StatePaymentProcessing || f.pending == nil {
		f.mu.Unlock()
		return payment.Verification{}, ErrNoPendingPayment
	}
	if c.GatewayOrderID != f.pending.OrderID {
		f.mu.Unlock()
		return payment.Verification{}, ErrPaymentMismatch
	}
	f.busy = true
	attempt := f.attemptID
	gen := f.generation
	f.mu.Unlock()

	v, err := f.payments.Verify(ctx, c)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.finish(gen) {
		if err != nil {
			return payment.Verification{}, err
		}
		return payment.Verification{}, ErrRestarted
	}
	f.pending = nil
	if err != nil {
		f.logger.Warn("payment verification failed", zap.String("attempt", attempt), zap.Error(err))
		f.apply(EventPaymentAborted)
		return payment.Verification{}, err
	}
	f.verification = &v
	f.apply(EventPaymentVerified)
	f.logger.Info("payment verified", zap.String("attempt", attempt), zap.Bool("tracking", v.TrackingURL != ""))
	return v, nil
}

// Fail records a failed widget payment and returns to order confirmation.
// Nothing is cancelled on the backend.
func (f *Flow) Fail(failure payment.Failure) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	if _, err := Next(f.state, EventPaymentAborted); err != nil {
		return err
	}
	f.logger.Warn("payment failed",
		zap.String("attempt", f.attemptID),
		zap.String("code", failure.Code),
		zap.String("reason", failure.Reason))
	f.pending = nil
	f.lastFailure = &failure
	f.apply(EventPaymentAborted)
	return nil
}

// Reset starts a new checkout.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrBusy
	}
	f.clear()
	return nil
}

// Restart begins a fresh checkout when the previous one finished or never got
// past address entry. A checkout waiting on confirmation or payment is kept.
func (f *Flow) Restart() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy || (f.state != StateSuccess && f.state != StateAddressEntry) {
		return false
	}
	f.clear()
	return true
}

// Abandon drops the checkout unconditionally, including a step still waiting
// on the backend. It runs whenever the signed-in user changes.
func (f *Flow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy || f.state != StateAddressEntry || f.placed != nil || f.address != (order.Address{}) {
		f.logger.Info("checkout abandoned", zap.String("state", string(f.state)), zap.String("attempt", f.attemptID))
	}
	f.generation++
	f.busy = false
	f.clear()
}

func (f *Flow) clear() {
	f.state = StateAddressEntry
	f.address = order.Address{}
	f.placed = nil
	f.pending = nil
	f.verification = nil
	f.attemptID = ""
	f.lastFailure = nil
}
