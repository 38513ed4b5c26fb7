package checkout

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

// DefaultShippingOptions is the shipping catalog offered at checkout.
// Selecting an option fixes the shipping cost used by the total calculator.
var DefaultShippingOptions = []domain.ShippingOption{
	{Name: "Delivery", EstimatedTime: "1-2 days", Cost: decimal.NewFromInt(260)},
	{Name: "Pickup", EstimatedTime: "Today", Cost: decimal.NewFromInt(20)},
}

// SubmitRequest carries everything one checkout attempt needs. Snapshots
// and commands are injected explicitly; the orchestrator never reaches into
// ambient state.
type SubmitRequest struct {
	UserInfo      domain.UserInfo
	PaymentMethod domain.PaymentMethod
	Card          *CardDetails
	MpesaPhone    string
}

// SubmitResult is the single success outcome of a submission.
type SubmitResult struct {
	OrderID    string
	Order      *domain.Order
	RedirectTo string
	Message    string
}

// TotalsView is the recomputed totals plus whether the recompute revoked
// the applied coupon.
type TotalsView struct {
	Totals        domain.Totals
	Coupon        *domain.Coupon
	CouponRevoked bool
}

// Orchestrator drives the checkout workflow: it reads the cart snapshot,
// recomputes totals, dispatches the selected payment strategy, and hands
// the draft to the finalizer. One instance serves all sessions.
type Orchestrator struct {
	cart       CartStore
	evaluator  *Evaluator
	dispatcher *Dispatcher
	finalizer  *Finalizer
	state      *stateStore
	events     EventRecorder
	logger     *zap.Logger

	randomID func() int
}

// NewOrchestrator wires the checkout workflow from its collaborators.
func NewOrchestrator(
	cartStore CartStore,
	evaluator *Evaluator,
	dispatcher *Dispatcher,
	orders OrderService,
	events EventRecorder,
	logger *zap.Logger,
) *Orchestrator {
	state := newStateStore()
	return &Orchestrator{
		cart:       cartStore,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		finalizer:  newFinalizer(orders, cartStore, state, events, logger),
		state:      state,
		events:     events,
		logger:     logger,
		randomID:   generatePaymentIdentifier,
	}
}

// SelectShipping sets the session's shipping option by name.
func (o *Orchestrator) SelectShipping(sessionID uuid.UUID, optionName string) (*domain.ShippingOption, error) {
	for _, option := range DefaultShippingOptions {
		if option.Name == optionName {
			o.state.setShipping(sessionID, option.Name, option.Cost)
			selected := option
			return &selected, nil
		}
	}
	return nil, &errors.ErrValidation{Message: "Please select a shipping option."}
}

// ApplyCoupon validates the code against the current totals and records the
// coupon in the session state on success.
func (o *Orchestrator) ApplyCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*domain.Coupon, error) {
	view := o.CurrentTotals(sessionID)

	coupon, err := o.evaluator.Apply(ctx, code, view.Totals)
	if err != nil {
		return nil, err
	}

	o.state.setCoupon(sessionID, coupon)
	o.logger.Info("Coupon applied",
		zap.String("coupon_code", coupon.CouponCode),
		zap.String("session_id", sessionID.String()),
	)
	return coupon, nil
}

// CurrentTotals recomputes the session's totals from the cart snapshot,
// shipping cost and applied coupon. The revocation check runs on every
// recompute: a coupon that no longer meets its minimum, or an emptied cart,
// clears the discount.
func (o *Orchestrator) CurrentTotals(sessionID uuid.UUID) TotalsView {
	snapshot := o.cart.Snapshot(sessionID)
	coupon, _, shippingCost := o.state.snapshot(sessionID)

	totals := ComputeTotals(snapshot.Items, snapshot.CartTotal, shippingCost, coupon)

	if o.evaluator.ShouldRevoke(coupon, totals, snapshot.IsEmpty) {
		o.state.clearCoupon(sessionID)
		totals = ComputeTotals(snapshot.Items, snapshot.CartTotal, shippingCost, nil)
		return TotalsView{Totals: totals, Coupon: nil, CouponRevoked: true}
	}

	return TotalsView{Totals: totals, Coupon: coupon}
}

// ShippingOptions returns the selectable shipping catalog.
func (o *Orchestrator) ShippingOptions() []domain.ShippingOption {
	return DefaultShippingOptions
}

// Submit runs one checkout attempt end to end. The submission state guards
// against concurrent submits for the same session; whatever happens, the
// session is back in Idle when Submit returns, so the shopper can resubmit
// after a failure.
func (o *Orchestrator) Submit(ctx context.Context, sessionID uuid.UUID, req SubmitRequest) (result *SubmitResult, err error) {
	if !o.state.beginSubmit(sessionID) {
		return nil, ErrSubmissionInFlight
	}

	terminal := domain.SubmissionStateFailed
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Checkout submit panicked", zap.Any("panic", r))
			result = nil
			err = &errors.ErrUnknown{}
		}
		o.state.endSubmit(sessionID, terminal)
	}()

	if err := o.validate(sessionID, req); err != nil {
		return nil, err
	}

	snapshot := o.cart.Snapshot(sessionID)
	view := o.CurrentTotals(sessionID)
	_, shippingOption, shippingCost := o.state.snapshot(sessionID)

	draft := &domain.OrderDraft{
		UserInfo:          req.UserInfo,
		ShippingOption:    shippingOption,
		PaymentMethod:     req.PaymentMethod,
		Status:            domain.OrderStatusPending,
		Cart:              snapshot.Items,
		SubTotal:          snapshot.CartTotal,
		ShippingCost:      shippingCost,
		Discount:          view.Totals.DiscountAmount,
		Total:             view.Totals.Total,
		PaymentIdentifier: o.randomID(),
	}

	o.recordEvent(ctx, sessionID, "checkout_submitted", map[string]interface{}{
		"payment_method":     req.PaymentMethod,
		"payment_identifier": draft.PaymentIdentifier,
		"total":              draft.Total.String(),
	})

	if _, err := o.dispatcher.Dispatch(ctx, &req, draft); err != nil {
		o.recordEvent(ctx, sessionID, "payment_failed", map[string]interface{}{
			"payment_method": req.PaymentMethod,
			"reason":         err.Error(),
		})
		return nil, err
	}

	order, err := o.finalizer.Finalize(ctx, sessionID, draft)
	if err != nil {
		o.recordEvent(ctx, sessionID, "order_create_failed", map[string]interface{}{
			"payment_method": req.PaymentMethod,
			"reason":         err.Error(),
		})
		return nil, err
	}

	terminal = domain.SubmissionStateSucceeded
	return &SubmitResult{
		OrderID:    order.ID,
		Order:      order,
		RedirectTo: RedirectFor(order),
		Message:    successMessage(req.PaymentMethod),
	}, nil
}

func (o *Orchestrator) validate(sessionID uuid.UUID, req SubmitRequest) error {
	if !req.PaymentMethod.IsValid() {
		return &errors.ErrValidation{Message: "Please select a payment method."}
	}
	if o.cart.Snapshot(sessionID).IsEmpty {
		return &errors.ErrValidation{Message: ErrEmptyCart.Error()}
	}
	if req.UserInfo.Name == "" || req.UserInfo.Address == "" || req.UserInfo.Contact == "" || req.UserInfo.Email == "" {
		return &errors.ErrValidation{Message: "Please fill in all required fields."}
	}
	if req.PaymentMethod == domain.PaymentMethodMpesa && req.MpesaPhone == "" {
		return &errors.ErrValidation{Message: "Please enter your Mpesa phone number."}
	}
	return nil
}

func (o *Orchestrator) recordEvent(ctx context.Context, sessionID uuid.UUID, eventType string, data map[string]interface{}) {
	if o.events == nil {
		return
	}
	event := &domain.CheckoutEvent{
		SessionID: sessionID,
		EventType: eventType,
		EventData: data,
	}
	if err := o.events.Create(ctx, event); err != nil {
		o.logger.Warn("Failed to record checkout event", zap.Error(err))
	}
}

func successMessage(method domain.PaymentMethod) string {
	if method == domain.PaymentMethodMpesa {
		return "Your order has been placed. We will send a confirmation email once the payment is processed."
	}
	return "Your Order Confirmed!"
}

// generatePaymentIdentifier returns the 8-digit identifier used to
// correlate gateway callbacks with the order.
func generatePaymentIdentifier() int {
	const min, max = 10000000, 99999999
	return rand.Intn(max-min+1) + min
}
