package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/cart"
	"github.com/freshmart/checkoutapi/internal/domain"
)

// CartStore is the shared cart the checkout reads from and, on success,
// empties. Implemented by internal/cart.Store.
type CartStore interface {
	Snapshot(sessionID uuid.UUID) cart.Snapshot
	EmptyCart(sessionID uuid.UUID)
}

// EventRecorder persists checkout audit events. Recording failures are
// logged but never fail the checkout.
type EventRecorder interface {
	Create(ctx context.Context, event *domain.CheckoutEvent) error
}

// Finalizer persists a paid (or cash) draft upstream and, only after the
// backend confirms creation, clears the session's cart and coupon state.
// The effects are all-or-nothing from the shopper's perspective: a failed
// AddOrder leaves cart and coupon untouched.
type Finalizer struct {
	orders OrderService
	cart   CartStore
	state  *stateStore
	events EventRecorder
	logger *zap.Logger
}

func newFinalizer(orders OrderService, cartStore CartStore, state *stateStore, events EventRecorder, logger *zap.Logger) *Finalizer {
	return &Finalizer{
		orders: orders,
		cart:   cartStore,
		state:  state,
		events: events,
		logger: logger,
	}
}

// Finalize persists the draft and runs the post-success effects. The
// returned order carries the backend-assigned identifier the confirmation
// view is keyed by.
func (f *Finalizer) Finalize(ctx context.Context, sessionID uuid.UUID, draft *domain.OrderDraft) (*domain.Order, error) {
	order, err := f.orders.AddOrder(ctx, draft)
	if err != nil {
		f.logger.Error("Failed to create order", zap.Error(err))
		return nil, err
	}

	f.cart.EmptyCart(sessionID)
	f.state.clearCoupon(sessionID)

	f.recordEvent(ctx, sessionID, "order_created", map[string]interface{}{
		"order_id":           order.ID,
		"payment_method":     draft.PaymentMethod,
		"payment_identifier": draft.PaymentIdentifier,
		"total":              draft.Total.String(),
	})

	f.logger.Info("Order finalized",
		zap.String("order_id", order.ID),
		zap.String("session_id", sessionID.String()),
	)

	return order, nil
}

// RedirectFor returns the confirmation view location for a created order.
func RedirectFor(order *domain.Order) string {
	return fmt.Sprintf("/order/%s", order.ID)
}

func (f *Finalizer) recordEvent(ctx context.Context, sessionID uuid.UUID, eventType string, data map[string]interface{}) {
	if f.events == nil {
		return
	}
	event := &domain.CheckoutEvent{
		SessionID: sessionID,
		EventType: eventType,
		EventData: data,
	}
	if err := f.events.Create(ctx, event); err != nil {
		f.logger.Warn("Failed to record checkout event", zap.Error(err))
	}
}
