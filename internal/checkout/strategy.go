package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

// CardDetails is the raw card input forwarded to the card gateway for
// tokenization. It is never persisted or logged.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// CardGateway is the external card payment provider.
type CardGateway interface {
	// CreatePaymentMethod exchanges card details for a gateway-issued
	// payment-method token.
	CreatePaymentMethod(ctx context.Context, card CardDetails) (*domain.PaymentArtifact, error)
	// ConfirmCardPayment confirms a payment intent with the tokenized
	// payment method.
	ConfirmCardPayment(ctx context.Context, clientSecret, paymentMethodID string) error
}

// MobileGateway initiates a mobile-money payment through the backend
// proxy. The actual money movement is asynchronous; a successful initiation
// only means the shopper received a prompt on their phone.
type MobileGateway interface {
	InitiatePayment(ctx context.Context, phone string, amount decimal.Decimal, paymentIdentifier int, initiatorPhone string) (string, error)
}

// OrderService is the upstream order backend.
type OrderService interface {
	AddOrder(ctx context.Context, draft *domain.OrderDraft) (*domain.Order, error)
	CreatePaymentIntent(ctx context.Context, draft *domain.OrderDraft) (string, error)
}

// PaymentStrategy executes one payment method's side effects against the
// draft. On success the gateway artifacts, if any, are attached to the
// draft by the strategy itself.
type PaymentStrategy interface {
	AttemptPayment(ctx context.Context, draft *domain.OrderDraft) (*domain.PaymentArtifact, error)
}

// Dispatcher routes a submission to the strategy selected by its payment
// method.
type Dispatcher struct {
	cards  CardGateway
	mobile MobileGateway
	orders OrderService
	logger *zap.Logger
}

// NewDispatcher creates a payment dispatcher over the given gateways.
func NewDispatcher(cards CardGateway, mobile MobileGateway, orders OrderService, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		cards:  cards,
		mobile: mobile,
		orders: orders,
		logger: logger,
	}
}

// Dispatch selects the strategy for the request's payment method and runs
// it. Strategies are request-scoped values; the dispatch table replaces
// branching on the method tag at every call site.
func (d *Dispatcher) Dispatch(ctx context.Context, req *SubmitRequest, draft *domain.OrderDraft) (*domain.PaymentArtifact, error) {
	table := map[domain.PaymentMethod]PaymentStrategy{
		domain.PaymentMethodCash: cashStrategy{},
		domain.PaymentMethodCard: cardStrategy{
			cards:   d.cards,
			orders:  d.orders,
			details: req.Card,
			logger:  d.logger,
		},
		domain.PaymentMethodMpesa: mpesaStrategy{
			mobile: d.mobile,
			phone:  req.MpesaPhone,
			logger: d.logger,
		},
	}

	strategy, ok := table[req.PaymentMethod]
	if !ok {
		return nil, &errors.ErrValidation{Message: "Please select a payment method."}
	}

	return strategy.AttemptPayment(ctx, draft)
}

// cashStrategy needs no external payment call; the order is created
// directly.
type cashStrategy struct{}

func (cashStrategy) AttemptPayment(_ context.Context, _ *domain.OrderDraft) (*domain.PaymentArtifact, error) {
	return nil, nil
}

// cardStrategy tokenizes the card, creates a payment intent upstream, and
// confirms it with the gateway. Only a confirmed payment reaches the order
// finalizer.
type cardStrategy struct {
	cards   CardGateway
	orders  OrderService
	details *CardDetails
	logger  *zap.Logger
}

func (s cardStrategy) AttemptPayment(ctx context.Context, draft *domain.OrderDraft) (*domain.PaymentArtifact, error) {
	if s.cards == nil {
		return nil, &errors.ErrValidation{Message: "Card payments are not available right now."}
	}
	if s.details == nil {
		return nil, &errors.ErrValidation{Message: "Please enter your card details."}
	}

	token, err := s.cards.CreatePaymentMethod(ctx, *s.details)
	if err != nil {
		return nil, err
	}

	clientSecret, err := s.orders.CreatePaymentIntent(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.cards.ConfirmCardPayment(ctx, clientSecret, token.PaymentMethodID); err != nil {
		return nil, err
	}

	artifact := &domain.PaymentArtifact{
		PaymentMethodID: token.PaymentMethodID,
		ClientSecret:    clientSecret,
	}
	draft.CardInfo = artifact
	return artifact, nil
}

// mpesaStrategy sends the payment prompt through the backend proxy. The
// order is created in Pending status regardless of the eventual mobile
// confirmation.
type mpesaStrategy struct {
	mobile MobileGateway
	phone  string
	logger *zap.Logger
}

func (s mpesaStrategy) AttemptPayment(ctx context.Context, draft *domain.OrderDraft) (*domain.PaymentArtifact, error) {
	if s.phone == "" {
		return nil, &errors.ErrValidation{Message: "Please enter your Mpesa phone number."}
	}

	description, err := s.mobile.InitiatePayment(ctx, s.phone, draft.Total, draft.PaymentIdentifier, draft.UserInfo.Contact)
	if err != nil {
		return nil, err
	}

	s.logger.Info("M-Pesa payment initiated",
		zap.Int("payment_identifier", draft.PaymentIdentifier),
		zap.String("description", description),
	)

	return &domain.PaymentArtifact{ResponseDesc: description}, nil
}
