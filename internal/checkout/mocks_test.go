package checkout

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/freshmart/checkoutapi/internal/domain"
)

// MockCouponSource implements CouponSource for testing
type MockCouponSource struct {
	Coupons []domain.Coupon
	Err     error
}

func (m *MockCouponSource) GetAllCoupons(_ context.Context) ([]domain.Coupon, error) {
	return m.Coupons, m.Err
}

// MockCardGateway implements CardGateway for testing
type MockCardGateway struct {
	TokenArtifact *domain.PaymentArtifact
	TokenErr      error
	ConfirmErr    error

	CreateCalls  int
	ConfirmCalls int
}

func (m *MockCardGateway) CreatePaymentMethod(_ context.Context, _ CardDetails) (*domain.PaymentArtifact, error) {
	m.CreateCalls++
	if m.TokenErr != nil {
		return nil, m.TokenErr
	}
	return m.TokenArtifact, nil
}

func (m *MockCardGateway) ConfirmCardPayment(_ context.Context, _, _ string) error {
	m.ConfirmCalls++
	return m.ConfirmErr
}

// MockMobileGateway implements MobileGateway for testing
type MockMobileGateway struct {
	Description string
	Err         error

	Calls      int
	LastPhone  string
	LastAmount decimal.Decimal
}

func (m *MockMobileGateway) InitiatePayment(_ context.Context, phone string, amount decimal.Decimal, _ int, _ string) (string, error) {
	m.Calls++
	m.LastPhone = phone
	m.LastAmount = amount
	if m.Err != nil {
		return "", m.Err
	}
	return m.Description, nil
}

// MockOrderService implements OrderService for testing
type MockOrderService struct {
	mu sync.Mutex

	Order        *domain.Order
	AddErr       error
	ClientSecret string
	IntentErr    error

	AddOrderCalls int
	IntentCalls   int
	LastDraft     *domain.OrderDraft

	// BlockAdd, when set, makes AddOrder wait until the channel closes.
	// AddStarted is closed when the first AddOrder call begins.
	BlockAdd   chan struct{}
	AddStarted chan struct{}
}

func (m *MockOrderService) AddOrder(_ context.Context, draft *domain.OrderDraft) (*domain.Order, error) {
	m.mu.Lock()
	m.AddOrderCalls++
	m.LastDraft = draft
	started := m.AddStarted
	block := m.BlockAdd
	if started != nil {
		m.AddStarted = nil
		close(started)
	}
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if m.AddErr != nil {
		return nil, m.AddErr
	}
	return m.Order, nil
}

func (m *MockOrderService) CreatePaymentIntent(_ context.Context, draft *domain.OrderDraft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IntentCalls++
	if m.IntentErr != nil {
		return "", m.IntentErr
	}
	return m.ClientSecret, nil
}

// MockEventRecorder implements EventRecorder for testing
type MockEventRecorder struct {
	mu     sync.Mutex
	Events []*domain.CheckoutEvent
}

func (m *MockEventRecorder) Create(_ context.Context, event *domain.CheckoutEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockEventRecorder) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, event := range m.Events {
		types = append(types, event.EventType)
	}
	return types
}
