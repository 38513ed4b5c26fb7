package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/cart"
	"github.com/freshmart/checkoutapi/internal/checkout"
	"github.com/freshmart/checkoutapi/internal/config"
	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/internal/orderapi"
	apperrors "github.com/freshmart/checkoutapi/pkg/errors"
)

type fakeCouponSource struct {
	coupons []domain.Coupon
}

func (f fakeCouponSource) GetAllCoupons(_ context.Context) ([]domain.Coupon, error) {
	return f.coupons, nil
}

type fakeCardGateway struct {
	tokenErr   error
	confirmErr error
}

func (f *fakeCardGateway) CreatePaymentMethod(_ context.Context, _ checkout.CardDetails) (*domain.PaymentArtifact, error) {
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return &domain.PaymentArtifact{PaymentMethodID: "pm_123"}, nil
}

func (f *fakeCardGateway) ConfirmCardPayment(_ context.Context, _, _ string) error {
	return f.confirmErr
}

type fakeMobileGateway struct{}

func (fakeMobileGateway) InitiatePayment(_ context.Context, _ string, _ decimal.Decimal, _ int, _ string) (string, error) {
	return "Accepted for processing", nil
}

type fakeOrderService struct {
	addErr error
}

func (f *fakeOrderService) AddOrder(_ context.Context, _ *domain.OrderDraft) (*domain.Order, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &domain.Order{ID: "64f0c2", Status: domain.OrderStatusPending}, nil
}

func (f *fakeOrderService) CreatePaymentIntent(_ context.Context, _ *domain.OrderDraft) (string, error) {
	return "pi_123_secret_456", nil
}

type fixture struct {
	router  *gin.Engine
	store   *cart.Store
	session *domain.Session
	cards   *fakeCardGateway
	orders  *fakeOrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	session := &domain.Session{ID: uuid.New(), UserName: "Jane Shopper"}
	store := cart.NewStore(logger)
	evaluator := checkout.NewEvaluator(logger, fakeCouponSource{coupons: []domain.Coupon{
		{
			CouponCode:    "WINTER24",
			ProductType:   "Grocery",
			DiscountType:  domain.DiscountTypeFixed,
			DiscountValue: decimal.NewFromInt(10),
			MinimumAmount: decimal.NewFromInt(100),
			EndTime:       time.Now().Add(24 * time.Hour),
		},
	}})
	cards := &fakeCardGateway{}
	orders := &fakeOrderService{}
	dispatcher := checkout.NewDispatcher(cards, fakeMobileGateway{}, orders, logger)
	orchestrator := checkout.NewOrchestrator(store, evaluator, dispatcher, orders, nil, logger)

	settings := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(settings.Close)
	backend := orderapi.NewClient(config.OrderAPIConfig{BaseURL: settings.URL}, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("session", session)
		c.Next()
	})
	router.POST("/checkout/submit", HandleCheckoutSubmit(orchestrator, logger))
	router.POST("/checkout/coupon", HandleApplyCoupon(orchestrator, logger))
	router.GET("/checkout/totals", HandleGetTotals(orchestrator, backend, logger))

	return &fixture{
		router:  router,
		store:   store,
		session: session,
		cards:   cards,
		orders:  orders,
	}
}

func (f *fixture) seedCart() {
	f.store.SetItem(f.session.ID, domain.CartItem{
		ID:       "p1",
		Title:    "Organic Beans",
		Price:    decimal.NewFromInt(100),
		Quantity: 2,
	})
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func submitRequest(method domain.PaymentMethod, card *checkout.CardDetails) SubmitOrderRequest {
	return SubmitOrderRequest{
		FirstName:      "Jane",
		LastName:       "Shopper",
		Address:        "1 Market St",
		Contact:        "0712345678",
		Email:          "jane@example.com",
		City:           "Nairobi",
		Country:        "Kenya",
		ZipCode:        "00100",
		ShippingOption: "Pickup",
		PaymentMethod:  method,
		Card:           card,
	}
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// decodeCookieValue unescapes the cookie value once and unmarshals it; a
// double-escaped value would fail the unmarshal.
func decodeCookieValue(t *testing.T, cookie *http.Cookie, out interface{}) {
	t.Helper()
	raw, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), out))
}

func TestHandleCheckoutSubmit_CashSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedCart()

	w := f.do(t, http.MethodPost, "/checkout/submit", submitRequest(domain.PaymentMethodCash, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp SubmitOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "64f0c2", resp.OrderID)
	assert.Equal(t, "/order/64f0c2", resp.RedirectTo)

	address := findCookie(t, w, "shippingAddress")
	require.NotNil(t, address)
	var persisted shippingAddressCookie
	decodeCookieValue(t, address, &persisted)
	assert.Equal(t, "Jane", persisted.FirstName)
	assert.Equal(t, "1 Market St", persisted.Address)
	assert.Equal(t, "Pickup", persisted.ShippingOption)

	coupon := findCookie(t, w, "couponInfo")
	require.NotNil(t, coupon)
	assert.Negative(t, coupon.MaxAge)
}

func TestHandleCheckoutSubmit_CardDataStaysOutOfCookies(t *testing.T) {
	f := newFixture(t)
	f.seedCart()

	card := &checkout.CardDetails{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "987"}
	w := f.do(t, http.MethodPost, "/checkout/submit", submitRequest(domain.PaymentMethodCard, card))

	require.Equal(t, http.StatusOK, w.Code)

	for _, header := range w.Result().Header.Values("Set-Cookie") {
		assert.NotContains(t, header, "4242424242424242")
		assert.NotContains(t, header, "987")
		assert.NotContains(t, header, "card")
	}

	address := findCookie(t, w, "shippingAddress")
	require.NotNil(t, address)
	var persisted shippingAddressCookie
	decodeCookieValue(t, address, &persisted)
	assert.Equal(t, "jane@example.com", persisted.Email)
}

func TestHandleCheckoutSubmit_GatewayFailureLeavesNoCardData(t *testing.T) {
	f := newFixture(t)
	f.seedCart()
	f.cards.tokenErr = &apperrors.ErrGateway{Message: "Your card number is invalid."}

	card := &checkout.CardDetails{Number: "4000000000000002", ExpMonth: 1, ExpYear: 2027, CVC: "999"}
	w := f.do(t, http.MethodPost, "/checkout/submit", submitRequest(domain.PaymentMethodCard, card))

	require.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Your card number is invalid.")

	for _, header := range w.Result().Header.Values("Set-Cookie") {
		assert.NotContains(t, header, "4000000000000002")
		assert.NotContains(t, header, "999")
	}
}

func TestHandleApplyCoupon_SetsCouponCookie(t *testing.T) {
	f := newFixture(t)
	f.seedCart()

	w := f.do(t, http.MethodPost, "/checkout/coupon", ApplyCouponRequest{Code: "WINTER24"})

	require.Equal(t, http.StatusOK, w.Code)

	cookie := findCookie(t, w, "couponInfo")
	require.NotNil(t, cookie)
	assert.Positive(t, cookie.MaxAge)

	var persisted domain.Coupon
	decodeCookieValue(t, cookie, &persisted)
	assert.Equal(t, "WINTER24", persisted.CouponCode)
}

func TestHandleGetTotals_RevocationClearsCouponCookie(t *testing.T) {
	f := newFixture(t)
	f.seedCart()

	w := f.do(t, http.MethodPost, "/checkout/coupon", ApplyCouponRequest{Code: "WINTER24"})
	require.Equal(t, http.StatusOK, w.Code)

	f.store.EmptyCart(f.session.ID)

	w = f.do(t, http.MethodGet, "/checkout/totals", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CouponRevoked bool `json:"couponRevoked"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.CouponRevoked)

	cookie := findCookie(t, w, "couponInfo")
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}
