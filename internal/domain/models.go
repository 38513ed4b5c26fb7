package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is a single line in the shopper's cart. Owned by the cart store;
// the checkout workflow only reads it.
type CartItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ItemTotal decimal.Decimal `json:"itemTotal"`
}

// Coupon is a discount code with eligibility constraints.
type Coupon struct {
	ID            uuid.UUID       `json:"id"`
	CouponCode    string          `json:"couponCode"`
	ProductType   string          `json:"productType"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	MinimumAmount decimal.Decimal `json:"minimumAmount"`
	EndTime       time.Time       `json:"endTime"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Expired reports whether the coupon's end time has passed.
func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.EndTime)
}

// ShippingOption is a selectable delivery method with a fixed cost.
type ShippingOption struct {
	Name          string          `json:"name"`
	EstimatedTime string          `json:"estimatedTime"`
	Cost          decimal.Decimal `json:"cost"`
}

// UserInfo carries the contact and address fields collected on the
// checkout form.
type UserInfo struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Country string `json:"country"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// Totals is the output of the total calculator: everything the checkout
// view displays and the order submission carries.
type Totals struct {
	SubTotal       decimal.Decimal `json:"subTotal"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	DiscountAmount decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
}

// PaymentArtifact is data returned by an external payment provider and
// attached to the order record before creation.
type PaymentArtifact struct {
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
	ClientSecret    string `json:"clientSecret,omitempty"`
	ResponseDesc    string `json:"responseDescription,omitempty"`
}

// OrderDraft is the in-memory, not-yet-persisted representation of a
// checkout attempt. Constructed fresh on each submit, mutated only by the
// payment dispatcher, and discarded after the finalizer persists it or the
// workflow reports an error. It is never retried automatically.
type OrderDraft struct {
	UserInfo          UserInfo         `json:"user_info"`
	ShippingOption    string           `json:"shippingOption"`
	PaymentMethod     PaymentMethod    `json:"paymentMethod"`
	Status            OrderStatus      `json:"status"`
	Cart              []CartItem       `json:"cart"`
	SubTotal          decimal.Decimal  `json:"subTotal"`
	ShippingCost      decimal.Decimal  `json:"shippingCost"`
	Discount          decimal.Decimal  `json:"discount"`
	Total             decimal.Decimal  `json:"total"`
	PaymentIdentifier int              `json:"paymentIdentifier"`
	CardInfo          *PaymentArtifact `json:"cardInfo,omitempty"`
}

// Order is the backend's persisted view of a confirmed order, as returned
// by the upstream order service.
type Order struct {
	ID            string          `json:"_id"`
	Invoice       int             `json:"invoice"`
	Status        OrderStatus     `json:"status"`
	UserInfo      UserInfo        `json:"user_info"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Cart          []CartItem      `json:"cart"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Session represents an authenticated storefront session.
type Session struct {
	ID         uuid.UUID
	UserName   string
	UserEmail  string
	APIKeyHash string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CheckoutEvent is an audit record for a checkout attempt.
type CheckoutEvent struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}

// GlobalSetting is the subset of store settings the checkout needs.
type GlobalSetting struct {
	DefaultCurrency string `json:"default_currency"`
}
