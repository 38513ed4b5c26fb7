package repository

import (
	"context"

	"github.com/freshmart/checkoutapi/internal/domain"
)

// CouponRepository stores locally administered coupon definitions. They
// are merged with the upstream backend's coupons at evaluation time.
type CouponRepository interface {
	GetAllCoupons(ctx context.Context) ([]domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Create(ctx context.Context, coupon *domain.Coupon) error
}

// SessionRepository stores storefront sessions and their hashed API keys.
type SessionRepository interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Session, error)
	Create(ctx context.Context, session *domain.Session) error
}

// CheckoutEventRepository appends audit events for checkout attempts.
type CheckoutEventRepository interface {
	Create(ctx context.Context, event *domain.CheckoutEvent) error
}

// Repositories aggregates all repository implementations.
type Repositories struct {
	Coupon        CouponRepository
	Session       SessionRepository
	CheckoutEvent CheckoutEventRepository
}
