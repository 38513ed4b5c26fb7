package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	"github.com/freshmart/checkoutapi/pkg/errors"
)

// CouponSource provides the active coupon definitions a code is validated
// against. Implementations exist for the upstream order backend and for the
// local Postgres coupon table.
type CouponSource interface {
	GetAllCoupons(ctx context.Context) ([]domain.Coupon, error)
}

// Evaluator validates user-supplied coupon codes and decides when an
// applied coupon has to be revoked.
type Evaluator struct {
	sources []CouponSource
	logger  *zap.Logger
	now     func() time.Time
}

// NewEvaluator creates a coupon evaluator over the given sources. Sources
// are consulted in order; the first code match wins.
func NewEvaluator(logger *zap.Logger, sources ...CouponSource) *Evaluator {
	return &Evaluator{
		sources: sources,
		logger:  logger,
		now:     time.Now,
	}
}

// Apply validates a coupon code against the fetched definitions and the
// current totals. Rejection reasons are checked in a fixed order: empty
// code, code not found, expired, order total below the coupon's minimum.
// The returned coupon is not yet recorded anywhere; the caller persists it.
func (e *Evaluator) Apply(ctx context.Context, code string, totals domain.Totals) (*domain.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &errors.ErrValidation{Message: "Please input a coupon code!"}
	}

	coupon, err := e.findByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, &errors.ErrValidation{Message: "Please input a valid coupon!"}
	}

	if coupon.Expired(e.now()) {
		return nil, &errors.ErrValidation{Message: "This coupon is not valid!"}
	}

	if totals.Total.LessThan(coupon.MinimumAmount) {
		return nil, &errors.ErrValidation{
			Message: fmt.Sprintf("Minimum %s USD required for apply this coupon!", coupon.MinimumAmount.String()),
		}
	}

	return coupon, nil
}

// ShouldRevoke reports whether an applied coupon has silently become
// invalid. It is checked after every totals recompute, not only at apply
// time: the coupon is revoked whenever the minimum amount, less the current
// discount, exceeds the total, or the cart has become empty.
func (e *Evaluator) ShouldRevoke(coupon *domain.Coupon, totals domain.Totals, cartEmpty bool) bool {
	if coupon == nil {
		return false
	}
	if cartEmpty {
		return true
	}
	return coupon.MinimumAmount.Sub(totals.DiscountAmount).GreaterThan(totals.Total)
}

func (e *Evaluator) findByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	for _, source := range e.sources {
		coupons, err := source.GetAllCoupons(ctx)
		if err != nil {
			e.logger.Warn("Failed to fetch coupons from source", zap.Error(err))
			continue
		}
		for i := range coupons {
			if coupons[i].CouponCode == code {
				return &coupons[i], nil
			}
		}
	}
	return nil, nil
}
