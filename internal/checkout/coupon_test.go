package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freshmart/checkoutapi/internal/domain"
	apperrors "github.com/freshmart/checkoutapi/pkg/errors"
)

func fixedCoupon(code string, value, minimum int64, endTime time.Time) domain.Coupon {
	return domain.Coupon{
		CouponCode:    code,
		ProductType:   "Grocery",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(value),
		MinimumAmount: decimal.NewFromInt(minimum),
		EndTime:       endTime,
	}
}

func totalsOf(total int64) domain.Totals {
	return domain.Totals{Total: decimal.NewFromInt(total)}
}

func TestApply_EmptyCode(t *testing.T) {
	evaluator := NewEvaluator(zap.NewNop(), &MockCouponSource{})

	_, err := evaluator.Apply(context.Background(), "  ", totalsOf(100))

	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "coupon code")
}

func TestApply_UnknownCode(t *testing.T) {
	source := &MockCouponSource{
		Coupons: []domain.Coupon{fixedCoupon("WINTER24", 10, 100, time.Now().Add(time.Hour))},
	}
	evaluator := NewEvaluator(zap.NewNop(), source)

	_, err := evaluator.Apply(context.Background(), "SUMMER24", totalsOf(200))

	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "valid coupon")
}

func TestApply_ExpiredCoupon(t *testing.T) {
	source := &MockCouponSource{
		Coupons: []domain.Coupon{fixedCoupon("WINTER24", 10, 100, time.Now().Add(-time.Hour))},
	}
	evaluator := NewEvaluator(zap.NewNop(), source)

	coupon, err := evaluator.Apply(context.Background(), "WINTER24", totalsOf(200))

	require.Nil(t, coupon)
	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "This coupon is not valid")
}

func TestApply_BelowMinimum(t *testing.T) {
	source := &MockCouponSource{
		Coupons: []domain.Coupon{fixedCoupon("WINTER24", 10, 100, time.Now().Add(time.Hour))},
	}
	evaluator := NewEvaluator(zap.NewNop(), source)

	_, err := evaluator.Apply(context.Background(), "WINTER24", totalsOf(99))

	var validationErr *apperrors.ErrValidation
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Minimum 100")
}

func TestApply_Valid(t *testing.T) {
	source := &MockCouponSource{
		Coupons: []domain.Coupon{fixedCoupon("WINTER24", 10, 100, time.Now().Add(time.Hour))},
	}
	evaluator := NewEvaluator(zap.NewNop(), source)

	coupon, err := evaluator.Apply(context.Background(), "WINTER24", totalsOf(100))

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Equal(t, "WINTER24", coupon.CouponCode)
}

func TestApply_SecondSourceWins(t *testing.T) {
	empty := &MockCouponSource{}
	local := &MockCouponSource{
		Coupons: []domain.Coupon{fixedCoupon("LOCAL5", 5, 0, time.Now().Add(time.Hour))},
	}
	evaluator := NewEvaluator(zap.NewNop(), empty, local)

	coupon, err := evaluator.Apply(context.Background(), "LOCAL5", totalsOf(50))

	require.NoError(t, err)
	assert.Equal(t, "LOCAL5", coupon.CouponCode)
}

func TestApply_SourceErrorFallsThrough(t *testing.T) {
	failing := &MockCouponSource{Err: assert.AnError}
	local := &MockCouponSource{
		Coupons: []domain.Coupon{fixedCoupon("LOCAL5", 5, 0, time.Now().Add(time.Hour))},
	}
	evaluator := NewEvaluator(zap.NewNop(), failing, local)

	coupon, err := evaluator.Apply(context.Background(), "LOCAL5", totalsOf(50))

	require.NoError(t, err)
	assert.Equal(t, "LOCAL5", coupon.CouponCode)
}

func TestShouldRevoke(t *testing.T) {
	coupon := fixedCoupon("WINTER24", 10, 100, time.Now().Add(time.Hour))
	evaluator := NewEvaluator(zap.NewNop())

	tests := []struct {
		name      string
		totals    domain.Totals
		cartEmpty bool
		want      bool
	}{
		{
			name: "total above threshold",
			totals: domain.Totals{
				Total:          decimal.NewFromInt(120),
				DiscountAmount: decimal.NewFromInt(10),
			},
			want: false,
		},
		{
			name: "total dropped below threshold",
			totals: domain.Totals{
				Total:          decimal.NewFromInt(60),
				DiscountAmount: decimal.NewFromInt(10),
			},
			want: true,
		},
		{
			name:      "cart emptied",
			totals:    domain.Totals{Total: decimal.NewFromInt(120)},
			cartEmpty: true,
			want:      true,
		},
		{
			name: "exactly at threshold",
			totals: domain.Totals{
				Total:          decimal.NewFromInt(90),
				DiscountAmount: decimal.NewFromInt(10),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluator.ShouldRevoke(&coupon, tt.totals, tt.cartEmpty)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldRevoke_NoCoupon(t *testing.T) {
	evaluator := NewEvaluator(zap.NewNop())
	assert.False(t, evaluator.ShouldRevoke(nil, totalsOf(0), true))
}
