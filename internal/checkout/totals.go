package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/freshmart/checkoutapi/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives the subtotal, discount amount and grand total from
// the cart contents, the selected shipping cost, and the applied coupon
// (nil when none is applied). It is a pure function: callers invoke it
// after every mutating event instead of relying on hidden observers.
//
// The discount for percentage coupons is taken over the cart's line totals
// only; shipping cost never participates in the discount base. The total is
// not clamped, so a discount larger than the subtotal produces a negative
// total.
func ComputeTotals(items []domain.CartItem, cartTotal, shippingCost decimal.Decimal, coupon *domain.Coupon) domain.Totals {
	subTotal := cartTotal.Add(shippingCost).Round(2)

	discount := decimal.Zero
	if coupon != nil {
		switch coupon.DiscountType {
		case domain.DiscountTypeFixed:
			discount = coupon.DiscountValue
		case domain.DiscountTypePercentage:
			lineTotal := decimal.Zero
			for _, item := range items {
				lineTotal = lineTotal.Add(item.ItemTotal)
			}
			discount = lineTotal.Mul(coupon.DiscountValue).Div(oneHundred)
		}
	}

	return domain.Totals{
		SubTotal:       subTotal,
		ShippingCost:   shippingCost,
		DiscountAmount: discount,
		Total:          subTotal.Sub(discount),
	}
}
