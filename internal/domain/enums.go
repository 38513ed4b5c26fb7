package domain

// PaymentMethod selects one of the supported payment strategies.
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "Cash"
	PaymentMethodCard  PaymentMethod = "Card"
	PaymentMethodMpesa PaymentMethod = "Mpesa"
)

// IsValid checks if the payment method is one of the supported strategies.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMpesa:
		return true
	default:
		return false
	}
}

// DiscountType represents how a coupon's value is applied.
type DiscountType string

const (
	// DiscountTypeFixed subtracts the coupon value directly.
	DiscountTypeFixed DiscountType = "fixed"
	// DiscountTypePercentage applies the value as a percentage of the
	// cart's line totals, independent of shipping cost.
	DiscountTypePercentage DiscountType = "percentage"
)

// IsValid checks if the discount type is valid.
func (t DiscountType) IsValid() bool {
	return t == DiscountTypeFixed || t == DiscountTypePercentage
}

// OrderStatus represents the backend lifecycle of a created order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// SubmissionState is the per-attempt state of the checkout workflow.
type SubmissionState string

const (
	SubmissionStateIdle       SubmissionState = "Idle"
	SubmissionStateSubmitting SubmissionState = "Submitting"
	SubmissionStateSucceeded  SubmissionState = "Succeeded"
	SubmissionStateFailed     SubmissionState = "Failed"
)

// CanTransitionTo checks if a submission state transition is valid. Both
// terminal states return to Idle so the shopper can resubmit.
func (s SubmissionState) CanTransitionTo(next SubmissionState) bool {
	switch s {
	case SubmissionStateIdle:
		return next == SubmissionStateSubmitting
	case SubmissionStateSubmitting:
		return next == SubmissionStateSucceeded || next == SubmissionStateFailed
	case SubmissionStateSucceeded, SubmissionStateFailed:
		return next == SubmissionStateIdle
	default:
		return false
	}
}
