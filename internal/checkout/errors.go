package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)
