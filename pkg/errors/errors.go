package errors

import "fmt"

// ErrValidation indicates the submission was rejected before any external
// call was made (missing field, no payment method, no Mpesa phone).
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrGateway indicates a card gateway failure (tokenization or confirmation).
type ErrGateway struct {
	Message string
}

func (e *ErrGateway) Error() string {
	if e.Message == "" {
		return "payment gateway error"
	}
	return e.Message
}

// ErrBackend indicates the upstream order backend rejected or failed a call
// (order creation, payment-intent creation, Mpesa initiation).
type ErrBackend struct {
	Operation string
	Message   string
}

func (e *ErrBackend) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error during %s", e.Operation)
	}
	return e.Message
}

// ErrUnknown indicates an uncaught failure inside the workflow. It carries
// a generic user-facing message.
type ErrUnknown struct{}

func (e *ErrUnknown) Error() string {
	return "Something went wrong, please try again."
}

// ErrNotFound indicates a requested resource does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates a missing or invalid session key.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
