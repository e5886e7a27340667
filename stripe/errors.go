package stripe

import (
	"errors"
	"fmt"
	"net/http"

	stripeapi "github.com/stripe/stripe-go/v83"
)

// StripeError represents a Stripe-specific error
type StripeError struct {
	Code    string
	Message string
	Err     error
}

func (e *StripeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *StripeError with the same code, so that
// callers can match the package sentinels with errors.Is.
func (e *StripeError) Is(target error) bool {
	t, ok := target.(*StripeError)
	return ok && t.Code == e.Code
}

const (
	codeAPICallFailed        = "api_call_failed"
	codeCustomerNotFound     = "customer_not_found"
	codeInvalidConfiguration = "invalid_configuration"
)

// Common Stripe errors
var (
	ErrAPICallFailed        = &StripeError{Code: codeAPICallFailed, Message: "stripe API call failed"}
	ErrCustomerNotFound     = &StripeError{Code: codeCustomerNotFound, Message: "stripe customer not found"}
	ErrInvalidConfiguration = &StripeError{Code: codeInvalidConfiguration, Message: "invalid stripe configuration"}
)

// NewStripeError creates a new StripeError with the given code, message, and underlying error
func NewStripeError(code, message string, err error) *StripeError {
	return &StripeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// isNotFound reports whether the Stripe API answered 404.
func isNotFound(err error) bool {
	var apiErr *stripeapi.Error
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound
}
