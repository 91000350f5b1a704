package marketplace

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy the engines surface. Handlers
// map these onto HTTP statuses; they never escape as faults.
var (
	ErrValidation         = errors.New("validation failed")
	ErrServiceNotFound    = errors.New("service not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrServiceUnavailable = errors.New("service is not available for ordering")
	ErrInvalidPackage     = errors.New("package is not defined on this service")
	ErrPersistence        = errors.New("persistence failure")
)

// TransitionError is returned when an order status change is not allowed
// by the transition graph. Target is set instead of Event when the
// requested status is one no event ever reaches.
type TransitionError struct {
	Event   OrderEvent
	Current OrderStatus
	Target  OrderStatus
}

func (e *TransitionError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("no transition reaches status %q from %q", e.Target, e.Current)
	}
	return fmt.Sprintf("event %q is not valid from status %q", e.Event, e.Current)
}

// Result is the outcome value returned by catalog mutations, mirroring the
// success/message pair the presentation layer renders.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ok(msg string) Result   { return Result{Success: true, Message: msg} }
func fail(msg string) Result { return Result{Success: false, Message: msg} }
