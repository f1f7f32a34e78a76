package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrTicketNotFound     = errors.New("ticket not found")

	ErrUnauthorized = errors.New("not authorized for this resource")

	// ErrValidation marks a request that is well formed but invalid for the
	// resource's current state. Wrap it with detail: fmt.Errorf("%w: ...").
	ErrValidation = errors.New("validation failed")

	// ErrBookingExpired reports a confirmation attempted after the hold
	// deadline. The booking has been expired and its inventory released by
	// the time the caller sees this.
	ErrBookingExpired = errors.New("booking has expired")

	ErrPaymentFailed = errors.New("payment failed")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
