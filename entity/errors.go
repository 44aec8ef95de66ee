package entity

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrInsufficientTickets = errors.New("not enough tickets available")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrInvalidTransition is returned when a lifecycle operation is
	// attempted from a status that does not permit it.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInventoryCorruption signals an internal invariant violation, such
	// as a release that would push availability above the ticket total. It
	// is reported, never silently repaired.
	ErrInventoryCorruption = errors.New("inventory corruption detected")
)
