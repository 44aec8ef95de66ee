package entity

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusFailed         BookingStatus = "FAILED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

// allowedTransitions is the full lifecycle: a pending booking resolves to
// confirmed or failed, and a confirmed booking may still be cancelled.
// FAILED and CANCELLED are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingPayment: {BookingStatusConfirmed, BookingStatusFailed, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Booking is a reservation of tickets for an event. Bookings are never
// deleted, only status-transitioned, so past reservations stay auditable.
type Booking struct {
	BookingID string `json:"booking_id" db:"booking_id"`
	EventID   string `json:"event_id" db:"event_id"`

	// UserID links the booking to a registered account when the booking
	// email matches one. It is a lookup key, never required for correctness.
	UserID *string `json:"user_id,omitempty" db:"user_id"`

	UserName        string        `json:"user_name" db:"user_name"`
	UserEmail       string        `json:"user_email" db:"user_email"`
	NumberOfTickets int           `json:"number_of_tickets" db:"number_of_tickets"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	Status          BookingStatus `json:"status" db:"status"`

	// PaymentReference is the opaque gateway reference, set on confirmation.
	PaymentReference string `json:"payment_reference,omitempty" db:"payment_reference"`
}
