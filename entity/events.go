package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// BookingMade is published transactionally with the pending-booking insert.
type BookingMade struct {
	Header          EventHeader `json:"header"`
	BookingID       string      `json:"booking_id"`
	EventID         string      `json:"event_id"`
	UserEmail       string      `json:"user_email"`
	NumberOfTickets int         `json:"number_of_tickets"`
}

type BookingConfirmed struct {
	Header           EventHeader `json:"header"`
	BookingID        string      `json:"booking_id"`
	EventID          string      `json:"event_id"`
	EventTitle       string      `json:"event_title"`
	UserEmail        string      `json:"user_email"`
	NumberOfTickets  int         `json:"number_of_tickets"`
	PaymentReference string      `json:"payment_reference"`
}

type BookingFailed struct {
	Header          EventHeader `json:"header"`
	BookingID       string      `json:"booking_id"`
	EventID         string      `json:"event_id"`
	NumberOfTickets int         `json:"number_of_tickets"`
}

type BookingCancelled struct {
	Header          EventHeader `json:"header"`
	BookingID       string      `json:"booking_id"`
	EventID         string      `json:"event_id"`
	UserEmail       string      `json:"user_email"`
	NumberOfTickets int         `json:"number_of_tickets"`
}
