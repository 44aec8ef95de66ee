package gateway

import (
	"context"
	"errors"
	"sync"
)

type SentNotification struct {
	Email       string
	EventTitle  string
	TicketCount int
	BookingID   string
}

type NotificationsMock struct {
	mock sync.Mutex

	Sent []SentNotification

	// FailDelivery makes every send return an error, for exercising the
	// best-effort path.
	FailDelivery bool
}

func (c *NotificationsMock) SendBookingConfirmation(
	_ context.Context,
	email, eventTitle string,
	ticketCount int,
	bookingID string,
) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.FailDelivery {
		return errors.New("mail service unavailable")
	}

	c.Sent = append(c.Sent, SentNotification{
		Email:       email,
		EventTitle:  eventTitle,
		TicketCount: ticketCount,
		BookingID:   bookingID,
	})

	return nil
}
