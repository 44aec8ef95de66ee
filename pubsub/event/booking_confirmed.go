package event

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"eventmanager/entity"
	"eventmanager/pkg/log"
)

const notificationTimeout = 10 * time.Second

// SendConfirmationHandler notifies the customer that their booking is
// confirmed. A delivery failure is logged and swallowed so the message is
// never retried or poisoned; the confirmation itself already happened.
func (h Handler) SendConfirmationHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"SendConfirmationHandler",
		func(ctx context.Context, event *entity.BookingConfirmed) error {
			ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
			defer cancel()

			err := h.notificationsService.SendBookingConfirmation(
				ctx,
				event.UserEmail,
				event.EventTitle,
				event.NumberOfTickets,
				event.BookingID,
			)
			if err != nil {
				log.FromContext(ctx).
					WithError(err).
					WithField("booking_id", event.BookingID).
					Error("Failed to send booking confirmation")
			}

			return nil
		},
	)
}
