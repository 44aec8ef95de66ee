package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"eventmanager/gateway"
	"eventmanager/pkg/log"
)

type postPaymentOrderRequest struct {
	EventID         string `json:"event_id"`
	UserName        string `json:"user_name"`
	UserEmail       string `json:"user_email"`
	NumberOfTickets int    `json:"number_of_tickets"`
}

type postPaymentOrderResponse struct {
	Booking bookingResponse       `json:"booking"`
	Order   *gateway.PaymentOrder `json:"order,omitempty"`
}

// PostPaymentOrder reserves tickets, records a pending booking and opens a
// payment order for it. Free events skip the gateway and are confirmed on
// the spot.
func (s Server) PostPaymentOrder(c echo.Context) error {
	var request postPaymentOrderRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ctx := c.Request().Context()

	event, err := s.eventsRepo.Get(ctx, request.EventID)
	if err != nil {
		return err
	}

	booking, err := s.bookings.CreatePendingBooking(ctx, request.EventID, request.UserName, request.UserEmail, request.NumberOfTickets)
	if err != nil {
		return err
	}

	amount := event.PriceAmount * int64(request.NumberOfTickets)
	if amount == 0 {
		confirmed, err := s.bookings.Confirm(ctx, booking.BookingID, "FREE_"+booking.BookingID)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, postPaymentOrderResponse{
			Booking: toBookingResponse(confirmed),
		})
	}

	order, err := s.payments.CreateOrder(ctx, amount, event.PriceCurrency, "receipt_"+booking.BookingID)
	if err != nil {
		// The booking stays pending; the client can retry the payment or
		// cancel the booking.
		log.FromContext(ctx).WithError(err).
			WithField("booking_id", booking.BookingID).
			Error("Failed to create payment order")
		return fmt.Errorf("could not create payment order: %w", err)
	}

	return c.JSON(http.StatusCreated, postPaymentOrderResponse{
		Booking: toBookingResponse(booking),
		Order:   &order,
	})
}

type postPaymentVerificationRequest struct {
	BookingID string `json:"booking_id"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// PostPaymentVerification settles a pending booking from the gateway's
// signed payment result. A valid signature confirms the booking; an invalid
// one fails it and releases the held tickets.
func (s Server) PostPaymentVerification(c echo.Context) error {
	var request postPaymentVerificationRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ctx := c.Request().Context()

	valid, err := s.payments.VerifyPayment(ctx, request.OrderID, request.PaymentID, request.Signature)
	if err != nil {
		return fmt.Errorf("could not verify payment: %w", err)
	}

	if !valid {
		failed, err := s.bookings.Fail(ctx, request.BookingID)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "payment verification failed",
			"booking": toBookingResponse(failed),
		})
	}

	confirmed, err := s.bookings.Confirm(ctx, request.BookingID, request.PaymentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingResponse(confirmed))
}
