package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"eventmanager/entity"
)

type bookingResponse struct {
	BookingID        string    `json:"booking_id"`
	EventID          string    `json:"event_id"`
	UserID           *string   `json:"user_id,omitempty"`
	UserName         string    `json:"user_name"`
	UserEmail        string    `json:"user_email"`
	NumberOfTickets  int       `json:"number_of_tickets"`
	CreatedAt        time.Time `json:"created_at"`
	Status           string    `json:"status"`
	PaymentReference string    `json:"payment_reference,omitempty"`
}

func toBookingResponse(booking entity.Booking) bookingResponse {
	return bookingResponse{
		BookingID:        booking.BookingID,
		EventID:          booking.EventID,
		UserID:           booking.UserID,
		UserName:         booking.UserName,
		UserEmail:        booking.UserEmail,
		NumberOfTickets:  booking.NumberOfTickets,
		CreatedAt:        booking.CreatedAt,
		Status:           string(booking.Status),
		PaymentReference: booking.PaymentReference,
	}
}

func toBookingResponses(bookings []entity.Booking) []bookingResponse {
	return lo.Map(bookings, func(booking entity.Booking, _ int) bookingResponse {
		return toBookingResponse(booking)
	})
}

// GetBookings lists bookings that still hold tickets.
func (s Server) GetBookings(c echo.Context) error {
	active, err := s.bookings.ActiveBookings(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingResponses(active))
}

func (s Server) GetBooking(c echo.Context) error {
	booking, err := s.bookings.BookingByID(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (s Server) CancelBooking(c echo.Context) error {
	cancelled, err := s.bookings.Cancel(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (s Server) GetUserBookings(c echo.Context) error {
	userID := c.Param("user_id")

	if _, err := s.usersRepo.GetByID(c.Request().Context(), userID); err != nil {
		return err
	}

	bookings, err := s.bookings.BookingsForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}
