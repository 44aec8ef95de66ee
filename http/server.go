package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"eventmanager/booking"
	"eventmanager/db/events"
	"eventmanager/entity"
	"eventmanager/gateway"
	"eventmanager/pkg/log"
)

type BookingService interface {
	CreatePendingBooking(ctx context.Context, eventID, userName, userEmail string, numberOfTickets int) (entity.Booking, error)
	Confirm(ctx context.Context, bookingID, paymentReference string) (entity.Booking, error)
	Fail(ctx context.Context, bookingID string) (entity.Booking, error)
	Cancel(ctx context.Context, bookingID string) (entity.Booking, error)
	ActiveBookings(ctx context.Context) ([]entity.Booking, error)
	BookingsForUser(ctx context.Context, userID string) ([]entity.Booking, error)
	BookingByID(ctx context.Context, bookingID string) (entity.Booking, error)
}

type EventsRepository interface {
	Store(ctx context.Context, event entity.Event) error
	Get(ctx context.Context, eventID string) (entity.Event, error)
	FindAll(ctx context.Context) ([]entity.Event, error)
	Update(ctx context.Context, eventID string, params events.UpdateParams) (entity.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type UsersRepository interface {
	Store(ctx context.Context, user entity.User) error
	GetByID(ctx context.Context, userID string) (entity.User, error)
}

type PaymentsService interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (gateway.PaymentOrder, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (bool, error)
}

type Server struct {
	addr       string
	e          *echo.Echo
	bookings   BookingService
	eventsRepo EventsRepository
	usersRepo  UsersRepository
	payments   PaymentsService
}

func NewServer(
	addr string,
	bookings BookingService,
	eventsRepo EventsRepository,
	usersRepo UsersRepository,
	payments PaymentsService,
) *Server {
	e := newEcho()

	server := &Server{
		addr:       addr,
		e:          e,
		bookings:   bookings,
		eventsRepo: eventsRepo,
		usersRepo:  usersRepo,
		payments:   payments,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/events", server.PostEvent)
	e.GET("/events", server.GetEvents)
	e.GET("/events/:event_id", server.GetEvent)
	e.PUT("/events/:event_id", server.PutEvent)
	e.DELETE("/events/:event_id", server.DeleteEvent)

	e.GET("/bookings", server.GetBookings)
	e.GET("/bookings/:booking_id", server.GetBooking)
	e.POST("/bookings/:booking_id/cancel", server.CancelBooking)

	e.POST("/users", server.PostUser)
	e.GET("/users/:user_id/bookings", server.GetUserBookings)

	e.POST("/payments/orders", server.PostPaymentOrder)
	e.POST("/payments/verify", server.PostPaymentVerification)

	return server
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(e)

	e.Use(otelecho.Middleware("eventmanager"))
	e.Use(correlationIDMiddleware)

	return e
}

// errorHandler maps domain errors to status codes before falling back to
// echo's default handler.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		switch {
		case errors.Is(err, entity.ErrEventNotFound),
			errors.Is(err, entity.ErrBookingNotFound),
			errors.Is(err, entity.ErrUserNotFound):
			err = echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, entity.ErrInsufficientTickets),
			errors.Is(err, booking.ErrInvalidTicketCount):
			err = echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, entity.ErrInvalidTransition):
			err = echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			log.FromContext(c.Request().Context()).WithError(err).Error("HTTP handler failed")
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}

func correlationIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		correlationID := c.Request().Header.Get("Correlation-ID")
		if correlationID == "" {
			correlationID = shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(c.Request().Context(), correlationID)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set("Correlation-ID", correlationID)

		return next(c)
	}
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
