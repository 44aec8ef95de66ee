package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanager/booking"
	"eventmanager/db/bookings"
	"eventmanager/db/events"
	"eventmanager/db/users"
	"eventmanager/gateway"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, any) error { return nil }

type testServer struct {
	*Server
	events   *events.MemoryRepository
	users    *users.MemoryRepository
	payments *gateway.PaymentsMock
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	eventsRepo := events.NewMemoryRepository()
	bookingsRepo := bookings.NewMemoryRepository()
	usersRepo := users.NewMemoryRepository()
	payments := &gateway.PaymentsMock{VerifyResult: true}

	bookingService := booking.NewService(eventsRepo, eventsRepo, bookingsRepo, usersRepo, nopPublisher{})

	return testServer{
		Server:   NewServer(":0", bookingService, eventsRepo, usersRepo, payments),
		events:   eventsRepo,
		users:    usersRepo,
		payments: payments,
	}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s testServer) createEvent(t *testing.T, priceAmount int64, totalTickets int) eventResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/events", postEventRequest{
		Title:         "Go Conference",
		Location:      "Berlin",
		PriceAmount:   priceAmount,
		PriceCurrency: "EUR",
		TotalTickets:  totalTickets,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	return decode[eventResponse](t, rec)
}

func TestEventCRUD(t *testing.T) {
	s := newTestServer(t)

	created := s.createEvent(t, 5000, 10)
	assert.Equal(t, 10, created.AvailableTickets)

	rec := s.do(t, http.MethodGet, "/events/"+created.EventID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[eventResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]eventResponse](t, rec), 1)

	rec = s.do(t, http.MethodPut, "/events/"+created.EventID, postEventRequest{
		Title:         "GopherCon",
		Location:      "Berlin",
		PriceAmount:   6000,
		PriceCurrency: "EUR",
		TotalTickets:  12,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[eventResponse](t, rec)
	assert.Equal(t, "GopherCon", updated.Title)
	assert.Equal(t, 12, updated.AvailableTickets)

	rec = s.do(t, http.MethodDelete, "/events/"+created.EventID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/events/"+created.EventID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostPaymentOrderForPaidEvent(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(t, 5000, 10)

	rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
		EventID:         event.EventID,
		UserName:        "Alice",
		UserEmail:       "alice@example.com",
		NumberOfTickets: 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	response := decode[postPaymentOrderResponse](t, rec)
	assert.Equal(t, "PENDING_PAYMENT", response.Booking.Status)
	require.NotNil(t, response.Order)
	assert.Equal(t, int64(10000), response.Order.Amount)
	assert.Equal(t, "receipt_"+response.Booking.BookingID, response.Order.Receipt)

	// the order holds the tickets while payment is pending
	rec = s.do(t, http.MethodGet, "/events/"+event.EventID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, decode[eventResponse](t, rec).AvailableTickets)
}

func TestPostPaymentOrderForFreeEventConfirmsImmediately(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(t, 0, 10)

	rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
		EventID:         event.EventID,
		UserName:        "Alice",
		UserEmail:       "alice@example.com",
		NumberOfTickets: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	response := decode[postPaymentOrderResponse](t, rec)
	assert.Equal(t, "CONFIRMED", response.Booking.Status)
	assert.Equal(t, "FREE_"+response.Booking.BookingID, response.Booking.PaymentReference)
	assert.Nil(t, response.Order)
	assert.Empty(t, s.payments.Orders)
}

func TestPostPaymentOrderValidation(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(t, 5000, 2)

	t.Run("unknown event", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
			EventID:         "missing",
			UserEmail:       "alice@example.com",
			NumberOfTickets: 1,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("zero tickets", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
			EventID:         event.EventID,
			UserEmail:       "alice@example.com",
			NumberOfTickets: 0,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not enough tickets", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
			EventID:         event.EventID,
			UserEmail:       "alice@example.com",
			NumberOfTickets: 3,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostPaymentVerification(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(t, 5000, 10)

	makeOrder := func(t *testing.T) postPaymentOrderResponse {
		rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
			EventID:         event.EventID,
			UserName:        "Alice",
			UserEmail:       "alice@example.com",
			NumberOfTickets: 2,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		return decode[postPaymentOrderResponse](t, rec)
	}

	t.Run("valid payment confirms the booking", func(t *testing.T) {
		order := makeOrder(t)
		s.payments.VerifyResult = true

		rec := s.do(t, http.MethodPost, "/payments/verify", postPaymentVerificationRequest{
			BookingID: order.Booking.BookingID,
			OrderID:   order.Order.OrderID,
			PaymentID: "pay_123",
			Signature: "sig",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		confirmed := decode[bookingResponse](t, rec)
		assert.Equal(t, "CONFIRMED", confirmed.Status)
		assert.Equal(t, "pay_123", confirmed.PaymentReference)
	})

	t.Run("invalid payment fails the booking and releases tickets", func(t *testing.T) {
		before := decode[eventResponse](t, s.do(t, http.MethodGet, "/events/"+event.EventID, nil)).AvailableTickets

		order := makeOrder(t)
		s.payments.VerifyResult = false

		rec := s.do(t, http.MethodPost, "/payments/verify", postPaymentVerificationRequest{
			BookingID: order.Booking.BookingID,
			OrderID:   order.Order.OrderID,
			PaymentID: "pay_123",
			Signature: "bad-sig",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		after := decode[eventResponse](t, s.do(t, http.MethodGet, "/events/"+event.EventID, nil)).AvailableTickets
		assert.Equal(t, before, after)
	})
}

func TestCancelBooking(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(t, 0, 10)

	rec := s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
		EventID:         event.EventID,
		UserEmail:       "alice@example.com",
		NumberOfTickets: 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	bookingID := decode[postPaymentOrderResponse](t, rec).Booking.BookingID

	rec = s.do(t, http.MethodPost, "/bookings/"+bookingID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CANCELLED", decode[bookingResponse](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/events/"+event.EventID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, decode[eventResponse](t, rec).AvailableTickets)

	// cancelling a resolved booking conflicts
	rec = s.do(t, http.MethodPost, "/bookings/"+bookingID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetBookingNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/bookings/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserBookings(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(t, 0, 10)

	rec := s.do(t, http.MethodPost, "/users", postUserRequest{Name: "Alice", Email: "alice@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[struct {
		UserID string `json:"user_id"`
	}](t, rec)

	rec = s.do(t, http.MethodPost, "/payments/orders", postPaymentOrderRequest{
		EventID:         event.EventID,
		UserName:        "Alice",
		UserEmail:       "alice@example.com",
		NumberOfTickets: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/users/"+user.UserID+"/bookings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]bookingResponse](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/users/unknown/bookings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Correlation-ID", "corr-42")
	echoed := httptest.NewRecorder()
	s.e.ServeHTTP(echoed, req)
	assert.Equal(t, "corr-42", echoed.Header().Get("Correlation-ID"))
}
