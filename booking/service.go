// Package booking implements the reservation and booking lifecycle. A
// booking holds tickets from the moment it is created in PENDING_PAYMENT;
// the hold is returned to the pool when the booking fails or is cancelled,
// and kept when it is confirmed.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventmanager/entity"
	"eventmanager/metrics"
	"eventmanager/pkg/log"
)

var ErrInvalidTicketCount = errors.New("number of tickets must be at least 1")

// Inventory owns the per-event ticket counters. It is the only writer of
// available ticket counts; both operations are atomic per event.
type Inventory interface {
	TryReserve(ctx context.Context, eventID string, count int) error
	Release(ctx context.Context, eventID string, count int) error
}

type EventsRepository interface {
	Get(ctx context.Context, eventID string) (entity.Event, error)
}

type Repository interface {
	Store(ctx context.Context, booking entity.Booking) error
	Get(ctx context.Context, bookingID string) (entity.Booking, error)
	// UpdateStatus applies the transition only if the booking is still in
	// the from status, and returns the updated booking.
	UpdateStatus(ctx context.Context, bookingID string, from, to entity.BookingStatus, paymentReference string) (entity.Booking, error)
	FindActive(ctx context.Context) ([]entity.Booking, error)
	FindActiveByUserID(ctx context.Context, userID string) ([]entity.Booking, error)
}

type UsersRepository interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Service struct {
	inventory Inventory
	events    EventsRepository
	bookings  Repository
	users     UsersRepository
	publisher EventPublisher
}

func NewService(
	inventory Inventory,
	events EventsRepository,
	bookings Repository,
	users UsersRepository,
	publisher EventPublisher,
) *Service {
	if inventory == nil {
		panic("missing inventory")
	}
	if events == nil {
		panic("missing events repository")
	}
	if bookings == nil {
		panic("missing bookings repository")
	}
	if users == nil {
		panic("missing users repository")
	}
	if publisher == nil {
		panic("missing event publisher")
	}

	return &Service{
		inventory: inventory,
		events:    events,
		bookings:  bookings,
		users:     users,
		publisher: publisher,
	}
}

// CreatePendingBooking reserves tickets and records the booking in
// PENDING_PAYMENT. The reservation is a hold, not yet revenue: the caller
// drives the payment and reports the outcome through Confirm or Fail.
func (s *Service) CreatePendingBooking(
	ctx context.Context,
	eventID, userName, userEmail string,
	numberOfTickets int,
) (entity.Booking, error) {
	if numberOfTickets < 1 {
		return entity.Booking{}, ErrInvalidTicketCount
	}

	if err := s.inventory.TryReserve(ctx, eventID, numberOfTickets); err != nil {
		if errors.Is(err, entity.ErrInsufficientTickets) || errors.Is(err, entity.ErrEventNotFound) {
			metrics.BookingsRejected.Inc()
		}
		return entity.Booking{}, err
	}

	booking := entity.Booking{
		BookingID:       uuid.NewString(),
		EventID:         eventID,
		UserName:        userName,
		UserEmail:       userEmail,
		NumberOfTickets: numberOfTickets,
		CreatedAt:       time.Now().UTC(),
		Status:          entity.BookingStatusPendingPayment,
	}

	// Link a registered account when the email matches one. This is a
	// lookup-only convenience; a failed lookup never blocks the booking.
	if user, err := s.users.GetByEmail(ctx, userEmail); err == nil {
		booking.UserID = &user.UserID
	} else if !errors.Is(err, entity.ErrUserNotFound) {
		log.FromContext(ctx).WithError(err).Warn("Could not look up account for booking email")
	}

	if err := s.bookings.Store(ctx, booking); err != nil {
		// The hold was taken but the record did not stick; give the
		// tickets back so they are not leaked.
		if releaseErr := s.inventory.Release(ctx, eventID, numberOfTickets); releaseErr != nil {
			log.FromContext(ctx).WithError(releaseErr).
				WithField("event_id", eventID).
				Error("Failed to release tickets after booking store failure")
		}
		return entity.Booking{}, fmt.Errorf("could not store booking: %w", err)
	}

	metrics.BookingsCreated.Inc()

	log.FromContext(ctx).WithFields(map[string]any{
		"booking_id":        booking.BookingID,
		"event_id":          eventID,
		"number_of_tickets": numberOfTickets,
	}).Info("Created pending booking")

	return booking, nil
}

// Confirm moves a pending booking to CONFIRMED and stores the payment
// reference. Tickets stay held. The confirmation notice is published
// best-effort: a publish failure is logged and never reverts the
// confirmation.
func (s *Service) Confirm(ctx context.Context, bookingID, paymentReference string) (entity.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return entity.Booking{}, err
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusConfirmed) {
		return entity.Booking{}, fmt.Errorf("%w: cannot confirm booking in status %s",
			entity.ErrInvalidTransition, booking.Status)
	}

	confirmed, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, entity.BookingStatusConfirmed, paymentReference)
	if err != nil {
		return entity.Booking{}, err
	}

	metrics.BookingsConfirmed.Inc()

	eventTitle := ""
	if event, err := s.events.Get(ctx, confirmed.EventID); err == nil {
		eventTitle = event.Title
	} else {
		log.FromContext(ctx).WithError(err).
			WithField("event_id", confirmed.EventID).
			Warn("Could not load event title for confirmation notice")
	}

	err = s.publisher.Publish(ctx, entity.BookingConfirmed{
		Header:           entity.NewEventHeader(),
		BookingID:        confirmed.BookingID,
		EventID:          confirmed.EventID,
		EventTitle:       eventTitle,
		UserEmail:        confirmed.UserEmail,
		NumberOfTickets:  confirmed.NumberOfTickets,
		PaymentReference: confirmed.PaymentReference,
	})
	if err != nil {
		log.FromContext(ctx).WithError(err).
			WithField("booking_id", bookingID).
			Error("Failed to publish booking confirmation")
	}

	log.FromContext(ctx).WithField("booking_id", bookingID).Info("Confirmed booking")

	return confirmed, nil
}

// Fail marks a pending booking as FAILED and returns its tickets to the
// pool. Only PENDING_PAYMENT bookings can fail.
func (s *Service) Fail(ctx context.Context, bookingID string) (entity.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return entity.Booking{}, err
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusFailed) {
		return entity.Booking{}, fmt.Errorf("%w: cannot fail booking in status %s",
			entity.ErrInvalidTransition, booking.Status)
	}

	failed, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, entity.BookingStatusFailed, "")
	if err != nil {
		return entity.Booking{}, err
	}

	metrics.BookingsFailed.Inc()

	if err := s.inventory.Release(ctx, failed.EventID, failed.NumberOfTickets); err != nil {
		log.FromContext(ctx).WithError(err).
			WithField("booking_id", bookingID).
			Error("Failed to release tickets for failed booking")
		return entity.Booking{}, err
	}

	s.publishResolution(ctx, entity.BookingFailed{
		Header:          entity.NewEventHeader(),
		BookingID:       failed.BookingID,
		EventID:         failed.EventID,
		NumberOfTickets: failed.NumberOfTickets,
	})

	log.FromContext(ctx).WithField("booking_id", bookingID).Info("Marked booking as failed")

	return failed, nil
}

// Cancel cancels a pending or confirmed booking and returns its tickets to
// the pool. FAILED and CANCELLED bookings stay as they are.
func (s *Service) Cancel(ctx context.Context, bookingID string) (entity.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return entity.Booking{}, err
	}
	if !booking.Status.CanTransitionTo(entity.BookingStatusCancelled) {
		return entity.Booking{}, fmt.Errorf("%w: cannot cancel booking in status %s",
			entity.ErrInvalidTransition, booking.Status)
	}

	cancelled, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, entity.BookingStatusCancelled, "")
	if err != nil {
		return entity.Booking{}, err
	}

	metrics.BookingsCancelled.Inc()

	if err := s.inventory.Release(ctx, cancelled.EventID, cancelled.NumberOfTickets); err != nil {
		log.FromContext(ctx).WithError(err).
			WithField("booking_id", bookingID).
			Error("Failed to release tickets for cancelled booking")
		return entity.Booking{}, err
	}

	s.publishResolution(ctx, entity.BookingCancelled{
		Header:          entity.NewEventHeader(),
		BookingID:       cancelled.BookingID,
		EventID:         cancelled.EventID,
		UserEmail:       cancelled.UserEmail,
		NumberOfTickets: cancelled.NumberOfTickets,
	})

	log.FromContext(ctx).WithField("booking_id", bookingID).Info("Cancelled booking")

	return cancelled, nil
}

// ActiveBookings lists bookings that still hold tickets; resolved FAILED
// and CANCELLED bookings are kept for audit but excluded here.
func (s *Service) ActiveBookings(ctx context.Context) ([]entity.Booking, error) {
	return s.bookings.FindActive(ctx)
}

func (s *Service) BookingsForUser(ctx context.Context, userID string) ([]entity.Booking, error) {
	return s.bookings.FindActiveByUserID(ctx, userID)
}

func (s *Service) BookingByID(ctx context.Context, bookingID string) (entity.Booking, error) {
	return s.bookings.Get(ctx, bookingID)
}

func (s *Service) publishResolution(ctx context.Context, event any) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Error("Failed to publish booking resolution event")
	}
}
