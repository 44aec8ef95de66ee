package bookings

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"eventmanager/entity"
)

// MemoryRepository keeps bookings in memory for tests. Transitions use the
// same compare-and-swap semantics as the Postgres repository.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings map[string]entity.Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: map[string]entity.Booking{}}
}

func (r *MemoryRepository) Store(_ context.Context, booking entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.BookingID] = booking
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, bookingID string) (entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[bookingID]
	if !ok {
		return entity.Booking{}, entity.ErrBookingNotFound
	}
	return booking, nil
}

func (r *MemoryRepository) UpdateStatus(
	_ context.Context,
	bookingID string,
	from, to entity.BookingStatus,
	paymentReference string,
) (entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return entity.Booking{}, entity.ErrBookingNotFound
	}
	if booking.Status != from {
		return entity.Booking{}, fmt.Errorf("%w: booking %s is %s, expected %s",
			entity.ErrInvalidTransition, bookingID, booking.Status, from)
	}

	booking.Status = to
	if paymentReference != "" {
		booking.PaymentReference = paymentReference
	}
	r.bookings[bookingID] = booking
	return booking, nil
}

func (r *MemoryRepository) FindActive(_ context.Context) ([]entity.Booking, error) {
	return r.filter(func(entity.Booking) bool { return true }), nil
}

func (r *MemoryRepository) FindActiveByUserID(_ context.Context, userID string) ([]entity.Booking, error) {
	return r.filter(func(b entity.Booking) bool {
		return b.UserID != nil && *b.UserID == userID
	}), nil
}

func (r *MemoryRepository) filter(keep func(entity.Booking) bool) []entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []entity.Booking
	for _, booking := range r.bookings {
		if booking.Status == entity.BookingStatusCancelled || booking.Status == entity.BookingStatusFailed {
			continue
		}
		if keep(booking) {
			active = append(active, booking)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active
}
