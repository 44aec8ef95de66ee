package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"eventmanager/entity"
	"eventmanager/pubsub/bus"
	"eventmanager/pubsub/outbox"
)

const columns = `booking_id, event_id, user_id, user_name, user_email, number_of_tickets, created_at, status, payment_reference`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Store inserts a pending booking and publishes BookingMade through the
// outbox in the same transaction, so the event is emitted exactly when the
// booking is durable.
func (r *PostgresRepository) Store(ctx context.Context, booking entity.Booking) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
			return
		}
		err = tx.Commit()
	}()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO bookings (`+columns+`)
		VALUES (:booking_id, :event_id, :user_id, :user_name, :user_email, :number_of_tickets, :created_at, :status, :payment_reference)
	`, booking)
	if err != nil {
		return fmt.Errorf("could not insert booking: %w", err)
	}

	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	eventBus, err := bus.NewEventBus(outboxPublisher)
	if err != nil {
		return err
	}

	err = eventBus.Publish(ctx, entity.BookingMade{
		Header:          entity.NewEventHeader(),
		BookingID:       booking.BookingID,
		EventID:         booking.EventID,
		UserEmail:       booking.UserEmail,
		NumberOfTickets: booking.NumberOfTickets,
	})
	if err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, bookingID string) (entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, `
		SELECT `+columns+`
		FROM bookings
		WHERE booking_id = $1
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, entity.ErrBookingNotFound
	}
	return booking, err
}

// UpdateStatus transitions a booking from one status to another with a
// compare-and-swap on the current status, so concurrent transitions cannot
// both apply. The payment reference is only written when non-empty.
func (r *PostgresRepository) UpdateStatus(
	ctx context.Context,
	bookingID string,
	from, to entity.BookingStatus,
	paymentReference string,
) (entity.Booking, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $3,
		    payment_reference = CASE WHEN $4 <> '' THEN $4 ELSE payment_reference END
		WHERE booking_id = $1 AND status = $2
	`, bookingID, from, to, paymentReference)
	if err != nil {
		return entity.Booking{}, fmt.Errorf("could not update booking status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return entity.Booking{}, err
	}
	if affected == 0 {
		// Either the booking does not exist or it moved on concurrently.
		current, err := r.Get(ctx, bookingID)
		if err != nil {
			return entity.Booking{}, err
		}
		return entity.Booking{}, fmt.Errorf("%w: booking %s is %s, expected %s",
			entity.ErrInvalidTransition, bookingID, current.Status, from)
	}

	return r.Get(ctx, bookingID)
}

// FindActive returns bookings that still hold tickets, excluding the
// terminal CANCELLED and FAILED statuses.
func (r *PostgresRepository) FindActive(ctx context.Context) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+columns+`
		FROM bookings
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at
	`, entity.BookingStatusCancelled, entity.BookingStatusFailed)
	return bookings, err
}

func (r *PostgresRepository) FindActiveByUserID(ctx context.Context, userID string) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+columns+`
		FROM bookings
		WHERE user_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at
	`, userID, entity.BookingStatusCancelled, entity.BookingStatusFailed)
	return bookings, err
}
