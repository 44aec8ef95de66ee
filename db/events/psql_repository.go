package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"eventmanager/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Store(ctx context.Context, event entity.Event) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events (event_id, title, description, location, start_time, price_amount, price_currency, total_tickets, available_tickets)
		VALUES (:event_id, :title, :description, :location, :start_time, :price_amount, :price_currency, :total_tickets, :available_tickets)
		ON CONFLICT DO NOTHING -- ignore if already exists
	`, event)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, eventID string) (entity.Event, error) {
	var event entity.Event
	err := r.db.GetContext(ctx, &event, `
		SELECT event_id, title, description, location, start_time, price_amount, price_currency, total_tickets, available_tickets
		FROM events
		WHERE event_id = $1
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Event{}, entity.ErrEventNotFound
	}
	return event, err
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.SelectContext(ctx, &events, `
		SELECT event_id, title, description, location, start_time, price_amount, price_currency, total_tickets, available_tickets
		FROM events
		ORDER BY start_time
	`)
	return events, err
}

// UpdateParams carries the mutable event fields. A ticket-total change moves
// availability by the same delta inside the row lock so held tickets are
// never reclaimed.
type UpdateParams struct {
	Title         string
	Description   string
	Location      string
	StartTime     sql.NullTime
	PriceAmount   int64
	PriceCurrency string
	TotalTickets  int
}

func (r *PostgresRepository) Update(ctx context.Context, eventID string, params UpdateParams) (event entity.Event, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Event{}, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
			return
		}
		err = tx.Commit()
	}()

	var total, available int
	err = tx.QueryRowContext(ctx, `
		SELECT total_tickets, available_tickets
		FROM events
		WHERE event_id = $1
		FOR UPDATE
	`, eventID).Scan(&total, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Event{}, entity.ErrEventNotFound
	}
	if err != nil {
		return entity.Event{}, fmt.Errorf("could not lock event row: %w", err)
	}

	newAvailable := available + (params.TotalTickets - total)
	if newAvailable < 0 {
		return entity.Event{}, fmt.Errorf("%w: %d tickets already held", entity.ErrInsufficientTickets, total-available)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET title = $2, description = $3, location = $4,
		    start_time = COALESCE($5, start_time),
		    price_amount = $6, price_currency = $7,
		    total_tickets = $8, available_tickets = $9
		WHERE event_id = $1
	`, eventID, params.Title, params.Description, params.Location,
		params.StartTime, params.PriceAmount, params.PriceCurrency,
		params.TotalTickets, newAvailable)
	if err != nil {
		return entity.Event{}, fmt.Errorf("could not update event: %w", err)
	}

	err = tx.GetContext(ctx, &event, `
		SELECT event_id, title, description, location, start_time, price_amount, price_currency, total_tickets, available_tickets
		FROM events
		WHERE event_id = $1
	`, eventID)
	return event, err
}

func (r *PostgresRepository) Delete(ctx context.Context, eventID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

// TryReserve atomically checks availability and decrements it. The row lock
// serializes concurrent reservations for the same event, so two callers can
// never both take the last tickets.
func (r *PostgresRepository) TryReserve(ctx context.Context, eventID string, count int) (err error) {
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

	var available int
	err = tx.QueryRowContext(ctx, `
		SELECT available_tickets
		FROM events
		WHERE event_id = $1
		FOR UPDATE
	`, eventID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("could not lock event row: %w", err)
	}

	if available < count {
		return fmt.Errorf("%w: %d requested, %d available", entity.ErrInsufficientTickets, count, available)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET available_tickets = available_tickets - $2
		WHERE event_id = $1
	`, eventID, count)
	if err != nil {
		return fmt.Errorf("could not decrement available tickets: %w", err)
	}
	return nil
}

// Release returns previously held tickets to the pool. Releasing beyond the
// ticket total means a double release happened somewhere; it is reported as
// corruption and the increment is not applied.
func (r *PostgresRepository) Release(ctx context.Context, eventID string, count int) (err error) {
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

	var total, available int
	err = tx.QueryRowContext(ctx, `
		SELECT total_tickets, available_tickets
		FROM events
		WHERE event_id = $1
		FOR UPDATE
	`, eventID).Scan(&total, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("could not lock event row: %w", err)
	}

	if available+count > total {
		return fmt.Errorf("%w: releasing %d tickets would exceed total %d (available %d)",
			entity.ErrInventoryCorruption, count, total, available)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET available_tickets = available_tickets + $2
		WHERE event_id = $1
	`, eventID, count)
	if err != nil {
		return fmt.Errorf("could not increment available tickets: %w", err)
	}
	return nil
}
