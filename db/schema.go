package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	start_time TIMESTAMPTZ NOT NULL,
	price_amount BIGINT NOT NULL,
	price_currency TEXT NOT NULL,
	total_tickets INT NOT NULL CHECK (total_tickets >= 0),
	available_tickets INT NOT NULL CHECK (available_tickets >= 0 AND available_tickets <= total_tickets)
);

CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS bookings (
	booking_id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events (event_id),
	user_id UUID REFERENCES users (user_id),
	user_name TEXT NOT NULL,
	user_email TEXT NOT NULL,
	number_of_tickets INT NOT NULL CHECK (number_of_tickets > 0),
	created_at TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL,
	payment_reference TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id);
CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id);
`

func InitializeDatabaseSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}
	return nil
}
