package events_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanager/db"
	"eventmanager/db/events"
	"eventmanager/entity"
)

func newPostgresRepository(t *testing.T) *events.PostgresRepository {
	t.Helper()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		t.Skip("POSTGRES_URL not set")
	}

	conn, err := sqlx.Open("postgres", postgresURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.InitializeDatabaseSchema(conn))

	return events.NewPostgresRepository(conn)
}

func TestPostgresReserveRelease(t *testing.T) {
	repo := newPostgresRepository(t)

	event := entity.Event{
		EventID:          uuid.NewString(),
		Title:            "Go Conference",
		TotalTickets:     5,
		AvailableTickets: 5,
	}
	require.NoError(t, repo.Store(context.Background(), event))

	require.NoError(t, repo.TryReserve(context.Background(), event.EventID, 3))

	got, err := repo.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableTickets)

	err = repo.TryReserve(context.Background(), event.EventID, 3)
	assert.ErrorIs(t, err, entity.ErrInsufficientTickets)

	require.NoError(t, repo.Release(context.Background(), event.EventID, 3))

	err = repo.Release(context.Background(), event.EventID, 1)
	assert.ErrorIs(t, err, entity.ErrInventoryCorruption)
}

func TestPostgresStoreIsIdempotent(t *testing.T) {
	repo := newPostgresRepository(t)

	event := entity.Event{
		EventID:          uuid.NewString(),
		Title:            "Go Conference",
		TotalTickets:     5,
		AvailableTickets: 5,
	}
	require.NoError(t, repo.Store(context.Background(), event))

	event.Title = "changed"
	require.NoError(t, repo.Store(context.Background(), event))

	got, err := repo.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, "Go Conference", got.Title)
}
