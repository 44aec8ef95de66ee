package events_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanager/db/events"
	"eventmanager/entity"
)

func storeEvent(t *testing.T, repo *events.MemoryRepository, total int) entity.Event {
	t.Helper()

	event := entity.Event{
		EventID:          uuid.NewString(),
		Title:            "Go Conference",
		TotalTickets:     total,
		AvailableTickets: total,
	}
	require.NoError(t, repo.Store(context.Background(), event))
	return event
}

func TestTryReserveAndRelease(t *testing.T) {
	repo := events.NewMemoryRepository()
	event := storeEvent(t, repo, 5)

	require.NoError(t, repo.TryReserve(context.Background(), event.EventID, 3))

	got, err := repo.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableTickets)

	err = repo.TryReserve(context.Background(), event.EventID, 3)
	assert.ErrorIs(t, err, entity.ErrInsufficientTickets)

	require.NoError(t, repo.Release(context.Background(), event.EventID, 3))

	got, err = repo.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableTickets)
}

func TestTryReserveUnknownEvent(t *testing.T) {
	repo := events.NewMemoryRepository()

	err := repo.TryReserve(context.Background(), uuid.NewString(), 1)
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}

func TestReleaseBeyondTotalIsCorruption(t *testing.T) {
	repo := events.NewMemoryRepository()
	event := storeEvent(t, repo, 5)

	err := repo.Release(context.Background(), event.EventID, 1)
	assert.ErrorIs(t, err, entity.ErrInventoryCorruption)

	// the failed release must not change availability
	got, err := repo.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableTickets)
}

func TestConcurrentReservationsStayWithinPool(t *testing.T) {
	repo := events.NewMemoryRepository()
	event := storeEvent(t, repo, 10)

	var wg sync.WaitGroup
	succeeded := make(chan struct{}, 30)

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.TryReserve(context.Background(), event.EventID, 1); err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	assert.Len(t, succeeded, 10)

	got, err := repo.Get(context.Background(), event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableTickets)
}

func TestUpdateAdjustsAvailabilityByTotalDelta(t *testing.T) {
	repo := events.NewMemoryRepository()
	event := storeEvent(t, repo, 10)

	require.NoError(t, repo.TryReserve(context.Background(), event.EventID, 6))

	t.Run("growing the pool keeps the hold", func(t *testing.T) {
		updated, err := repo.Update(context.Background(), event.EventID, events.UpdateParams{
			Title:        "Go Conference",
			TotalTickets: 12,
		})
		require.NoError(t, err)
		assert.Equal(t, 12, updated.TotalTickets)
		assert.Equal(t, 6, updated.AvailableTickets)
	})

	t.Run("shrinking below the hold is rejected", func(t *testing.T) {
		_, err := repo.Update(context.Background(), event.EventID, events.UpdateParams{
			Title:        "Go Conference",
			TotalTickets: 5,
		})
		assert.ErrorIs(t, err, entity.ErrInsufficientTickets)
	})
}
