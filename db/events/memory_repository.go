package events

import (
	"context"
	"fmt"
	"sync"

	"eventmanager/entity"
)

// MemoryRepository keeps events in memory with a mutex per event, so
// reservations for one event serialize without blocking others. It backs
// tests and mirrors the Postgres row-lock discipline.
type MemoryRepository struct {
	mu     sync.RWMutex
	events map[string]*memoryEvent
}

type memoryEvent struct {
	mu    sync.Mutex
	event entity.Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: map[string]*memoryEvent{}}
}

func (r *MemoryRepository) Store(_ context.Context, event entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.EventID]; ok {
		return nil
	}
	r.events[event.EventID] = &memoryEvent{event: event}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, eventID string) (entity.Event, error) {
	record, ok := r.lookup(eventID)
	if !ok {
		return entity.Event{}, entity.ErrEventNotFound
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	return record.event, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]entity.Event, 0, len(r.events))
	for _, record := range r.events {
		record.mu.Lock()
		all = append(all, record.event)
		record.mu.Unlock()
	}
	return all, nil
}

func (r *MemoryRepository) Update(_ context.Context, eventID string, params UpdateParams) (entity.Event, error) {
	record, ok := r.lookup(eventID)
	if !ok {
		return entity.Event{}, entity.ErrEventNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	event := record.event
	newAvailable := event.AvailableTickets + (params.TotalTickets - event.TotalTickets)
	if newAvailable < 0 {
		return entity.Event{}, fmt.Errorf("%w: %d tickets already held",
			entity.ErrInsufficientTickets, event.TotalTickets-event.AvailableTickets)
	}

	event.Title = params.Title
	event.Description = params.Description
	event.Location = params.Location
	if params.StartTime.Valid {
		event.StartTime = params.StartTime.Time
	}
	event.PriceAmount = params.PriceAmount
	event.PriceCurrency = params.PriceCurrency
	event.TotalTickets = params.TotalTickets
	event.AvailableTickets = newAvailable

	record.event = event
	return event, nil
}

func (r *MemoryRepository) Delete(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[eventID]; !ok {
		return entity.ErrEventNotFound
	}
	delete(r.events, eventID)
	return nil
}

func (r *MemoryRepository) TryReserve(_ context.Context, eventID string, count int) error {
	record, ok := r.lookup(eventID)
	if !ok {
		return entity.ErrEventNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	if record.event.AvailableTickets < count {
		return fmt.Errorf("%w: %d requested, %d available",
			entity.ErrInsufficientTickets, count, record.event.AvailableTickets)
	}
	record.event.AvailableTickets -= count
	return nil
}

func (r *MemoryRepository) Release(_ context.Context, eventID string, count int) error {
	record, ok := r.lookup(eventID)
	if !ok {
		return entity.ErrEventNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	if record.event.AvailableTickets+count > record.event.TotalTickets {
		return fmt.Errorf("%w: releasing %d tickets would exceed total %d (available %d)",
			entity.ErrInventoryCorruption, count, record.event.TotalTickets, record.event.AvailableTickets)
	}
	record.event.AvailableTickets += count
	return nil
}

func (r *MemoryRepository) lookup(eventID string) (*memoryEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.events[eventID]
	return record, ok
}
