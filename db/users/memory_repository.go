package users

import (
	"context"
	"sync"

	"eventmanager/entity"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[string]entity.User{}}
}

func (r *MemoryRepository) Store(_ context.Context, user entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = user
	return nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return entity.User{}, entity.ErrUserNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, userID string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return entity.User{}, entity.ErrUserNotFound
	}
	return user, nil
}
