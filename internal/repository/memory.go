package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// MemoryUserRepository keeps users in process memory. The user map and the
// email index change together under one lock.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	emails map[string]int64
	seq    int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[int64]models.User),
		emails: make(map[string]int64),
	}
}

func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.emails[user.Email]; taken {
		return fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, user.Email)
	}

	r.seq++
	user.ID = r.seq
	r.users[user.ID] = *user
	r.emails[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return &user, nil
}

func (r *MemoryUserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, user.ID)
	}
	if owner, taken := r.emails[user.Email]; taken && owner != user.ID {
		return fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, user.Email)
	}

	delete(r.emails, current.Email)
	r.emails[user.Email] = user.ID
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[id]
	if !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	delete(r.emails, current.Email)
	delete(r.users, id)
	return nil
}
