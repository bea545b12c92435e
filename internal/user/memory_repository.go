package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository implements Repository in process memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      []User
	byID       map[uuid.UUID]int
	byUsername map[string]int
}

// NewMemoryRepository creates an empty in-memory Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[uuid.UUID]int),
		byUsername: make(map[string]int),
	}
}

// Create inserts a new user record.
func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[u.Username]; ok {
		return ErrDuplicateUsername
	}

	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()

	r.byID[u.ID] = len(r.users)
	r.byUsername[u.Username] = len(r.users)
	r.users = append(r.users, *u)

	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.users[i]
	return &u, nil
}

// GetByUsername retrieves a single user by its exact username.
func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.users[i]
	return &u, nil
}

// List retrieves all users in creation order.
func (r *MemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users, nil
}
