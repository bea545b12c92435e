package team

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ipl-fantasy/roster/internal/user"
)

// MemoryStore implements Store in process memory. A Tx holds the store's
// write lock from Begin until Commit or Rollback, so units of work run one
// at a time and readers only ever see committed state.
type MemoryStore struct {
	users user.Repository

	writeMu sync.Mutex
	mu      sync.RWMutex
	teams   map[uuid.UUID][]Team
}

// NewMemoryStore creates an empty in-memory Store. Owners are resolved
// against users.
func NewMemoryStore(users user.Repository) *MemoryStore {
	return &MemoryStore{
		users: users,
		teams: make(map[uuid.UUID][]Team),
	}
}

// Begin starts a unit of work, waiting for any other one to finish.
func (s *MemoryStore) Begin(_ context.Context) (Tx, error) {
	s.writeMu.Lock()
	return &memoryTx{store: s, staged: make(map[uuid.UUID][]Team)}, nil
}

// ListByOwner retrieves all teams of a user in creation order.
func (s *MemoryStore) ListByOwner(_ context.Context, userID uuid.UUID) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneTeams(s.teams[userID]), nil
}

type memoryTx struct {
	store  *MemoryStore
	staged map[uuid.UUID][]Team
	done   bool
}

func (t *memoryTx) LockOwner(ctx context.Context, userID uuid.UUID) error {
	if t.done {
		return ErrTxDone
	}
	if _, err := t.store.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("locking owner: %w", err)
	}
	return nil
}

func (t *memoryTx) DeleteByOwner(_ context.Context, userID uuid.UUID) (int64, error) {
	if t.done {
		return 0, ErrTxDone
	}
	removed := int64(len(t.current(userID)))
	t.staged[userID] = []Team{}
	return removed, nil
}

func (t *memoryTx) Create(_ context.Context, tm *Team) error {
	if t.done {
		return ErrTxDone
	}

	teams := t.current(tm.UserID)
	for _, existing := range teams {
		if existing.Name == tm.Name {
			return ErrDuplicateTeamName
		}
	}

	tm.ID = uuid.New()
	tm.CreatedAt = time.Now().UTC()

	stored := *tm
	stored.Players = cloneRows(tm.Players)
	t.staged[tm.UserID] = append(teams, stored)
	return nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true

	t.store.mu.Lock()
	for owner, teams := range t.staged {
		if len(teams) == 0 {
			delete(t.store.teams, owner)
			continue
		}
		t.store.teams[owner] = teams
	}
	t.store.mu.Unlock()

	t.store.writeMu.Unlock()
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	t.staged = nil
	t.store.writeMu.Unlock()
	return nil
}

// current returns the owner's teams as this unit of work sees them.
func (t *memoryTx) current(userID uuid.UUID) []Team {
	if teams, ok := t.staged[userID]; ok {
		return teams
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return cloneTeams(t.store.teams[userID])
}

func cloneTeams(teams []Team) []Team {
	out := make([]Team, len(teams))
	for i, tm := range teams {
		out[i] = tm
		out[i].Players = cloneRows(tm.Players)
	}
	return out
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}
