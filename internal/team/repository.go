package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrOwnerNotFound is returned when the owning user does not exist.
var ErrOwnerNotFound = errors.New("team owner not found")

// ErrDuplicateTeamName is returned when an owner already has a team with the same name.
var ErrDuplicateTeamName = errors.New("team name already exists")

// ErrTxDone is returned when a Tx is used after Commit or Rollback.
var ErrTxDone = errors.New("transaction already committed or rolled back")

// Store persists teams. All writes go through a Tx; readers observe either
// the state before Begin or the state after Commit, never a mix.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]Team, error)
}

// Tx is one all-or-nothing unit of work against a Store.
type Tx interface {
	// LockOwner serializes concurrent units of work for the same owner
	// until Commit or Rollback.
	LockOwner(ctx context.Context, userID uuid.UUID) error
	// DeleteByOwner removes every team (and its players) owned by userID and
	// reports how many teams were removed.
	DeleteByOwner(ctx context.Context, userID uuid.UUID) (int64, error)
	// Create inserts the team and its players in order, filling ID and CreatedAt.
	Create(ctx context.Context, t *Team) error
	Commit(ctx context.Context) error
	// Rollback discards the unit of work. It returns ErrTxDone after Commit.
	Rollback(ctx context.Context) error
}
