package team

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &PostgresStore{pool: pool}
}

// Begin starts a read-committed transaction.
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &postgresTx{tx: tx}, nil
}

// ListByOwner retrieves all teams of a user with their players, teams in
// creation order and players in insertion order. A single statement reads
// one snapshot, so a concurrent replace is never half-visible.
func (s *PostgresStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]Team, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.position, t.created_at, p.data
		FROM teams t
		LEFT JOIN players p ON p.team_id = t.id
		WHERE t.user_id = $1
		ORDER BY t.created_at ASC, t.position ASC, p.position ASC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var (
			t    Team
			data []byte
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Position, &t.CreatedAt, &data); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}

		if n := len(teams); n == 0 || teams[n-1].ID != t.ID {
			t.Players = []Row{}
			teams = append(teams, t)
		}
		if data == nil {
			continue
		}

		var player Row
		if err := json.Unmarshal(data, &player); err != nil {
			return nil, fmt.Errorf("decoding player row of team %q: %w", t.Name, err)
		}
		last := &teams[len(teams)-1]
		last.Players = append(last.Players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) LockOwner(ctx context.Context, userID uuid.UUID) error {
	var id uuid.UUID
	err := t.tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("locking owner: %w", err)
	}
	return nil
}

func (t *postgresTx) DeleteByOwner(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := t.tx.Exec(ctx, `DELETE FROM teams WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting teams: %w", err)
	}
	return result.RowsAffected(), nil
}

func (t *postgresTx) Create(ctx context.Context, tm *Team) error {
	query := `
		INSERT INTO teams (user_id, name, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := t.tx.QueryRow(ctx, query, tm.UserID, tm.Name, tm.Position).Scan(&tm.ID, &tm.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateTeamName
			case "23503":
				return ErrOwnerNotFound
			}
		}
		return fmt.Errorf("inserting team: %w", err)
	}

	if len(tm.Players) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(tm.Players))
	for i, p := range tm.Players {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding player row %d of team %q: %w", i, tm.Name, err)
		}
		rows = append(rows, []any{tm.ID, i, data})
	}

	_, err = t.tx.CopyFrom(ctx,
		pgx.Identifier{"players"},
		[]string{"team_id", "position", "data"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting players of team %q: %w", tm.Name, err)
	}

	return nil
}

func (t *postgresTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return ErrTxDone
		}
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (t *postgresTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return ErrTxDone
		}
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}
