package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ErrNoTeams is returned when a replace is requested with an empty team set.
var ErrNoTeams = errors.New("no teams provided")

// ErrInvalidTeamName is returned when a team name is blank.
var ErrInvalidTeamName = errors.New("team name is required")

// Service owns the per-user team set.
type Service struct {
	store Store
}

// NewService creates a new team Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ReplaceTeams makes teams the user's complete team set in one unit of work:
// every existing team is deleted and one team per entry is created, players
// in the given order. On any failure the previous set is left intact. There
// is no merge; teams missing from the new set are gone.
func (s *Service) ReplaceTeams(ctx context.Context, userID uuid.UUID, teams Set) (Set, error) {
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}
	seen := make(map[string]bool, len(teams))
	for _, e := range teams {
		if strings.TrimSpace(e.Name) == "" {
			return nil, ErrInvalidTeamName
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTeamName, e.Name)
		}
		seen[e.Name] = true
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, ErrTxDone) {
			slog.Warn("rollback failed in ReplaceTeams", "error", rbErr, "userId", userID)
		}
	}()

	if err := tx.LockOwner(ctx, userID); err != nil {
		return nil, err
	}

	removed, err := tx.DeleteByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	persisted := make(Set, 0, len(teams))
	players := 0
	for i, e := range teams {
		tm := &Team{
			UserID:   userID,
			Name:     e.Name,
			Position: i,
			Players:  e.Players,
		}
		if err := tx.Create(ctx, tm); err != nil {
			return nil, err
		}
		persisted = append(persisted, Entry{Name: tm.Name, Players: cloneRows(tm.Players)})
		players += len(tm.Players)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	slog.Info("teams replaced", "userId", userID, "removed", removed, "teams", len(persisted), "players", players)
	return persisted, nil
}

// GetTeams returns the user's current team set, teams in creation order. A
// user without teams gets an empty set.
func (s *Service) GetTeams(ctx context.Context, userID uuid.UUID) (Set, error) {
	teams, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(Set, 0, len(teams))
	for _, tm := range teams {
		set = append(set, Entry{Name: tm.Name, Players: tm.Players})
	}
	return set, nil
}
