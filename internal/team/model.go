package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table together with its player rows.
type Team struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Position  int // order within the owner's upload
	CreatedAt time.Time
	Players   []Row
}
