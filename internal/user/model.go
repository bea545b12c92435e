package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. Identity is the username alone.
type User struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}
