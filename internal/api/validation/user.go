package validation

import (
	"strings"

	"github.com/ipl-fantasy/roster/internal/user"
)

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Username string
}

// ValidateLoginRequest validates the fields of a login-or-create request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	} else if len(username) > user.MaxUsernameLength {
		errs = append(errs, FieldError{Field: "username", Message: "username must be at most 255 characters"})
	}

	return errs
}
