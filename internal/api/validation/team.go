package validation

import (
	"fmt"
	"strings"

	"github.com/ipl-fantasy/roster/internal/team"
)

// ValidateUserID validates a userId given in a body or query string. Only
// presence is checked: an id that names no user is a lookup miss, not a
// malformed request.
func ValidateUserID(userID string) []FieldError {
	if userID == "" {
		return []FieldError{{Field: "userId", Message: "userId is required"}}
	}
	return nil
}

// ReplaceTeamsRequest mirrors the fields needed for replace-teams validation.
type ReplaceTeamsRequest struct {
	UserID string
	Teams  team.Set
}

// ValidateReplaceTeamsRequest validates the fields of a replace-teams request.
func ValidateReplaceTeamsRequest(req ReplaceTeamsRequest) []FieldError {
	errs := ValidateUserID(req.UserID)

	if len(req.Teams) == 0 {
		errs = append(errs, FieldError{Field: "teams", Message: "at least one team is required"})
	}
	for i, e := range req.Teams {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("teams[%d]", i), Message: "team name is required"})
		}
	}

	return errs
}
