package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ipl-fantasy/roster/internal/api/middleware"
	"github.com/ipl-fantasy/roster/internal/api/response"
	"github.com/ipl-fantasy/roster/internal/api/validation"
	"github.com/ipl-fantasy/roster/internal/team"
	"github.com/ipl-fantasy/roster/internal/workbook"
)

// TeamService is the part of team.Service the handlers need.
type TeamService interface {
	ReplaceTeams(ctx context.Context, userID uuid.UUID, teams team.Set) (team.Set, error)
	GetTeams(ctx context.Context, userID uuid.UUID) (team.Set, error)
}

type replaceTeamsRequest struct {
	UserID string   `json:"userId"`
	Teams  team.Set `json:"teams"`
}

type teamsResponse struct {
	Teams team.Set `json:"teams"`
}

// TeamHandler handles the team endpoints.
type TeamHandler struct {
	teams          TeamService
	maxUploadBytes int64
}

// NewTeamHandler creates a new TeamHandler. maxUploadBytes bounds both JSON
// bodies and workbook uploads.
func NewTeamHandler(teams TeamService, maxUploadBytes int64) *TeamHandler {
	return &TeamHandler{teams: teams, maxUploadBytes: maxUploadBytes}
}

// Replace handles POST /teams.
func (h *TeamHandler) Replace(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	var req replaceTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Err(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body is too large", requestID)
			return
		}
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateReplaceTeamsRequest(validation.ReplaceTeamsRequest{
		UserID: req.UserID,
		Teams:  req.Teams,
	})
	if len(fieldErrors) > 0 {
		response.Validation(w, fieldErrors, requestID)
		return
	}

	h.replace(w, r, requestID, req.UserID, req.Teams)
}

// Upload handles POST /teams/upload?userId=... with a multipart "file"
// field holding an .xlsx or .xls workbook. The workbook is parsed here and then
// replaces the user's teams exactly like Replace.
func (h *TeamHandler) Upload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rawID := r.URL.Query().Get("userId")
	if fieldErrors := validation.ValidateUserID(rawID); len(fieldErrors) > 0 {
		response.Validation(w, fieldErrors, requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Err(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Workbook is too large", requestID)
			return
		}
		response.Validation(w, []validation.FieldError{{Field: "file", Message: "a multipart workbook upload is required"}}, requestID)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		response.Validation(w, []validation.FieldError{{Field: "file", Message: "file is required"}}, requestID)
		return
	}
	defer file.Close()

	teams, err := workbook.ParseWorkbook(file)
	if err != nil {
		slog.Warn("rejected workbook upload", "error", err, "userId", rawID)
		response.Err(w, http.StatusBadRequest, "INVALID_WORKBOOK", "The workbook could not be read; please re-upload a valid .xlsx or .xls file", requestID)
		return
	}

	h.replace(w, r, requestID, rawID, teams)
}

// replace stores teams for the user named by rawID. User ids are UUIDs, so
// one that does not parse cannot name a user.
func (h *TeamHandler) replace(w http.ResponseWriter, r *http.Request, requestID, rawID string, teams team.Set) {
	userID, err := uuid.Parse(rawID)
	if err != nil {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
		return
	}

	saved, err := h.teams.ReplaceTeams(r.Context(), userID, teams)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrOwnerNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
		case errors.Is(err, team.ErrNoTeams):
			response.Validation(w, []validation.FieldError{{Field: "teams", Message: "at least one team is required"}}, requestID)
		case errors.Is(err, team.ErrInvalidTeamName), errors.Is(err, team.ErrDuplicateTeamName):
			response.Validation(w, []validation.FieldError{{Field: "teams", Message: err.Error()}}, requestID)
		default:
			slog.Error("failed to replace teams", "error", err, "userId", userID)
			response.Internal(w, "Failed to save teams", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, teamsResponse{Teams: saved}, requestID)
}

// List handles GET /teams?userId=....
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rawID := r.URL.Query().Get("userId")
	if rawID == "" {
		response.Validation(w, []validation.FieldError{{Field: "userId", Message: "userId is required"}}, requestID)
		return
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		// No user has a non-UUID id, so there are no teams to return.
		response.Success(w, http.StatusOK, teamsResponse{Teams: team.Set{}}, requestID)
		return
	}

	teams, err := h.teams.GetTeams(r.Context(), userID)
	if err != nil {
		slog.Error("failed to get teams", "error", err, "userId", userID)
		response.Internal(w, "Failed to get teams", requestID)
		return
	}

	response.Success(w, http.StatusOK, teamsResponse{Teams: teams}, requestID)
}
