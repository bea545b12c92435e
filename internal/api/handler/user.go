package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ipl-fantasy/roster/internal/api/middleware"
	"github.com/ipl-fantasy/roster/internal/api/response"
	"github.com/ipl-fantasy/roster/internal/api/validation"
	"github.com/ipl-fantasy/roster/internal/user"
)

// UserDirectory is the part of user.Service the handlers need.
type UserDirectory interface {
	LoginOrCreate(ctx context.Context, username string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type loginRequest struct {
	Username string `json:"username"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// UserHandler handles the user endpoints.
type UserHandler struct {
	users UserDirectory
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserDirectory) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /users. It logs in the named user, creating the
// identity the first time a username is seen.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	if fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{Username: req.Username}); len(fieldErrors) > 0 {
		response.Validation(w, fieldErrors, requestID)
		return
	}

	u, err := h.users.LoginOrCreate(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, user.ErrInvalidUsername) {
			response.Validation(w, []validation.FieldError{{Field: "username", Message: err.Error()}}, requestID)
			return
		}
		slog.Error("failed to log in user", "error", err)
		response.Internal(w, "Failed to log in", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(u)}, requestID)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.users.List(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Internal(w, "Failed to list users", requestID)
		return
	}

	items := make([]userResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	response.SuccessList(w, http.StatusOK, map[string][]userResponse{"users": items}, len(items), requestID)
}
