package handler

import (
	"net/http"

	"github.com/ipl-fantasy/roster/internal/api/middleware"
	"github.com/ipl-fantasy/roster/internal/api/response"
	"github.com/ipl-fantasy/roster/internal/schedule"
)

// MatchLister reports today's scheduled matches.
type MatchLister interface {
	TodayMatches() []schedule.Entry
}

// MatchHandler handles GET /matches/today.
type MatchHandler struct {
	schedule MatchLister
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(lister MatchLister) *MatchHandler {
	return &MatchHandler{schedule: lister}
}

// Today handles GET /matches/today. The lookup never fails; a broken
// schedule source reads as no matches.
func (h *MatchHandler) Today(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	matches := h.schedule.TodayMatches()
	if matches == nil {
		matches = []schedule.Entry{}
	}

	response.SuccessList(w, http.StatusOK, map[string][]schedule.Entry{"matches": matches}, len(matches), requestID)
}
