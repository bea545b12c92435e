package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ipl-fantasy/roster/internal/api/middleware"
	"github.com/ipl-fantasy/roster/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	driver  string
	version string
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// server runs without a database.
func NewHealthHandler(db DBPinger, driver, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		driver:  driver,
		version: version,
	}
}

type storageStatus struct {
	Driver    string `json:"driver"`
	Connected bool   `json:"connected"`
}

type healthData struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Storage storageStatus `json:"storage"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	connected := true
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			slog.Warn("database ping failed", "error", err)
			status = "degraded"
			connected = false
		}
	}

	response.Success(w, http.StatusOK, healthData{
		Status:  status,
		Version: h.version,
		Storage: storageStatus{
			Driver:    h.driver,
			Connected: connected,
		},
	}, requestID)
}
