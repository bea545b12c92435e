package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ipl-fantasy/roster/internal/api/handler"
	"github.com/ipl-fantasy/roster/internal/api/middleware"
)

// DefaultMaxUploadBytes bounds request bodies when RouterDeps leaves it unset.
const DefaultMaxUploadBytes = 10 << 20

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger       handler.DBPinger
	StorageDriver  string
	Version        string
	Users          handler.UserDirectory
	Teams          handler.TeamService
	Schedule       handler.MatchLister
	MaxUploadBytes int64
	OpenAPISpec    []byte
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.StorageDriver, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler, err := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		if err != nil {
			return nil, fmt.Errorf("building OpenAPI handler: %w", err)
		}
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Users != nil {
		userHandler := handler.NewUserHandler(deps.Users)
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
		})
	}

	if deps.Teams != nil {
		maxUpload := deps.MaxUploadBytes
		if maxUpload <= 0 {
			maxUpload = DefaultMaxUploadBytes
		}
		teamHandler := handler.NewTeamHandler(deps.Teams, maxUpload)
		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Replace)
			r.Get("/", teamHandler.List)
			r.Post("/upload", teamHandler.Upload)
		})
	}

	if deps.Schedule != nil {
		matchHandler := handler.NewMatchHandler(deps.Schedule)
		r.Get("/matches/today", matchHandler.Today)
	}

	return r, nil
}
