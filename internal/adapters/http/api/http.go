// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hirefair/hirefair/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ComputeSession runs the matching engine and persists a new session.
	ComputeSession(ctx context.Context, eventID string, companyWeight, candidateWeight float64, roundCount int) (model.Session, error)

	// Read operations expose persisted sessions.
	Results(ctx context.Context, sessionID string) ([]model.ResultRow, error)
	Sessions(ctx context.Context, eventID string) ([]model.Session, error)

	// Collaborator snapshot ingestion.
	PutRoster(ctx context.Context, roster model.Roster) error
	PutRatings(ctx context.Context, ratings model.RatingSnapshot) error
}

// StatsProvider exposes service statistics for the /stats endpoint.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	rosterHandler   *RosterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sessionsHandler: NewSessionsHandler(deps),
		rosterHandler:   NewRosterHandler(deps),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Post("/api/events/{eventID}/sessions", MetricsMiddleware(s.sessionsHandler.HandleComputeSession, "compute_session"))
	r.Get("/api/events/{eventID}/sessions", MetricsMiddleware(s.sessionsHandler.HandleListSessions, "list_sessions"))
	r.Get("/api/sessions/{sessionID}/results", MetricsMiddleware(s.sessionsHandler.HandleGetResults, "get_results"))
	r.Get("/api/sessions/{sessionID}/results.csv", MetricsMiddleware(s.sessionsHandler.HandleGetResultsCSV, "get_results_csv"))

	r.Put("/api/events/{eventID}/roster", MetricsMiddleware(s.rosterHandler.HandlePutRoster, "put_roster"))
	r.Put("/api/events/{eventID}/ratings", MetricsMiddleware(s.rosterHandler.HandlePutRatings, "put_ratings"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
