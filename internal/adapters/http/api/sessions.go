// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hirefair/hirefair/internal/domain/model"
)

// SessionsHandler handles session computation and read requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// computeRequest mirrors the body of POST /api/events/{eventID}/sessions.
type computeRequest struct {
	CompanyWeight   float64 `json:"company_weight"`
	CandidateWeight float64 `json:"candidate_weight"`
	RoundCount      int     `json:"round_count"`
}

type computeResponse struct {
	SessionID string   `json:"session_id"`
	Warnings  []string `json:"warnings,omitempty"`
}

// sessionSummary mirrors one entry of GET /api/events/{eventID}/sessions.
type sessionSummary struct {
	SessionID       string   `json:"session_id"`
	EventID         string   `json:"event_id"`
	CreatedAt       string   `json:"created_at"`
	RoundCount      int      `json:"round_count"`
	CompanyWeight   float64  `json:"company_weight"`
	CandidateWeight float64  `json:"candidate_weight"`
	Warnings        []string `json:"warnings,omitempty"`
}

// resultRow mirrors one entry of GET /api/sessions/{sessionID}/results.
type resultRow struct {
	Round              int     `json:"round"`
	SeatNumber         string  `json:"seat_number"`
	CandidateID        string  `json:"candidate_id"`
	CandidateName      string  `json:"candidate_name"`
	CandidateKana      string  `json:"candidate_kana"`
	CompanyID          string  `json:"company_id"`
	CompanyName        string  `json:"company_name"`
	CombinedScore      float64 `json:"combined_score"`
	IsSpecialInterview bool    `json:"is_special_interview"`
}

// HandleComputeSession handles POST /api/events/{eventID}/sessions.
func (h *SessionsHandler) HandleComputeSession(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	sess, err := h.deps.ComputeSession(r.Context(), eventID, req.CompanyWeight, req.CandidateWeight, req.RoundCount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, computeResponse{
		SessionID: sess.ID,
		Warnings:  sess.Warnings,
	})
}

// HandleListSessions handles GET /api/events/{eventID}/sessions.
func (h *SessionsHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	sessions, err := h.deps.Sessions(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary{
			SessionID:       s.ID,
			EventID:         s.EventID,
			CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339Nano),
			RoundCount:      s.RoundCount,
			CompanyWeight:   s.CompanyWeight,
			CandidateWeight: s.CandidateWeight,
			Warnings:        s.Warnings,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetResults handles GET /api/sessions/{sessionID}/results.
func (h *SessionsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.loadRows(w, r)
	if !ok {
		return
	}
	out := make([]resultRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultRow{
			Round:              row.Round,
			SeatNumber:         row.SeatNumber,
			CandidateID:        row.CandidateID,
			CandidateName:      row.CandidateName,
			CandidateKana:      row.CandidateKana,
			CompanyID:          row.CompanyID,
			CompanyName:        row.CompanyName,
			CombinedScore:      row.CombinedScore,
			IsSpecialInterview: row.SpecialInterview,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetResultsCSV handles GET /api/sessions/{sessionID}/results.csv.
// Column order is stable so downloads stay diffable across re-runs.
func (h *SessionsHandler) HandleGetResultsCSV(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.loadRows(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=results.csv")

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"round", "seat_number", "candidate_id", "candidate_name", "candidate_kana",
		"company_id", "company_name", "combined_score", "is_special_interview",
	})
	for _, row := range rows {
		_ = cw.Write([]string{
			strconv.Itoa(row.Round),
			row.SeatNumber,
			row.CandidateID,
			row.CandidateName,
			row.CandidateKana,
			row.CompanyID,
			row.CompanyName,
			strconv.FormatFloat(row.CombinedScore, 'f', -1, 64),
			strconv.FormatBool(row.SpecialInterview),
		})
	}
	cw.Flush()
}

func (h *SessionsHandler) loadRows(w http.ResponseWriter, r *http.Request) ([]model.ResultRow, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	rows, err := h.deps.Results(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return rows, true
}
