// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hirefair/hirefair/internal/domain/model"
	"github.com/hirefair/hirefair/internal/domain/rating"
)

// RosterHandler ingests collaborator snapshots: the event roster and the two
// rating directions. These are inputs to the engine, not managed entities.
type RosterHandler struct {
	deps Dependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps Dependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// rosterRequest mirrors the body of PUT /api/events/{eventID}/roster.
type rosterRequest struct {
	Candidates []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Kana string `json:"kana"`
		Seat string `json:"seat"`
	} `json:"candidates"`
	Companies []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"companies"`
}

func (r rosterRequest) validate() error {
	for _, c := range r.Candidates {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: candidate with empty id", ErrBadRequest)
		}
	}
	for _, k := range r.Companies {
		if strings.TrimSpace(k.ID) == "" {
			return fmt.Errorf("%w: company with empty id", ErrBadRequest)
		}
	}
	return nil
}

// ratingsRequest mirrors the body of PUT /api/events/{eventID}/ratings.
type ratingsRequest struct {
	CandidateRatings []struct {
		CandidateID string `json:"candidate_id"`
		CompanyID   string `json:"company_id"`
		Score       int    `json:"score"`
		Comment     string `json:"comment"`
	} `json:"candidate_ratings"`
	CompanyRatings []struct {
		CompanyID   string `json:"company_id"`
		CandidateID string `json:"candidate_id"`
		Score       int    `json:"score"`
		Comment     string `json:"comment"`
		RecruiterID string `json:"recruiter_id"`
	} `json:"company_ratings"`
}

func (r ratingsRequest) validate() error {
	for _, cr := range r.CandidateRatings {
		if cr.Score < rating.MinScore || cr.Score > rating.MaxScore {
			return fmt.Errorf("%w: candidate rating score out of range", ErrBadRequest)
		}
	}
	for _, kr := range r.CompanyRatings {
		if kr.Score < rating.MinScore || kr.Score > rating.MaxScore {
			return fmt.Errorf("%w: company rating score out of range", ErrBadRequest)
		}
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandlePutRoster handles PUT /api/events/{eventID}/roster.
func (h *RosterHandler) HandlePutRoster(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	roster := model.Roster{EventID: eventID}
	for _, c := range req.Candidates {
		roster.Candidates = append(roster.Candidates, model.Candidate{
			ID: c.ID, Name: c.Name, Kana: c.Kana, Seat: c.Seat,
		})
	}
	for _, k := range req.Companies {
		roster.Companies = append(roster.Companies, model.Company{ID: k.ID, Name: k.Name})
	}

	if err := h.deps.PutRoster(r.Context(), roster); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

// HandlePutRatings handles PUT /api/events/{eventID}/ratings.
func (h *RosterHandler) HandlePutRatings(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var req ratingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	snap := model.RatingSnapshot{EventID: eventID}
	for _, cr := range req.CandidateRatings {
		snap.CandidateRatings = append(snap.CandidateRatings, model.CandidateRating{
			CandidateID: cr.CandidateID,
			CompanyID:   cr.CompanyID,
			Score:       cr.Score,
			Comment:     cr.Comment,
		})
	}
	for _, kr := range req.CompanyRatings {
		snap.CompanyRatings = append(snap.CompanyRatings, model.CompanyRating{
			CompanyID:   kr.CompanyID,
			CandidateID: kr.CandidateID,
			Score:       kr.Score,
			Comment:     kr.Comment,
			RecruiterID: kr.RecruiterID,
		})
	}

	if err := h.deps.PutRatings(r.Context(), snap); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}
