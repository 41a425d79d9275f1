package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hirefair/hirefair/internal/domain/model"
	"github.com/hirefair/hirefair/pkg/metrics"
)

// MemoryStore is the default in-process Store. All reads return copies so
// persisted sessions stay immutable no matter what callers do with the
// returned slices.
type MemoryStore struct {
	mu sync.RWMutex

	rosters  map[string]model.Roster
	ratings  map[string]model.RatingSnapshot
	sessions map[string]model.Session
	rows     map[string][]model.ResultRow
	byEvent  map[string][]string // eventID -> session ids, insert order
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rosters:  make(map[string]model.Roster),
		ratings:  make(map[string]model.RatingSnapshot),
		sessions: make(map[string]model.Session),
		rows:     make(map[string][]model.ResultRow),
		byEvent:  make(map[string][]string),
	}
}

// PutRoster replaces the roster snapshot for an event.
func (s *MemoryStore) PutRoster(_ context.Context, roster model.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters[roster.EventID] = copyRoster(roster)
	return nil
}

// Roster returns the roster snapshot for an event.
func (s *MemoryStore) Roster(_ context.Context, eventID string) (model.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster, ok := s.rosters[eventID]
	if !ok {
		return model.Roster{}, fmt.Errorf("roster for event %q: %w", eventID, ErrNotFound)
	}
	return copyRoster(roster), nil
}

// PutRatings replaces the rating snapshot for an event, collapsing duplicate
// triples to the latest entry.
func (s *MemoryStore) PutRatings(_ context.Context, ratings model.RatingSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[ratings.EventID] = dedupeRatings(ratings)
	return nil
}

// Ratings returns the rating snapshot for an event; empty when absent.
func (s *MemoryStore) Ratings(_ context.Context, eventID string) (model.RatingSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.ratings[eventID]
	if !ok {
		return model.RatingSnapshot{EventID: eventID}, nil
	}
	return copyRatings(snap), nil
}

// CreateSession atomically persists one session and its rows.
func (s *MemoryStore) CreateSession(_ context.Context, sess model.Session, rows []model.ResultRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %q: %w", sess.ID, ErrAlreadyExists)
	}
	s.sessions[sess.ID] = copySession(sess)
	stored := make([]model.ResultRow, len(rows))
	copy(stored, rows)
	s.rows[sess.ID] = stored
	s.byEvent[sess.EventID] = append(s.byEvent[sess.EventID], sess.ID)
	metrics.UpdateSessionCount(len(s.sessions))
	return nil
}

// Results returns a session's rows in their persisted order.
func (s *MemoryStore) Results(_ context.Context, sessionID string) ([]model.ResultRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.rows[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}
	out := make([]model.ResultRow, len(rows))
	copy(out, rows)
	return out, nil
}

// Sessions lists an event's sessions, newest first.
func (s *MemoryStore) Sessions(_ context.Context, eventID string) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.byEvent[eventID]
	if !ok {
		if _, hasRoster := s.rosters[eventID]; !hasRoster {
			return nil, fmt.Errorf("event %q: %w", eventID, ErrNotFound)
		}
		return []model.Session{}, nil
	}
	out := make([]model.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, copySession(s.sessions[id]))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func copyRoster(r model.Roster) model.Roster {
	out := model.Roster{EventID: r.EventID}
	out.Candidates = append([]model.Candidate(nil), r.Candidates...)
	out.Companies = append([]model.Company(nil), r.Companies...)
	return out
}

func copyRatings(r model.RatingSnapshot) model.RatingSnapshot {
	out := model.RatingSnapshot{EventID: r.EventID}
	out.CandidateRatings = append([]model.CandidateRating(nil), r.CandidateRatings...)
	out.CompanyRatings = append([]model.CompanyRating(nil), r.CompanyRatings...)
	return out
}

func copySession(s model.Session) model.Session {
	out := s
	out.Warnings = append([]string(nil), s.Warnings...)
	return out
}

// dedupeRatings keeps the last entry per triple, preserving last-write order.
func dedupeRatings(r model.RatingSnapshot) model.RatingSnapshot {
	out := model.RatingSnapshot{EventID: r.EventID}

	type key struct{ a, b string }
	lastCand := make(map[key]model.CandidateRating)
	var candOrder []key
	for _, cr := range r.CandidateRatings {
		k := key{cr.CandidateID, cr.CompanyID}
		if _, seen := lastCand[k]; !seen {
			candOrder = append(candOrder, k)
		}
		lastCand[k] = cr
	}
	for _, k := range candOrder {
		out.CandidateRatings = append(out.CandidateRatings, lastCand[k])
	}

	lastComp := make(map[key]model.CompanyRating)
	var compOrder []key
	for _, kr := range r.CompanyRatings {
		k := key{kr.CompanyID, kr.CandidateID}
		if _, seen := lastComp[k]; !seen {
			compOrder = append(compOrder, k)
		}
		lastComp[k] = kr
	}
	for _, k := range compOrder {
		out.CompanyRatings = append(out.CompanyRatings, lastComp[k])
	}
	return out
}
