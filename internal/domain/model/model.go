// Package model contains domain models passed between layers.
package model

import "time"

// Candidate is one registered participant on the candidate side of an event.
// Seat labels are assigned by the attendance registry and are read-only here.
type Candidate struct {
	ID   string
	Name string
	Kana string
	Seat string
}

// Company is one registered participant on the company side of an event.
type Company struct {
	ID   string
	Name string
}

// Roster is the snapshot of participants for one event, supplied by the
// identity/roster collaborator before a run starts.
type Roster struct {
	EventID    string
	Candidates []Candidate
	Companies  []Company
}

// CandidateRating is a candidate's 1-5 rating of a company.
// At most one per (candidate, company, event) triple; latest write wins.
type CandidateRating struct {
	CandidateID string
	CompanyID   string
	Score       int
	Comment     string
}

// CompanyRating is a company's 1-5 rating of a candidate.
type CompanyRating struct {
	CompanyID   string
	CandidateID string
	Score       int
	Comment     string
	RecruiterID string
}

// RatingSnapshot bundles both rating directions for one event.
type RatingSnapshot struct {
	EventID          string
	CandidateRatings []CandidateRating
	CompanyRatings   []CompanyRating
}

// Session is one complete, immutable run of the matching engine.
// Re-running with different weights produces a new Session; prior sessions
// are never mutated, so runs stay comparable.
type Session struct {
	ID              string
	EventID         string
	CreatedAt       time.Time
	RoundCount      int
	CompanyWeight   float64
	CandidateWeight float64
	// Warnings records non-fatal conditions, e.g. a special interview
	// that could not be scheduled in any round.
	Warnings []string
}

// ResultRow is one scheduled meeting inside a session.
type ResultRow struct {
	SessionID        string
	Round            int
	SeatNumber       string
	CandidateID      string
	CandidateName    string
	CandidateKana    string
	CompanyID        string
	CompanyName      string
	CombinedScore    float64
	SpecialInterview bool
}
