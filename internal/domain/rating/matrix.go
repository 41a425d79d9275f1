// Package rating builds dense score matrices from raw event ratings.
package rating

import (
	"sort"

	"github.com/hirefair/hirefair/internal/domain/model"
)

// Rating scale bounds and the neutral default for missing ratings.
const (
	MinScore       = 1
	MaxScore       = 5
	DefaultNeutral = 3
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithDefaultRating sets the score used for pairs without an explicit rating.
func WithDefaultRating(score int) Option {
	return func(b *Builder) {
		if score >= MinScore && score <= MaxScore {
			b.defaultRating = score
		}
	}
}

// Matrices holds both rating directions as dense matrices over a fixed
// participant ordering. Both matrices are indexed [candidate][company];
// ordering is ascending by ID so identical inputs produce identical layouts.
type Matrices struct {
	Candidates []model.Candidate
	Companies  []model.Company

	// ByCandidate[c][k] is candidate c's rating of company k.
	ByCandidate [][]int
	// ByCompany[c][k] is company k's rating of candidate c.
	ByCompany [][]int
}

// CandidateIndex returns the row index for a candidate id, or -1.
func (m *Matrices) CandidateIndex(id string) int {
	for i := range m.Candidates {
		if m.Candidates[i].ID == id {
			return i
		}
	}
	return -1
}

// CompanyIndex returns the column index for a company id, or -1.
func (m *Matrices) CompanyIndex(id string) int {
	for i := range m.Companies {
		if m.Companies[i].ID == id {
			return i
		}
	}
	return -1
}

// Builder normalizes raw rating lists into dense matrices.
// Building is a pure transform: absent ratings default rather than error.
type Builder struct {
	defaultRating int
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		defaultRating: DefaultNeutral,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces dense matrices for the roster, filling every pair without an
// explicit rating with the neutral default. Ratings referring to participants
// outside the roster are ignored; out-of-range scores are clamped to [1,5].
func (b *Builder) Build(roster model.Roster, ratings model.RatingSnapshot) *Matrices {
	m := &Matrices{
		Candidates: make([]model.Candidate, len(roster.Candidates)),
		Companies:  make([]model.Company, len(roster.Companies)),
	}
	copy(m.Candidates, roster.Candidates)
	copy(m.Companies, roster.Companies)
	sort.Slice(m.Candidates, func(i, j int) bool { return m.Candidates[i].ID < m.Candidates[j].ID })
	sort.Slice(m.Companies, func(i, j int) bool { return m.Companies[i].ID < m.Companies[j].ID })

	candidateAt := make(map[string]int, len(m.Candidates))
	for i, c := range m.Candidates {
		candidateAt[c.ID] = i
	}
	companyAt := make(map[string]int, len(m.Companies))
	for i, k := range m.Companies {
		companyAt[k.ID] = i
	}

	m.ByCandidate = newFilled(len(m.Candidates), len(m.Companies), b.defaultRating)
	m.ByCompany = newFilled(len(m.Candidates), len(m.Companies), b.defaultRating)

	for _, r := range ratings.CandidateRatings {
		ci, ok := candidateAt[r.CandidateID]
		if !ok {
			continue
		}
		ki, ok := companyAt[r.CompanyID]
		if !ok {
			continue
		}
		m.ByCandidate[ci][ki] = clamp(r.Score)
	}
	for _, r := range ratings.CompanyRatings {
		ci, ok := candidateAt[r.CandidateID]
		if !ok {
			continue
		}
		ki, ok := companyAt[r.CompanyID]
		if !ok {
			continue
		}
		m.ByCompany[ci][ki] = clamp(r.Score)
	}
	return m
}

func newFilled(rows, cols, v int) [][]int {
	out := make([][]int, rows)
	for i := range out {
		out[i] = make([]int, cols)
		for j := range out[i] {
			out[i][j] = v
		}
	}
	return out
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
