// Package scoring combines the two one-directional rating matrices into a
// single weighted score matrix.
package scoring

import (
	"fmt"

	"github.com/hirefair/hirefair/internal/domain/rating"
)

// Weights configures how the two rating directions are blended.
// Both must be non-negative and they must not both be zero: a zero-sum
// configuration makes every combined score 0 and the ranking undefined.
type Weights struct {
	Company   float64
	Candidate float64
}

// Validate checks the weight constraints.
func (w Weights) Validate() error {
	if w.Company < 0 || w.Candidate < 0 {
		return fmt.Errorf("%w: weights must be non-negative (company=%v candidate=%v)", ErrInvalidWeights, w.Company, w.Candidate)
	}
	if w.Company == 0 && w.Candidate == 0 {
		return fmt.Errorf("%w: company and candidate weights are both zero", ErrInvalidWeights)
	}
	return nil
}

// MaxCombined returns the largest combined score these weights can produce.
func (w Weights) MaxCombined() float64 {
	return (w.Company + w.Candidate) * rating.MaxScore
}

// Combine computes Score[c][k] = wK*ByCompany[c][k] + wC*ByCandidate[c][k]
// for every pair. It returns ErrInvalidWeights when the weight constraints
// are violated; the input matrices are never modified.
func Combine(m *rating.Matrices, w Weights) ([][]float64, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	score := make([][]float64, len(m.Candidates))
	for ci := range m.Candidates {
		score[ci] = make([]float64, len(m.Companies))
		for ki := range m.Companies {
			score[ci][ki] = w.Company*float64(m.ByCompany[ci][ki]) + w.Candidate*float64(m.ByCandidate[ci][ki])
		}
	}
	return score, nil
}
