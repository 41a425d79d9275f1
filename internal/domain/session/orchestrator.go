// Package session drives a full matching run: validation, special-interview
// pinning, the per-round assignment loop, and assembly of the final rows.
package session

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hirefair/hirefair/internal/domain/assign"
	"github.com/hirefair/hirefair/internal/domain/model"
	"github.com/hirefair/hirefair/internal/domain/rating"
	"github.com/hirefair/hirefair/internal/domain/scoring"
	"github.com/hirefair/hirefair/pkg/metrics"
)

// DefaultSpecialMinRating is the raw rating both directions must reach to
// force a special interview. Both sides at the scale maximum is the
// canonical trigger.
const DefaultSpecialMinRating = rating.MaxScore

// Input is one run's snapshot. The orchestrator never mutates it and holds
// no state between runs, so independent runs may execute concurrently.
type Input struct {
	Roster     model.Roster
	Ratings    model.RatingSnapshot
	Weights    scoring.Weights
	RoundCount int
}

// Outcome is the computed but not yet persisted result of a run.
// Rows are ordered by round, then seat label, then candidate id.
type Outcome struct {
	Rows     []model.ResultRow
	Warnings []string

	// SpecialInterviews counts pinned pairs; UnmetOverrides counts
	// special pairs that found no free round.
	SpecialInterviews int
	UnmetOverrides    int
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithDefaultRating sets the neutral score for pairs without a rating.
func WithDefaultRating(score int) Option {
	return func(o *Orchestrator) {
		if score >= rating.MinScore && score <= rating.MaxScore {
			o.defaultRating = score
		}
	}
}

// WithSpecialMinRating sets the raw-rating threshold that both directions
// must reach before a pairing is forced as a special interview.
func WithSpecialMinRating(score int) Option {
	return func(o *Orchestrator) {
		if score > rating.MinScore && score <= rating.MaxScore {
			o.specialMinRating = score
		}
	}
}

// Orchestrator runs sessions. Safe for concurrent use.
type Orchestrator struct {
	defaultRating    int
	specialMinRating int
}

// NewOrchestrator creates an Orchestrator with configuration options.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRating:    rating.DefaultNeutral,
		specialMinRating: DefaultSpecialMinRating,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// pin is a special-interview pairing fixed into a specific round.
type pin struct {
	round int
	pair  assign.Pair
}

// Run computes all rounds for one session. It validates the input up front
// and produces either a complete Outcome or an error with nothing partial:
// cancellation between rounds discards everything computed so far.
func (o *Orchestrator) Run(ctx context.Context, in Input) (Outcome, error) {
	if err := o.validate(in); err != nil {
		return Outcome{}, err
	}

	builder := rating.NewBuilder(rating.WithDefaultRating(o.defaultRating))
	matrices := builder.Build(in.Roster, in.Ratings)
	score, err := scoring.Combine(matrices, in.Weights)
	if err != nil {
		return Outcome{}, err
	}

	nC := len(matrices.Candidates)
	nK := len(matrices.Companies)
	pairsPerRound := nC
	if nK < pairsPerRound {
		pairsPerRound = nK
	}
	side := nC
	if nK > side {
		side = nK
	}

	forbidden := make(map[assign.Pair]bool)
	pins, unmet := o.pinSpecials(matrices, in.RoundCount, pairsPerRound)
	warnings := unmet
	for _, p := range pins {
		forbidden[p.pair] = true
	}

	assigner := assign.NewAssigner(
		assign.WithForbiddenPenalty((in.Weights.MaxCombined() + 1) * float64(side)),
	)

	var rows []model.ResultRow
	for round := 1; round <= in.RoundCount; round++ {
		select {
		case <-ctx.Done():
			return Outcome{}, fmt.Errorf("session run cancelled at round %d: %w", round, ctx.Err())
		default:
		}

		pinnedC := make(map[int]bool)
		pinnedK := make(map[int]bool)
		for _, p := range pins {
			if p.round != round {
				continue
			}
			pinnedC[p.pair.Row] = true
			pinnedK[p.pair.Col] = true
			rows = append(rows, o.row(matrices, score, p.pair, round, true))
		}

		solveStart := time.Now()
		pairs, relaxed, err := o.solveRemainder(assigner, score, forbidden, pinnedC, pinnedK)
		if err != nil {
			return Outcome{}, err
		}
		metrics.RecordSolverDuration(float64(time.Since(solveStart).Milliseconds()))
		metrics.RecordRoundComputed()
		for _, p := range relaxed {
			warnings = append(warnings, fmt.Sprintf(
				"round %d repeats pairing %s/%s: no unused partner remained",
				round, matrices.Candidates[p.Row].ID, matrices.Companies[p.Col].ID))
		}
		for _, p := range pairs {
			rows = append(rows, o.row(matrices, score, p, round, false))
			forbidden[p] = true
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Round != rows[j].Round {
			return rows[i].Round < rows[j].Round
		}
		if rows[i].SeatNumber != rows[j].SeatNumber {
			return rows[i].SeatNumber < rows[j].SeatNumber
		}
		return rows[i].CandidateID < rows[j].CandidateID
	})
	return Outcome{
		Rows:              rows,
		Warnings:          warnings,
		SpecialInterviews: len(pins),
		UnmetOverrides:    len(unmet),
	}, nil
}

func (o *Orchestrator) validate(in Input) error {
	if in.RoundCount < 1 {
		return fmt.Errorf("%w: round count %d", ErrInvalidRoundCount, in.RoundCount)
	}
	if len(in.Roster.Candidates) == 0 {
		return fmt.Errorf("%w: no candidates", ErrEmptyRoster)
	}
	if len(in.Roster.Companies) == 0 {
		return fmt.Errorf("%w: no companies", ErrEmptyRoster)
	}
	return in.Weights.Validate()
}

// pinSpecials finds mutually top-rated pairs and fixes each into the
// earliest round where both participants are still unassigned. Pairs that
// fit nowhere become warnings rather than failures.
func (o *Orchestrator) pinSpecials(m *rating.Matrices, roundCount, pairsPerRound int) ([]pin, []string) {
	var pins []pin
	var warnings []string

	pinnedC := make(map[int]map[int]bool) // round -> candidate index
	pinnedK := make(map[int]map[int]bool) // round -> company index
	count := make(map[int]int)

	for ci := range m.Candidates {
		for ki := range m.Companies {
			if m.ByCandidate[ci][ki] < o.specialMinRating || m.ByCompany[ci][ki] < o.specialMinRating {
				continue
			}
			placed := false
			for round := 1; round <= roundCount; round++ {
				if count[round] >= pairsPerRound || pinnedC[round][ci] || pinnedK[round][ki] {
					continue
				}
				if pinnedC[round] == nil {
					pinnedC[round] = make(map[int]bool)
					pinnedK[round] = make(map[int]bool)
				}
				pinnedC[round][ci] = true
				pinnedK[round][ki] = true
				count[round]++
				pins = append(pins, pin{round: round, pair: assign.Pair{Row: ci, Col: ki}})
				placed = true
				break
			}
			if !placed {
				warnings = append(warnings, fmt.Sprintf(
					"special interview for %s/%s could not be scheduled within %d rounds",
					m.Candidates[ci].ID, m.Companies[ki].ID, roundCount))
			}
		}
	}
	return pins, warnings
}

// solveRemainder runs the assigner over the participants a round's pins left
// free, translating between the round-local and the global index spaces.
func (o *Orchestrator) solveRemainder(
	assigner *assign.Assigner,
	score [][]float64,
	forbidden map[assign.Pair]bool,
	pinnedC, pinnedK map[int]bool,
) ([]assign.Pair, []assign.Pair, error) {
	var freeC, freeK []int
	for ci := range score {
		if !pinnedC[ci] {
			freeC = append(freeC, ci)
		}
	}
	if len(score) > 0 {
		for ki := range score[0] {
			if !pinnedK[ki] {
				freeK = append(freeK, ki)
			}
		}
	}
	if len(freeC) == 0 || len(freeK) == 0 {
		return nil, nil, nil
	}

	sub := make([][]float64, len(freeC))
	subForbidden := make(map[assign.Pair]bool)
	for i, ci := range freeC {
		sub[i] = make([]float64, len(freeK))
		for j, ki := range freeK {
			sub[i][j] = score[ci][ki]
			if forbidden[assign.Pair{Row: ci, Col: ki}] {
				subForbidden[assign.Pair{Row: i, Col: j}] = true
			}
		}
	}

	res, err := assigner.Round(sub, subForbidden)
	if err != nil {
		return nil, nil, fmt.Errorf("round assignment failed: %w", err)
	}

	pairs := make([]assign.Pair, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		pairs = append(pairs, assign.Pair{Row: freeC[p.Row], Col: freeK[p.Col]})
	}
	relaxed := make([]assign.Pair, 0, len(res.Relaxed))
	for _, p := range res.Relaxed {
		relaxed = append(relaxed, assign.Pair{Row: freeC[p.Row], Col: freeK[p.Col]})
	}
	return pairs, relaxed, nil
}

func (o *Orchestrator) row(m *rating.Matrices, score [][]float64, p assign.Pair, round int, special bool) model.ResultRow {
	c := m.Candidates[p.Row]
	k := m.Companies[p.Col]
	return model.ResultRow{
		Round:            round,
		SeatNumber:       c.Seat,
		CandidateID:      c.ID,
		CandidateName:    c.Name,
		CandidateKana:    c.Kana,
		CompanyID:        k.ID,
		CompanyName:      k.Name,
		CombinedScore:    score[p.Row][p.Col],
		SpecialInterview: special,
	}
}
