// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	repository "github.com/hirefair/hirefair/internal/adapters/repository"
	"github.com/hirefair/hirefair/internal/domain/model"
	"github.com/hirefair/hirefair/internal/domain/scoring"
	"github.com/hirefair/hirefair/internal/domain/session"
	"github.com/hirefair/hirefair/pkg/logger"
	"github.com/hirefair/hirefair/pkg/metrics"
)

// Service wires the matching engine to its collaborators: the store holding
// roster/rating snapshots and the append-only session log.
type Service struct {
	store        repository.Store
	orchestrator *session.Orchestrator

	defaultRating    int
	specialMinRating int
	maxRoundCount    int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultRating sets the neutral score for unrated pairs.
func WithDefaultRating(score int) Option {
	return func(s *Service) {
		s.defaultRating = score
	}
}

// WithSpecialMinRating sets the special-interview threshold.
func WithSpecialMinRating(score int) Option {
	return func(s *Service) {
		s.specialMinRating = score
	}
}

// WithMaxRoundCount caps round_count on compute requests.
func WithMaxRoundCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRoundCount = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:            repository.NewMemoryStore(),
		defaultRating:    3,
		specialMinRating: 5,
		maxRoundCount:    20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.orchestrator = session.NewOrchestrator(
		session.WithDefaultRating(s.defaultRating),
		session.WithSpecialMinRating(s.specialMinRating),
	)
	return s
}

// IsValidationError reports whether err is a pre-computation rejection.
func IsValidationError(err error) bool {
	return errors.Is(err, session.ErrEmptyRoster) ||
		errors.Is(err, session.ErrInvalidRoundCount) ||
		errors.Is(err, scoring.ErrInvalidWeights)
}

// ComputeSession runs the full matching pipeline for an event and persists
// the outcome as a new immutable session. Every call produces a fresh
// session; prior runs are never touched, so re-runs with adjusted weights
// stay comparable side by side.
func (s *Service) ComputeSession(ctx context.Context, eventID string, companyWeight, candidateWeight float64, roundCount int) (model.Session, error) {
	start := time.Now()

	if roundCount > s.maxRoundCount {
		metrics.RecordValidationError()
		return model.Session{}, fmt.Errorf("%w: round count %d exceeds limit %d",
			session.ErrInvalidRoundCount, roundCount, s.maxRoundCount)
	}

	roster, err := s.store.Roster(ctx, eventID)
	if err != nil {
		return model.Session{}, fmt.Errorf("load roster: %w", err)
	}
	ratings, err := s.store.Ratings(ctx, eventID)
	if err != nil {
		return model.Session{}, fmt.Errorf("load ratings: %w", err)
	}

	outcome, err := s.orchestrator.Run(ctx, session.Input{
		Roster:  roster,
		Ratings: ratings,
		Weights: scoring.Weights{
			Company:   companyWeight,
			Candidate: candidateWeight,
		},
		RoundCount: roundCount,
	})
	if err != nil {
		if IsValidationError(err) {
			metrics.RecordValidationError()
		}
		return model.Session{}, err
	}

	sess := model.Session{
		ID:              uuid.NewString(),
		EventID:         eventID,
		CreatedAt:       time.Now().UTC(),
		RoundCount:      roundCount,
		CompanyWeight:   companyWeight,
		CandidateWeight: candidateWeight,
		Warnings:        outcome.Warnings,
	}
	rows := make([]model.ResultRow, len(outcome.Rows))
	for i, r := range outcome.Rows {
		r.SessionID = sess.ID
		rows[i] = r
	}

	if err := s.store.CreateSession(ctx, sess, rows); err != nil {
		return model.Session{}, fmt.Errorf("persist session: %w", err)
	}

	metrics.RecordSessionComputed()
	metrics.RecordSessionComputeDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordSpecialInterviews(outcome.SpecialInterviews)
	metrics.RecordUnmetOverrides(outcome.UnmetOverrides)

	s.logger.Info(ctx, "session computed",
		logger.String("sessionID", sess.ID),
		logger.String("eventID", eventID),
		logger.Int("rounds", roundCount),
		logger.Int("rows", len(rows)),
		logger.Int("specialInterviews", outcome.SpecialInterviews),
		logger.Int("unmetOverrides", outcome.UnmetOverrides),
	)
	return sess, nil
}

// Results returns a session's rows ordered by round, seat, candidate.
func (s *Service) Results(ctx context.Context, sessionID string) ([]model.ResultRow, error) {
	rows, err := s.store.Results(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return rows, nil
}

// Sessions lists an event's session summaries, newest first.
func (s *Service) Sessions(ctx context.Context, eventID string) ([]model.Session, error) {
	sessions, err := s.store.Sessions(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// PutRoster stores the roster snapshot supplied by the identity collaborator.
func (s *Service) PutRoster(ctx context.Context, roster model.Roster) error {
	if err := s.store.PutRoster(ctx, roster); err != nil {
		return fmt.Errorf("store roster: %w", err)
	}
	s.logger.Debug(ctx, "roster stored",
		logger.String("eventID", roster.EventID),
		logger.Int("candidates", len(roster.Candidates)),
		logger.Int("companies", len(roster.Companies)),
	)
	return nil
}

// PutRatings stores the rating snapshot supplied by the rating collaborator.
func (s *Service) PutRatings(ctx context.Context, ratings model.RatingSnapshot) error {
	if err := s.store.PutRatings(ctx, ratings); err != nil {
		return fmt.Errorf("store ratings: %w", err)
	}
	s.logger.Debug(ctx, "ratings stored",
		logger.String("eventID", ratings.EventID),
		logger.Int("candidateRatings", len(ratings.CandidateRatings)),
		logger.Int("companyRatings", len(ratings.CompanyRatings)),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"defaultRating":    s.defaultRating,
		"specialMinRating": s.specialMinRating,
		"maxRoundCount":    s.maxRoundCount,
	}
}
