// Package repository defines the matching store interface and errors.
package repository

import (
	"context"

	"github.com/hirefair/hirefair/internal/domain/model"
)

// Store provides access to collaborator snapshots (rosters, ratings) and to
// the append-only session log. Sessions are immutable: once created they are
// never edited or deleted, and readers only ever see fully persisted ones.
type Store interface {
	// PutRoster replaces the roster snapshot for roster.EventID.
	PutRoster(ctx context.Context, roster model.Roster) error
	// Roster returns the roster snapshot for an event.
	// Returns ErrNotFound if the event has no roster.
	Roster(ctx context.Context, eventID string) (model.Roster, error)

	// PutRatings replaces the rating snapshot for ratings.EventID.
	// Duplicate (candidate, company) triples collapse to the latest entry.
	PutRatings(ctx context.Context, ratings model.RatingSnapshot) error
	// Ratings returns the rating snapshot for an event. An event without
	// ratings yields an empty snapshot, not an error: missing ratings are
	// expected and handled by score defaulting.
	Ratings(ctx context.Context, eventID string) (model.RatingSnapshot, error)

	// CreateSession atomically persists one session and all of its rows.
	// Returns ErrAlreadyExists when the session id is taken.
	CreateSession(ctx context.Context, s model.Session, rows []model.ResultRow) error
	// Results returns a session's rows ordered by round, seat, candidate.
	// Returns ErrNotFound for an unknown session.
	Results(ctx context.Context, sessionID string) ([]model.ResultRow, error)
	// Sessions lists an event's session summaries, newest first.
	// Returns ErrNotFound when the event has neither roster nor sessions.
	Sessions(ctx context.Context, eventID string) ([]model.Session, error)
}
