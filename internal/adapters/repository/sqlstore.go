package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hirefair/hirefair/internal/domain/model"
	"github.com/hirefair/hirefair/pkg/metrics"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	event_id TEXT NOT NULL,
	id       TEXT NOT NULL,
	name     TEXT NOT NULL,
	kana     TEXT NOT NULL DEFAULT '',
	seat     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (event_id, id)
);
CREATE TABLE IF NOT EXISTS companies (
	event_id TEXT NOT NULL,
	id       TEXT NOT NULL,
	name     TEXT NOT NULL,
	PRIMARY KEY (event_id, id)
);
CREATE TABLE IF NOT EXISTS candidate_ratings (
	event_id     TEXT NOT NULL,
	candidate_id TEXT NOT NULL,
	company_id   TEXT NOT NULL,
	score        INTEGER NOT NULL,
	comment      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (event_id, candidate_id, company_id)
);
CREATE TABLE IF NOT EXISTS company_ratings (
	event_id     TEXT NOT NULL,
	company_id   TEXT NOT NULL,
	candidate_id TEXT NOT NULL,
	score        INTEGER NOT NULL,
	comment      TEXT NOT NULL DEFAULT '',
	recruiter_id TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (event_id, company_id, candidate_id)
);
CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	event_id         TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	round_count      INTEGER NOT NULL,
	company_weight   REAL NOT NULL,
	candidate_weight REAL NOT NULL,
	warnings         TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_event ON sessions (event_id, created_at);
CREATE TABLE IF NOT EXISTS result_rows (
	session_id        TEXT NOT NULL,
	round             INTEGER NOT NULL,
	seat_number       TEXT NOT NULL,
	candidate_id      TEXT NOT NULL,
	candidate_name    TEXT NOT NULL,
	candidate_kana    TEXT NOT NULL DEFAULT '',
	company_id        TEXT NOT NULL,
	company_name      TEXT NOT NULL,
	combined_score    REAL NOT NULL,
	special_interview INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_result_rows_session ON result_rows (session_id, round, seat_number, candidate_id);
`

// SQLStore persists snapshots and sessions in sqlite via database/sql.
// Session creation runs in one transaction, so a partially written session
// is never visible to readers.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (or creates) the sqlite database at dsn and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite store: %w", err)
	}
	return nil
}

// PutRoster replaces the roster snapshot for an event.
func (s *SQLStore) PutRoster(ctx context.Context, roster model.Roster) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE event_id = ?`, roster.EventID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE event_id = ?`, roster.EventID); err != nil {
			return err
		}
		for _, c := range roster.Candidates {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO candidates (event_id, id, name, kana, seat) VALUES (?, ?, ?, ?, ?)`,
				roster.EventID, c.ID, c.Name, c.Kana, c.Seat); err != nil {
				return err
			}
		}
		for _, k := range roster.Companies {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO companies (event_id, id, name) VALUES (?, ?, ?)`,
				roster.EventID, k.ID, k.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Roster returns the roster snapshot for an event.
func (s *SQLStore) Roster(ctx context.Context, eventID string) (model.Roster, error) {
	roster := model.Roster{EventID: eventID}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kana, seat FROM candidates WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return model.Roster{}, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Kana, &c.Seat); err != nil {
			return model.Roster{}, fmt.Errorf("scan candidate: %w", err)
		}
		roster.Candidates = append(roster.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return model.Roster{}, fmt.Errorf("iterate candidates: %w", err)
	}

	krows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM companies WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return model.Roster{}, fmt.Errorf("query companies: %w", err)
	}
	defer krows.Close()
	for krows.Next() {
		var k model.Company
		if err := krows.Scan(&k.ID, &k.Name); err != nil {
			return model.Roster{}, fmt.Errorf("scan company: %w", err)
		}
		roster.Companies = append(roster.Companies, k)
	}
	if err := krows.Err(); err != nil {
		return model.Roster{}, fmt.Errorf("iterate companies: %w", err)
	}

	if len(roster.Candidates) == 0 && len(roster.Companies) == 0 {
		return model.Roster{}, fmt.Errorf("roster for event %q: %w", eventID, ErrNotFound)
	}
	return roster, nil
}

// PutRatings replaces the rating snapshot for an event. Upserting per triple
// keeps the latest write per (candidate, company) pair.
func (s *SQLStore) PutRatings(ctx context.Context, ratings model.RatingSnapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_ratings WHERE event_id = ?`, ratings.EventID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM company_ratings WHERE event_id = ?`, ratings.EventID); err != nil {
			return err
		}
		for _, r := range ratings.CandidateRatings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO candidate_ratings (event_id, candidate_id, company_id, score, comment)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (event_id, candidate_id, company_id)
				 DO UPDATE SET score = excluded.score, comment = excluded.comment`,
				ratings.EventID, r.CandidateID, r.CompanyID, r.Score, r.Comment); err != nil {
				return err
			}
		}
		for _, r := range ratings.CompanyRatings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO company_ratings (event_id, company_id, candidate_id, score, comment, recruiter_id)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (event_id, company_id, candidate_id)
				 DO UPDATE SET score = excluded.score, comment = excluded.comment, recruiter_id = excluded.recruiter_id`,
				ratings.EventID, r.CompanyID, r.CandidateID, r.Score, r.Comment, r.RecruiterID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ratings returns the rating snapshot for an event; empty when absent.
func (s *SQLStore) Ratings(ctx context.Context, eventID string) (model.RatingSnapshot, error) {
	snap := model.RatingSnapshot{EventID: eventID}

	rows, err := s.db.QueryContext(ctx,
		`SELECT candidate_id, company_id, score, comment
		 FROM candidate_ratings WHERE event_id = ? ORDER BY candidate_id, company_id`, eventID)
	if err != nil {
		return model.RatingSnapshot{}, fmt.Errorf("query candidate ratings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r model.CandidateRating
		if err := rows.Scan(&r.CandidateID, &r.CompanyID, &r.Score, &r.Comment); err != nil {
			return model.RatingSnapshot{}, fmt.Errorf("scan candidate rating: %w", err)
		}
		snap.CandidateRatings = append(snap.CandidateRatings, r)
	}
	if err := rows.Err(); err != nil {
		return model.RatingSnapshot{}, fmt.Errorf("iterate candidate ratings: %w", err)
	}

	krows, err := s.db.QueryContext(ctx,
		`SELECT company_id, candidate_id, score, comment, recruiter_id
		 FROM company_ratings WHERE event_id = ? ORDER BY company_id, candidate_id`, eventID)
	if err != nil {
		return model.RatingSnapshot{}, fmt.Errorf("query company ratings: %w", err)
	}
	defer krows.Close()
	for krows.Next() {
		var r model.CompanyRating
		if err := krows.Scan(&r.CompanyID, &r.CandidateID, &r.Score, &r.Comment, &r.RecruiterID); err != nil {
			return model.RatingSnapshot{}, fmt.Errorf("scan company rating: %w", err)
		}
		snap.CompanyRatings = append(snap.CompanyRatings, r)
	}
	if err := krows.Err(); err != nil {
		return model.RatingSnapshot{}, fmt.Errorf("iterate company ratings: %w", err)
	}
	return snap, nil
}

// CreateSession persists the session and all rows in one transaction.
func (s *SQLStore) CreateSession(ctx context.Context, sess model.Session, rows []model.ResultRow) error {
	start := time.Now()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE id = ?`, sess.ID).Scan(&exists); err != nil {
			return err
		}
		if exists > 0 {
			return fmt.Errorf("session %q: %w", sess.ID, ErrAlreadyExists)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, event_id, created_at, round_count, company_weight, candidate_weight, warnings)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sess.ID, sess.EventID, sess.CreatedAt.UTC().Format(time.RFC3339Nano),
			sess.RoundCount, sess.CompanyWeight, sess.CandidateWeight,
			strings.Join(sess.Warnings, "\n")); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO result_rows
				 (session_id, round, seat_number, candidate_id, candidate_name, candidate_kana,
				  company_id, company_name, combined_score, special_interview)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sess.ID, r.Round, r.SeatNumber, r.CandidateID, r.CandidateName, r.CandidateKana,
				r.CompanyID, r.CompanyName, r.CombinedScore, boolToInt(r.SpecialInterview)); err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordStoreLatency(float64(time.Since(start).Milliseconds()))
	return err
}

// Results returns a session's rows ordered by round, seat, candidate.
func (s *SQLStore) Results(ctx context.Context, sessionID string) ([]model.ResultRow, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE id = ?`, sessionID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, round, seat_number, candidate_id, candidate_name, candidate_kana,
		        company_id, company_name, combined_score, special_interview
		 FROM result_rows WHERE session_id = ?
		 ORDER BY round, seat_number, candidate_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query result rows: %w", err)
	}
	defer rows.Close()

	out := []model.ResultRow{}
	for rows.Next() {
		var r model.ResultRow
		var special int
		if err := rows.Scan(&r.SessionID, &r.Round, &r.SeatNumber, &r.CandidateID, &r.CandidateName,
			&r.CandidateKana, &r.CompanyID, &r.CompanyName, &r.CombinedScore, &special); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.SpecialInterview = special != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return out, nil
}

// Sessions lists an event's sessions, newest first.
func (s *SQLStore) Sessions(ctx context.Context, eventID string) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, created_at, round_count, company_weight, candidate_weight, warnings
		 FROM sessions WHERE event_id = ?
		 ORDER BY created_at DESC, id DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []model.Session{}
	for rows.Next() {
		var sess model.Session
		var createdAt, warnings string
		if err := rows.Scan(&sess.ID, &sess.EventID, &createdAt, &sess.RoundCount,
			&sess.CompanyWeight, &sess.CandidateWeight, &warnings); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse session timestamp: %w", err)
		}
		if warnings != "" {
			sess.Warnings = strings.Split(warnings, "\n")
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	if len(out) == 0 {
		var hasRoster int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM candidates WHERE event_id = ?`, eventID).Scan(&hasRoster); err != nil {
			return nil, fmt.Errorf("query roster presence: %w", err)
		}
		if hasRoster == 0 {
			return nil, fmt.Errorf("event %q: %w", eventID, ErrNotFound)
		}
	}
	return out, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
