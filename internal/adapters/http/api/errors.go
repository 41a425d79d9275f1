package api

import (
	"errors"
	"net/http"

	"github.com/hirefair/hirefair/internal/adapters/repository"
	"github.com/hirefair/hirefair/internal/domain/scoring"
	"github.com/hirefair/hirefair/internal/domain/session"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// writeDomainError maps errors from lower layers onto HTTP statuses:
// validation failures become 422, missing sessions/events 404, the rest 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case isValidation(err):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func isValidation(err error) bool {
	return errors.Is(err, session.ErrEmptyRoster) ||
		errors.Is(err, session.ErrInvalidRoundCount) ||
		errors.Is(err, scoring.ErrInvalidWeights)
}
