// Package domain defines the error taxonomy shared by stores and handlers.
// Every domain violation maps to a short machine-checkable reason code and
// an HTTP status, so clients can branch without string matching.
package domain

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("insufficient privilege")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidPosition     = errors.New("position not in active election")
	ErrInvalidSelection    = errors.New("invalid candidate selection")
	ErrIncompleteBallot    = errors.New("ballot must cover every active position exactly once")
	ErrDuplicateNomination = errors.New("nomination already submitted for this election")
	ErrAlreadyVoted        = errors.New("ballot already cast")
	ErrPhaseClosed         = errors.New("this action is not open in the current phase")
	ErrNoActiveElection    = errors.New("no active election")
	ErrConsentRequired     = errors.New("privacy consent required")
	ErrConflict            = errors.New("conflicting concurrent request")
)

// Code returns the stable reason code for a domain error, or "internal_error"
// for anything outside the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidPosition):
		return "invalid_position"
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrIncompleteBallot):
		return "incomplete_ballot"
	case errors.Is(err, ErrDuplicateNomination):
		return "duplicate_nomination"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrPhaseClosed):
		return "phase_closed"
	case errors.Is(err, ErrNoActiveElection):
		return "no_active_election"
	case errors.Is(err, ErrConsentRequired):
		return "consent_required"
	case errors.Is(err, ErrConflict):
		return "conflict"
	}
	return "internal_error"
}

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidPosition),
		errors.Is(err, ErrInvalidSelection),
		errors.Is(err, ErrIncompleteBallot),
		errors.Is(err, ErrDuplicateNomination),
		errors.Is(err, ErrAlreadyVoted),
		errors.Is(err, ErrPhaseClosed),
		errors.Is(err, ErrNoActiveElection),
		errors.Is(err, ErrConsentRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
