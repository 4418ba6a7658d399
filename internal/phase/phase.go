// Package phase derives an election's current phase from its window
// timestamps. All functions are pure: callers pass the clock time so the
// same election can be evaluated at any instant.
package phase

import (
	"time"

	"halalan/internal/model"
)

type Phase string

const (
	Upcoming             Phase = "upcoming"
	Nomination           Phase = "nomination"
	Between              Phase = "between"
	Voting               Phase = "voting"
	ClosedPendingResults Phase = "closed_pending_results"
	Closed               Phase = "closed"
)

// Current determines the election phase at the given instant. After voting
// closes, the phase is closed_pending_results until results_at passes or
// results are published, whichever comes first.
func Current(e *model.Election, now time.Time) Phase {
	switch {
	case now.Before(e.NominationStart):
		return Upcoming
	case !now.After(e.NominationEnd):
		return Nomination
	case now.Before(e.VotingStart):
		return Between
	case !now.After(e.VotingEnd):
		return Voting
	}
	if e.ResultsPublished {
		return Closed
	}
	if e.ResultsAt != nil && now.Before(*e.ResultsAt) {
		return ClosedPendingResults
	}
	return Closed
}

// NominationOpen reports whether nominations are accepted at the given
// instant. Boundaries are inclusive.
func NominationOpen(e *model.Election, now time.Time) bool {
	return !now.Before(e.NominationStart) && !now.After(e.NominationEnd)
}

// VotingOpen reports whether ballots are accepted at the given instant.
// Boundaries are inclusive.
func VotingOpen(e *model.Election, now time.Time) bool {
	return !now.Before(e.VotingStart) && !now.After(e.VotingEnd)
}
