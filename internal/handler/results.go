package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"halalan/internal/domain"
	"halalan/internal/store"
)

type ResultsHandler struct {
	votes     *store.VoteStore
	elections *store.ElectionStore
	voters    *store.VoterStore
	logger    *slog.Logger
}

func NewResultsHandler(vs *store.VoteStore, es *store.ElectionStore, voters *store.VoterStore, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{
		votes:     vs,
		elections: es,
		voters:    voters,
		logger:    logger.With("component", "results"),
	}
}

// Public handles GET /api/results. Nothing leaks before publication, not
// even the position list. Resolves through Latest so published results
// stay visible after the election is ended.
func (h *ResultsHandler) Public(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Latest()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil || !e.ResultsPublished {
		writeJSON(w, http.StatusOK, map[string]any{"published": false})
		return
	}

	results, err := h.votes.Results(e.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"published":    true,
		"published_at": e.ResultsPublishedAt,
		"election":     e.Name,
		"results":      results,
	})
}

// Tally handles GET /api/admin/tally?election_id=. Without the parameter
// it reports the active election, or the last ended one.
func (h *ResultsHandler) Tally(w http.ResponseWriter, r *http.Request) {
	var electionID int64
	if raw := r.URL.Query().Get("election_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(w, "invalid election_id")
			return
		}
		electionID = id
	} else {
		e, err := h.elections.Latest()
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		if e == nil {
			respondError(w, h.logger, domain.ErrNoActiveElection)
			return
		}
		electionID = e.ID
	}

	tallies, err := h.votes.Tally(electionID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if tallies == nil {
		tallies = []store.PositionTally{}
	}
	writeJSON(w, http.StatusOK, tallies)
}

// Stats handles GET /api/admin/stats
func (h *ResultsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, voted, err := h.voters.Counts()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	var turnout float64
	if total > 0 {
		turnout = math.Round(float64(voted)/float64(total)*100*100) / 100
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_voters":    total,
		"voted_count":     voted,
		"turnout_percent": turnout,
	})
}
