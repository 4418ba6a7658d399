package handler

import (
	"log/slog"
	"net/http"
	"time"

	"halalan/internal/auth"
	"halalan/internal/domain"
	"halalan/internal/events"
	"halalan/internal/phase"
	"halalan/internal/store"
)

type BallotHandler struct {
	votes     *store.VoteStore
	elections *store.ElectionStore
	hub       *events.Hub
	logger    *slog.Logger
}

func NewBallotHandler(
	vs *store.VoteStore,
	es *store.ElectionStore,
	hub *events.Hub,
	logger *slog.Logger,
) *BallotHandler {
	return &BallotHandler{
		votes:     vs,
		elections: es,
		hub:       hub,
		logger:    logger.With("component", "ballot"),
	}
}

type ballotRequest struct {
	Votes map[int64]int64 `json:"votes"`
}

// Submit handles POST /api/ballot. The request must cover every active
// position; the whole ballot commits or nothing does.
func (h *BallotHandler) Submit(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())
	if !voter.PrivacyConsent {
		respondError(w, h.logger, domain.ErrConsentRequired)
		return
	}
	if voter.HasVoted {
		// Cheap pre-check. The UNIQUE constraint still decides races.
		respondError(w, h.logger, domain.ErrAlreadyVoted)
		return
	}

	var req ballotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		respondError(w, h.logger, domain.ErrNoActiveElection)
		return
	}
	if !phase.VotingOpen(e, time.Now().UTC()) {
		respondError(w, h.logger, domain.ErrPhaseClosed)
		return
	}

	if err := h.votes.SubmitBallot(voter.ID, e.ID, req.Votes); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("ballot cast", "voter", voter.VoterID, "positions", len(req.Votes))
	h.hub.Publish(events.TypeBallotCast, e.ID, map[string]any{"positions": len(req.Votes)})
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ballot_cast"})
}

// Mine handles GET /api/ballot/mine. No phase gate: voters can always
// review their own committed votes.
func (h *BallotHandler) Mine(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())
	votes, err := h.votes.ListByVoter(voter.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if votes == nil {
		votes = []store.VoteDetail{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"has_voted": voter.HasVoted || len(votes) > 0,
		"votes":     votes,
	})
}
