package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"halalan/internal/domain"
	"halalan/internal/events"
	"halalan/internal/model"
	"halalan/internal/phase"
	"halalan/internal/store"
)

type ElectionHandler struct {
	elections  *store.ElectionStore
	positions  *store.PositionStore
	candidates *store.CandidateStore
	hub        *events.Hub
	logger     *slog.Logger
}

func NewElectionHandler(
	es *store.ElectionStore,
	ps *store.PositionStore,
	cs *store.CandidateStore,
	hub *events.Hub,
	logger *slog.Logger,
) *ElectionHandler {
	return &ElectionHandler{
		elections:  es,
		positions:  ps,
		candidates: cs,
		hub:        hub,
		logger:     logger.With("component", "election"),
	}
}

// Current handles GET /api/election/current
func (h *ElectionHandler) Current(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, map[string]any{"election": nil, "phase": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"election": e,
		"phase":    phase.Current(e, time.Now().UTC()),
	})
}

// Positions handles GET /api/positions: the active election's active
// positions in display order.
func (h *ElectionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, []model.Position{})
		return
	}
	positions, err := h.positions.ListActive(e.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if positions == nil {
		positions = []model.Position{}
	}
	writeJSON(w, http.StatusOK, positions)
}

// Candidates handles GET /api/candidates?position=: official candidates
// for one position.
func (h *ElectionHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	positionID, err := strconv.ParseInt(r.URL.Query().Get("position"), 10, 64)
	if err != nil {
		badRequest(w, "position query parameter is required")
		return
	}
	candidates, err := h.candidates.ListOfficial(positionID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

// List handles GET /api/admin/elections with per-election totals.
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.elections.Summaries()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

type createElectionRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	NominationStart time.Time  `json:"nomination_start"`
	NominationEnd   time.Time  `json:"nomination_end"`
	VotingStart     time.Time  `json:"voting_start"`
	VotingEnd       time.Time  `json:"voting_end"`
	ResultsAt       *time.Time `json:"results_at"`
	IsActive        bool       `json:"is_active"`
}

// Create handles POST /api/admin/elections
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createElectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	if !req.NominationStart.Before(req.NominationEnd) {
		badRequest(w, "nomination_start must be before nomination_end")
		return
	}
	if !req.NominationEnd.Before(req.VotingStart) {
		badRequest(w, "nomination_end must be before voting_start")
		return
	}
	if !req.VotingStart.Before(req.VotingEnd) {
		badRequest(w, "voting_start must be before voting_end")
		return
	}

	e, err := h.elections.Create(req.Name, req.Description,
		req.NominationStart, req.NominationEnd, req.VotingStart, req.VotingEnd,
		req.ResultsAt, req.IsActive)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("election created", "id", e.ID, "name", e.Name, "active", e.IsActive)
	h.hub.Publish(events.TypeElectionCreated, e.ID, map[string]any{"name": e.Name})
	writeJSON(w, http.StatusCreated, e)
}

// End handles POST /api/admin/election/end
func (h *ElectionHandler) End(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.End(time.Now().UTC())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.logger.Info("election ended", "id", e.ID)
	h.hub.Publish(events.TypeElectionEnded, e.ID, nil)
	writeJSON(w, http.StatusOK, e)
}

type publishRequest struct {
	Published bool `json:"published"`
}

// Publish handles POST /api/admin/election/publish
func (h *ElectionHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.elections.Latest()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		respondError(w, h.logger, domain.ErrNoActiveElection)
		return
	}

	e, err = h.elections.SetPublished(e.ID, req.Published, time.Now().UTC())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	eventType := events.TypeResultsPublished
	if !req.Published {
		eventType = events.TypeResultsHidden
	}
	h.logger.Info("results publication changed", "id", e.ID, "published", req.Published)
	h.hub.Publish(eventType, e.ID, nil)
	writeJSON(w, http.StatusOK, e)
}

// ResetElection handles POST /api/admin/reset-election
func (h *ElectionHandler) ResetElection(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		respondError(w, h.logger, domain.ErrNoActiveElection)
		return
	}

	if err := h.elections.Reset(e.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.logger.Info("election reset", "id", e.ID)
	h.hub.Publish(events.TypeElectionReset, e.ID, nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
