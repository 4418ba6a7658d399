package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"halalan/internal/auth"
	"halalan/internal/domain"
	"halalan/internal/events"
	"halalan/internal/model"
	"halalan/internal/phase"
	"halalan/internal/store"
)

type NominationHandler struct {
	nominations *store.NominationStore
	elections   *store.ElectionStore
	positions   *store.PositionStore
	hub         *events.Hub
	logger      *slog.Logger
}

func NewNominationHandler(
	ns *store.NominationStore,
	es *store.ElectionStore,
	ps *store.PositionStore,
	hub *events.Hub,
	logger *slog.Logger,
) *NominationHandler {
	return &NominationHandler{
		nominations: ns,
		elections:   es,
		positions:   ps,
		hub:         hub,
		logger:      logger.With("component", "nomination"),
	}
}

type nominationRequest struct {
	PositionID    int64  `json:"position_id"`
	FullName      string `json:"full_name"`
	BatchYear     string `json:"batch_year"`
	CampusChapter string `json:"campus_chapter"`
	Reason        string `json:"reason"`
}

// Submit handles POST /api/nominations. One nomination per voter per
// election, accepted only while the nomination window is open.
func (h *NominationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())
	if !voter.PrivacyConsent {
		respondError(w, h.logger, domain.ErrConsentRequired)
		return
	}

	var req nominationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		badRequest(w, "full_name is required")
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
	if !phase.NominationOpen(e, time.Now().UTC()) {
		respondError(w, h.logger, domain.ErrPhaseClosed)
		return
	}

	position, err := h.positions.GetByID(req.PositionID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if position == nil || position.ElectionID != e.ID || !position.IsActive {
		respondError(w, h.logger, domain.ErrInvalidPosition)
		return
	}

	n, err := h.nominations.Create(e.ID, position.ID, voter.ID,
		req.FullName, req.BatchYear, req.CampusChapter, req.Reason)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("nomination submitted", "voter", voter.VoterID, "position", position.Name)
	writeJSON(w, http.StatusCreated, n)
}

// Mine handles GET /api/nominations/mine
func (h *NominationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	voter := auth.VoterFrom(r.Context())

	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, map[string]any{"nomination": nil})
		return
	}
	n, err := h.nominations.GetForVoter(e.ID, voter.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nomination": n})
}

// List handles GET /api/admin/nominations
func (h *NominationHandler) List(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, []model.Nomination{})
		return
	}
	nominations, err := h.nominations.ListByElection(e.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if nominations == nil {
		nominations = []model.Nomination{}
	}
	writeJSON(w, http.StatusOK, nominations)
}

// Promote handles POST /api/admin/nominations/{id}/promote
func (h *NominationHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid nomination id")
		return
	}

	candidate, err := h.nominations.Promote(id, time.Now().UTC())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("nomination promoted", "nomination", id, "candidate", candidate.ID)
	h.hub.Publish(events.TypeCandidatePromoted, 0, map[string]any{
		"candidate_id": candidate.ID,
		"position_id":  candidate.PositionID,
	})
	writeJSON(w, http.StatusOK, candidate)
}
