package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"halalan/internal/domain"
	"halalan/internal/store"
)

// PositionAdminHandler manages the ballot structure: positions and the
// official candidates under them.
type PositionAdminHandler struct {
	positions  *store.PositionStore
	candidates *store.CandidateStore
	elections  *store.ElectionStore
	logger     *slog.Logger
}

func NewPositionAdminHandler(
	ps *store.PositionStore,
	cs *store.CandidateStore,
	es *store.ElectionStore,
	logger *slog.Logger,
) *PositionAdminHandler {
	return &PositionAdminHandler{
		positions:  ps,
		candidates: cs,
		elections:  es,
		logger:     logger.With("component", "position_admin"),
	}
}

type createPositionRequest struct {
	ElectionID   int64  `json:"election_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	Seats        int    `json:"seats"`
}

// CreatePosition handles POST /api/admin/positions. Without election_id
// the position joins the active election.
func (h *PositionAdminHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req createPositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	if req.ElectionID == 0 {
		e, err := h.elections.Active()
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		if e == nil {
			respondError(w, h.logger, domain.ErrNoActiveElection)
			return
		}
		req.ElectionID = e.ID
	} else {
		e, err := h.elections.GetByID(req.ElectionID)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		if e == nil {
			respondError(w, h.logger, domain.ErrNotFound)
			return
		}
	}

	position, err := h.positions.Create(req.ElectionID, req.Name, req.DisplayOrder, req.Seats)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.logger.Info("position created", "id", position.ID, "name", position.Name)
	writeJSON(w, http.StatusCreated, position)
}

type setPositionActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetPositionActive handles PATCH /api/admin/positions/{id}. Inactive
// positions drop out of the required ballot set.
func (h *PositionAdminHandler) SetPositionActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid position id")
		return
	}
	var req setPositionActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	position, err := h.positions.GetByID(id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if position == nil {
		respondError(w, h.logger, domain.ErrNotFound)
		return
	}
	if err := h.positions.SetActive(id, req.IsActive); err != nil {
		respondError(w, h.logger, err)
		return
	}
	position.IsActive = req.IsActive
	writeJSON(w, http.StatusOK, position)
}

type createCandidateRequest struct {
	PositionID    int64  `json:"position_id"`
	FullName      string `json:"full_name"`
	BatchYear     string `json:"batch_year"`
	CampusChapter string `json:"campus_chapter"`
	Bio           string `json:"bio"`
}

// CreateCandidate handles POST /api/admin/candidates. Admin-created
// candidates are official immediately.
func (h *PositionAdminHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		badRequest(w, "full_name is required")
		return
	}

	position, err := h.positions.GetByID(req.PositionID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if position == nil {
		respondError(w, h.logger, domain.ErrInvalidPosition)
		return
	}

	candidate, err := h.candidates.Create(req.PositionID, req.FullName,
		req.BatchYear, req.CampusChapter, req.Bio, true)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.logger.Info("candidate created", "id", candidate.ID, "position", position.Name)
	writeJSON(w, http.StatusCreated, candidate)
}
