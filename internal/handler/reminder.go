package handler

import (
	"log/slog"
	"net/http"
	"time"

	"halalan/internal/domain"
	"halalan/internal/model"
	"halalan/internal/store"
)

type ReminderHandler struct {
	reminders *store.ReminderStore
	elections *store.ElectionStore
	logger    *slog.Logger
}

func NewReminderHandler(rs *store.ReminderStore, es *store.ElectionStore, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders: rs,
		elections: es,
		logger:    logger.With("component", "reminder"),
	}
}

// List handles GET /api/admin/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	e, err := h.elections.Active()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if e == nil {
		writeJSON(w, http.StatusOK, []model.Reminder{})
		return
	}
	reminders, err := h.reminders.ListByElection(e.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

type createReminderRequest struct {
	RemindAt time.Time `json:"remind_at"`
	Note     string    `json:"note"`
}

// Create handles POST /api/admin/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RemindAt.IsZero() {
		badRequest(w, "remind_at is required")
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

	reminder, err := h.reminders.Create(e.ID, req.RemindAt, req.Note)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

// Delete handles DELETE /api/admin/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		badRequest(w, "invalid reminder id")
		return
	}
	if err := h.reminders.Delete(id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
