package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nextwaveweb/salonbook/internal/schedule"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// AdminOverridesHandler manages per-date schedule overrides.
type AdminOverridesHandler struct {
	schedule *schedule.Service
	logger   *logging.Logger
}

// NewAdminOverridesHandler creates an overrides admin handler.
func NewAdminOverridesHandler(scheduleSvc *schedule.Service, logger *logging.Logger) *AdminOverridesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminOverridesHandler{schedule: scheduleSvc, logger: logger}
}

// GetAll returns every stored override entry keyed by date.
// GET /admin/overrides
func (h *AdminOverridesHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	entries, err := h.schedule.Overrides(r.Context(), businessID)
	if err != nil {
		h.logger.Error("override load failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = map[string]schedule.OverrideEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": entries})
}

// PostAdd introduces a one-time slot on a date.
// POST /admin/overrides/{date}/add
func (h *AdminOverridesHandler) PostAdd(w http.ResponseWriter, r *http.Request) {
	h.mutateWithTime(w, r, h.schedule.AddOverride)
}

// PostRemove suppresses a slot on a date.
// POST /admin/overrides/{date}/remove
func (h *AdminOverridesHandler) PostRemove(w http.ResponseWriter, r *http.Request) {
	h.mutateWithTime(w, r, h.schedule.RemoveOverride)
}

// PostRevert undoes overrides touching a slot, restoring template
// behavior. Reverting either end of an edit undoes the whole edit.
// POST /admin/overrides/{date}/revert
func (h *AdminOverridesHandler) PostRevert(w http.ResponseWriter, r *http.Request) {
	h.mutateWithTime(w, r, h.schedule.RevertOverride)
}

// PostEdit reschedules a slot on a date.
// POST /admin/overrides/{date}/edit
func (h *AdminOverridesHandler) PostEdit(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.schedule.EditOverride(r.Context(), businessID, chi.URLParam(r, "date"), payload.From, payload.To); err != nil {
		writeScheduleError(w, h.logger, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "edited"})
}

// PostToggle enables or disables a whole date.
// POST /admin/overrides/{date}/toggle
func (h *AdminOverridesHandler) PostToggle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.schedule.ToggleDate(r.Context(), businessID, chi.URLParam(r, "date"), payload.Enabled); err != nil {
		writeScheduleError(w, h.logger, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
}

// Delete drops every override for a date.
// DELETE /admin/overrides/{date}
func (h *AdminOverridesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	if err := h.schedule.ClearOverrides(r.Context(), businessID, chi.URLParam(r, "date")); err != nil {
		writeScheduleError(w, h.logger, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *AdminOverridesHandler) mutateWithTime(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(ctx context.Context, businessID, date, clock string) error,
) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		Time string `json:"time"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := mutate(r.Context(), businessID, chi.URLParam(r, "date"), payload.Time); err != nil {
		writeScheduleError(w, h.logger, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
