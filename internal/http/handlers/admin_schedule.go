package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nextwaveweb/salonbook/internal/schedule"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// AdminScheduleHandler manages the weekly template.
type AdminScheduleHandler struct {
	schedule *schedule.Service
	logger   *logging.Logger
}

// NewAdminScheduleHandler creates a template admin handler.
func NewAdminScheduleHandler(scheduleSvc *schedule.Service, logger *logging.Logger) *AdminScheduleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminScheduleHandler{schedule: scheduleSvc, logger: logger}
}

// GetTemplate returns the stored weekly template keyed by weekday number.
// GET /admin/schedule
func (h *AdminScheduleHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	tpl, err := h.schedule.Template(r.Context(), businessID)
	if err != nil {
		h.logger.Error("template load failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	days := make(map[string][]string, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		days[strconv.Itoa(int(day))] = tpl.Day(day)
	}
	writeJSON(w, http.StatusOK, map[string]any{"template": days})
}

// PutDay replaces one weekday's slot list.
// PUT /admin/schedule/days/{day}
func (h *AdminScheduleHandler) PutDay(w http.ResponseWriter, r *http.Request) {
	businessID, day, ok := h.scope(w, r)
	if !ok {
		return
	}

	var payload struct {
		Times []string `json:"times"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.schedule.SetTemplateDay(r.Context(), businessID, day, payload.Times); err != nil {
		h.fail(w, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// PostSlot adds one recurring slot to a weekday.
// POST /admin/schedule/days/{day}/slots
func (h *AdminScheduleHandler) PostSlot(w http.ResponseWriter, r *http.Request) {
	businessID, day, ok := h.scope(w, r)
	if !ok {
		return
	}

	var payload struct {
		Time string `json:"time"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.schedule.AddTemplateSlot(r.Context(), businessID, day, payload.Time); err != nil {
		h.fail(w, err, businessID)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// DeleteSlot removes one recurring slot from a weekday.
// DELETE /admin/schedule/days/{day}/slots/{time}
func (h *AdminScheduleHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	businessID, day, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.schedule.RemoveTemplateSlot(r.Context(), businessID, day, chi.URLParam(r, "time")); err != nil {
		h.fail(w, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// PatchSlot moves one recurring slot to a new time.
// PATCH /admin/schedule/days/{day}/slots/{time}
func (h *AdminScheduleHandler) PatchSlot(w http.ResponseWriter, r *http.Request) {
	businessID, day, ok := h.scope(w, r)
	if !ok {
		return
	}

	var payload struct {
		NewTime string `json:"new_time"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.schedule.EditTemplateSlot(r.Context(), businessID, day, chi.URLParam(r, "time"), payload.NewTime); err != nil {
		h.fail(w, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "edited"})
}

// PostToggleDay enables or disables a whole weekday. Disabling clears the
// day's slots.
// POST /admin/schedule/days/{day}/toggle
func (h *AdminScheduleHandler) PostToggleDay(w http.ResponseWriter, r *http.Request) {
	businessID, day, ok := h.scope(w, r)
	if !ok {
		return
	}

	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.schedule.ToggleTemplateDay(r.Context(), businessID, day, payload.Enabled); err != nil {
		h.fail(w, err, businessID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
}

func (h *AdminScheduleHandler) scope(w http.ResponseWriter, r *http.Request) (string, time.Weekday, bool) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return "", 0, false
	}
	day, err := parseWeekday(chi.URLParam(r, "day"))
	if err != nil {
		jsonError(w, "invalid weekday", http.StatusBadRequest)
		return "", 0, false
	}
	return businessID, day, true
}

func (h *AdminScheduleHandler) fail(w http.ResponseWriter, err error, businessID string) {
	writeScheduleError(w, h.logger, err, businessID)
}

// parseWeekday accepts weekday numbers 0 (Sunday) through 6 (Saturday).
func parseWeekday(s string) (time.Weekday, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 6 {
		return 0, schedule.ErrInvalidWeekday
	}
	return time.Weekday(n), nil
}

func writeScheduleError(w http.ResponseWriter, logger *logging.Logger, err error, businessID string) {
	switch {
	case errors.Is(err, schedule.ErrInvalidClock),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrInvalidWeekday):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, schedule.ErrSlotNotFound):
		jsonError(w, "slot not found", http.StatusNotFound)
	case errors.Is(err, schedule.ErrSlotExists),
		errors.Is(err, schedule.ErrSlotEdited):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		logger.Error("schedule mutation failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
