package handlers

import (
	"errors"
	"net/http"

	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/schedule"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// AvailabilityHandler serves the resolved booking window.
type AvailabilityHandler struct {
	schedule   *schedule.Service
	businesses business.Store
	logger     *logging.Logger
}

// NewAvailabilityHandler creates an availability handler.
func NewAvailabilityHandler(scheduleSvc *schedule.Service, businesses business.Store, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{
		schedule:   scheduleSvc,
		businesses: businesses,
		logger:     logger,
	}
}

// GetWeek returns the customer-facing week: open slots only.
// GET /availability?date=YYYY-MM-DD&locale=he
func (h *AvailabilityHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	h.serveWeek(w, r, false)
}

// GetWeekDetailed returns the admin week: every slot with its state and
// the provenance of that state.
// GET /admin/availability?date=YYYY-MM-DD
func (h *AvailabilityHandler) GetWeekDetailed(w http.ResponseWriter, r *http.Request) {
	h.serveWeek(w, r, true)
}

func (h *AvailabilityHandler) serveWeek(w http.ResponseWriter, r *http.Request, withSources bool) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	biz, err := h.businesses.GetByID(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			jsonError(w, "business not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load business", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	days, err := h.schedule.ResolveWeek(r.Context(), schedule.WeekQuery{
		BusinessID:    businessID,
		ReferenceDate: r.URL.Query().Get("date"),
		Timezone:      biz.Timezone,
		Locale:        defaultString(r.URL.Query().Get("locale"), biz.Locale),
		WithSources:   withSources,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDate) {
			jsonError(w, "invalid date", http.StatusBadRequest)
			return
		}
		h.logger.Error("availability resolution failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"business_id": businessID,
		"days":        days,
	})
}
