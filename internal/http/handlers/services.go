package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nextwaveweb/salonbook/internal/catalog"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// ServicesHandler serves the public menu and admin menu edits.
type ServicesHandler struct {
	menu   catalog.Store
	logger *logging.Logger
}

// NewServicesHandler creates a services handler.
func NewServicesHandler(menu catalog.Store, logger *logging.Logger) *ServicesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ServicesHandler{menu: menu, logger: logger}
}

// GetList returns the salon's service menu.
// GET /services
func (h *ServicesHandler) GetList(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	services, err := h.menu.List(r.Context(), businessID)
	if err != nil {
		h.logger.Error("service list failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if services == nil {
		services = []catalog.Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// PutService inserts or replaces one service by name.
// PUT /admin/services
func (h *ServicesHandler) PutService(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var svc catalog.Service
	if !decodeJSON(w, r, &svc) {
		return
	}

	if err := h.menu.Upsert(r.Context(), businessID, svc); err != nil {
		if errors.Is(err, catalog.ErrInvalidService) {
			jsonError(w, "invalid service", http.StatusBadRequest)
			return
		}
		h.logger.Error("service upsert failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// DeleteService removes one service from the menu.
// DELETE /admin/services/{name}
func (h *ServicesHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	if err := h.menu.Delete(r.Context(), businessID, chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			jsonError(w, "service not found", http.StatusNotFound)
			return
		}
		h.logger.Error("service delete failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
