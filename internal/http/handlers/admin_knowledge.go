package handlers

import (
	"errors"
	"net/http"

	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// AdminKnowledgeHandler manages the FAQ assistant's knowledge text.
type AdminKnowledgeHandler struct {
	businesses business.Store
	logger     *logging.Logger
}

// NewAdminKnowledgeHandler creates a knowledge admin handler.
func NewAdminKnowledgeHandler(businesses business.Store, logger *logging.Logger) *AdminKnowledgeHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminKnowledgeHandler{businesses: businesses, logger: logger}
}

// GetKnowledge returns the salon's knowledge text.
// GET /admin/knowledge
func (h *AdminKnowledgeHandler) GetKnowledge(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("business load failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"knowledge": biz.BotKnowledge})
}

// PutKnowledge replaces the salon's knowledge text.
// PUT /admin/knowledge
func (h *AdminKnowledgeHandler) PutKnowledge(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		Knowledge string `json:"knowledge"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := h.businesses.UpdateKnowledge(r.Context(), businessID, payload.Knowledge); err != nil {
		if errors.Is(err, business.ErrNotFound) {
			jsonError(w, "business not found", http.StatusNotFound)
			return
		}
		h.logger.Error("knowledge update failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
