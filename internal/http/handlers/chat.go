package handlers

import (
	"errors"
	"net/http"

	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/chat"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// ChatHandler serves the storefront FAQ assistant.
type ChatHandler struct {
	chat       *chat.Service
	businesses business.Store
	logger     *logging.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chatSvc *chat.Service, businesses business.Store, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{chat: chatSvc, businesses: businesses, logger: logger}
}

// PostAsk answers one customer question.
// POST /ask
func (h *ChatHandler) PostAsk(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		Question string `json:"question"`
		Locale   string `json:"locale"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	locale := payload.Locale
	if locale == "" {
		if biz, err := h.businesses.GetByID(r.Context(), businessID); err == nil {
			locale = biz.Locale
		}
	}

	reply, err := h.chat.Ask(r.Context(), chat.Question{
		BusinessID: businessID,
		Text:       payload.Question,
		Locale:     locale,
	})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyQuestion) {
			jsonError(w, "question required", http.StatusBadRequest)
			return
		}
		h.logger.Error("chat failed", "error", err, "business_id", businessID)
		jsonError(w, "assistant unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
