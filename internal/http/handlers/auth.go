package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nextwaveweb/salonbook/internal/auth"
	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// AuthHandler exchanges salon credentials for an admin token.
type AuthHandler struct {
	businesses business.Store
	secret     string
	tokenTTL   time.Duration
	logger     *logging.Logger
}

// NewAuthHandler creates a login handler.
func NewAuthHandler(businesses business.Store, secret string, tokenTTL time.Duration, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthHandler{
		businesses: businesses,
		secret:     secret,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// PostLogin verifies slug and password and returns an admin JWT.
// POST /auth/login
func (h *AuthHandler) PostLogin(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		jsonError(w, "admin auth disabled", http.StatusServiceUnavailable)
		return
	}

	var payload struct {
		Slug     string `json:"slug"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Slug == "" || payload.Password == "" {
		jsonError(w, "slug and password required", http.StatusBadRequest)
		return
	}

	biz, err := h.businesses.GetBySlug(r.Context(), payload.Slug)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			// Same response as a bad password, no tenant enumeration.
			jsonError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.Error("login lookup failed", "error", err, "slug", payload.Slug)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := auth.CheckPassword(biz.PasswordHash, payload.Password); err != nil {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.IssueAdminToken(h.secret, biz.ID, h.tokenTTL)
	if err != nil {
		h.logger.Error("token issue failed", "error", err, "business_id", biz.ID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("admin login", "business_id", biz.ID, "slug", biz.Slug)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":       token,
		"business_id": biz.ID,
		"expires_in":  int(h.tokenTTL.Seconds()),
	})
}
