package handlers

import (
	"errors"
	"net/http"

	"github.com/nextwaveweb/salonbook/internal/booking"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// BookingHandler serves customer booking and cancellation plus the admin
// day list.
type BookingHandler struct {
	bookings *booking.Service
	logger   *logging.Logger
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(bookings *booking.Service, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{bookings: bookings, logger: logger}
}

// PostBook books one appointment.
// POST /book
func (h *BookingHandler) PostBook(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		Date    string `json:"date"`
		Time    string `json:"time"`
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Service string `json:"service"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	b, err := h.bookings.Book(r.Context(), booking.BookRequest{
		BusinessID: businessID,
		Date:       payload.Date,
		Time:       payload.Time,
		Name:       payload.Name,
		Phone:      payload.Phone,
		Service:    payload.Service,
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrValidation):
			jsonError(w, "invalid booking request", http.StatusBadRequest)
		case errors.Is(err, booking.ErrUnknownService):
			jsonError(w, "unknown service", http.StatusBadRequest)
		case errors.Is(err, booking.ErrSlotUnavailable):
			jsonError(w, "slot unavailable", http.StatusConflict)
		case errors.Is(err, booking.ErrSlotTaken):
			jsonError(w, "slot already taken", http.StatusConflict)
		default:
			h.logger.Error("booking failed", "error", err, "business_id", businessID)
			jsonError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// PostCancel cancels an appointment identified by date, time, name and
// phone.
// POST /cancel
func (h *BookingHandler) PostCancel(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	var payload struct {
		Date  string `json:"date"`
		Time  string `json:"time"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	err := h.bookings.Cancel(r.Context(), businessID, payload.Date, payload.Time, payload.Name, payload.Phone)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrValidation):
			jsonError(w, "invalid cancel request", http.StatusBadRequest)
		case errors.Is(err, booking.ErrNotFound):
			jsonError(w, "booking not found", http.StatusNotFound)
		default:
			h.logger.Error("cancellation failed", "error", err, "business_id", businessID)
			jsonError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// GetByDate lists a day's bookings for the salon owner.
// GET /admin/bookings?date=YYYY-MM-DD
func (h *BookingHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing business scope", http.StatusBadRequest)
		return
	}

	list, err := h.bookings.ListByDate(r.Context(), businessID, r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, booking.ErrValidation) {
			jsonError(w, "invalid date", http.StatusBadRequest)
			return
		}
		h.logger.Error("booking list failed", "error", err, "business_id", businessID)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []booking.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
}
