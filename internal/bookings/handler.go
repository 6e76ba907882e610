package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/homepros/booking-platform/internal/scheduling"
	"github.com/homepros/booking-platform/internal/services"
	"github.com/homepros/booking-platform/pkg/logging"
)

// Handler exposes the booking endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a bookings HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type createBookingBody struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	ServiceType     string `json:"service_type"`
	TechnicianID    string `json:"technician_id"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type rescheduleBody struct {
	NewStartTime string `json:"new_start_time"`
}

type errorResponse struct {
	Error     string                    `json:"error"`
	Code      string                    `json:"code,omitempty"`
	Details   []string                  `json:"details,omitempty"`
	Warnings  []string                  `json:"warnings,omitempty"`
	Suggested *scheduling.AvailableSlot `json:"suggested_slot,omitempty"`
}

// GET /availability?service_type=plumbing&date=2026-03-02[&technician_id=...]
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	serviceType := services.ServiceType(r.URL.Query().Get("service_type"))
	if serviceType == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "service_type is required"})
		return
	}
	if !services.Exists(serviceType) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown service_type: " + string(serviceType)})
		return
	}

	dateRaw := r.URL.Query().Get("date")
	if dateRaw == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date is required (YYYY-MM-DD)"})
		return
	}
	// The date is a calendar day in the business timezone. Parsing it
	// as UTC would shift it across the midnight boundary and answer
	// for the wrong day.
	date, err := time.ParseInLocation("2006-01-02", dateRaw, h.service.Location())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: " + dateRaw})
		return
	}

	slots, err := h.service.Availability(r.Context(), serviceType, date, r.URL.Query().Get("technician_id"))
	if err != nil {
		h.logger.Error("availability query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "availability lookup failed"})
		return
	}
	if slots == nil {
		slots = []scheduling.AvailableSlot{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":         dateRaw,
		"service_type": serviceType,
		"slots":        slots,
	})
}

// POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createBookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid start_time, expected RFC 3339"})
		return
	}

	req := &CreateBookingRequest{
		CustomerName:    body.CustomerName,
		CustomerEmail:   body.CustomerEmail,
		CustomerPhone:   body.CustomerPhone,
		ServiceType:     services.ServiceType(body.ServiceType),
		TechnicianID:    body.TechnicianID,
		StartTime:       start,
		DurationMinutes: body.DurationMinutes,
	}

	booking, err := h.service.CreateBooking(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	booking, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "booking not found"})
			return
		}
		h.logger.Error("booking lookup failed", "booking_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "booking lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// POST /bookings/{id}/reschedule
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body rescheduleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}
	newStart, err := time.Parse(time.RFC3339, body.NewStartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid new_start_time, expected RFC 3339"})
		return
	}

	booking, err := h.service.Reschedule(r.Context(), id, newStart)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// writeDomainError maps the typed booking outcomes onto HTTP statuses.
// Validation problems and conflicts are expected flows, not 500s.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var validation *ValidationFailedError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    "booking request failed validation",
			Code:     "validation_failed",
			Details:  validation.Result.Errors,
			Warnings: validation.Result.Warnings,
		})
		return
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     conflict.Reason,
			Code:      "slot_taken",
			Suggested: conflict.Suggested,
		})
		return
	}

	var cutoff *CutoffError
	if errors.As(err, &cutoff) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: cutoff.Error(),
			Code:  "cutoff_window",
		})
		return
	}

	if errors.Is(err, ErrBookingNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "booking not found"})
		return
	}
	if errors.Is(err, ErrBookingCancelled) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "booking is cancelled", Code: "booking_cancelled"})
		return
	}

	h.logger.Error("booking request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
