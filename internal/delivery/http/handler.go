package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"event-booking/internal/service"
	"event-booking/internal/store"
	"event-booking/pkg/logger"
)

type Handler struct {
	authSvc    service.AuthService
	eventSvc   service.EventService
	bookingSvc service.BookingService
	paymentSvc service.PaymentService
	ticketSvc  service.TicketService

	webhookSecret string

	logger    logger.Logger
	validator *validator.Validate
}

func NewHandler(
	authSvc service.AuthService,
	eventSvc service.EventService,
	bookingSvc service.BookingService,
	paymentSvc service.PaymentService,
	ticketSvc service.TicketService,
	webhookSecret string,
	l logger.Logger,
) *Handler {
	return &Handler{
		authSvc:       authSvc,
		eventSvc:      eventSvc,
		bookingSvc:    bookingSvc,
		paymentSvc:    paymentSvc,
		ticketSvc:     ticketSvc,
		webhookSecret: webhookSecret,
		logger:        l,
		validator:     validator.New(),
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "event-booking",
	})
}

// decode unmarshals and validates the request body.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validator.Struct(dst)
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf(context.Background(), "delivery.http.Handler.respondJSON: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, map[string]any{
		"error": message,
		"code":  statusCode,
	})
}

// respondServiceError maps service sentinels onto status codes. Unknown
// errors are logged and surface as a bare 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var insErr *store.InsufficientInventoryError
	if errors.As(err, &insErr) {
		h.respondJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient inventory",
			"code":      http.StatusConflict,
			"available": insErr.Available,
			"requested": insErr.Requested,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrTicketTypeNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrUserNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBookingExpired):
		h.respondError(w, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrPaymentFailed):
		h.respondError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.Errorf(r.Context(), "delivery.http: %v", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
