package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"event-booking/internal/service"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.bookingSvc.Create(r.Context(), service.CreateBookingInput{
		EventID:      req.EventID,
		TicketTypeID: req.TicketTypeID,
		UserID:       userIDFromContext(r.Context()),
		Quantity:     req.Quantity,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, bookingResponse(detail))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	detail, err := h.bookingSvc.GetByReference(r.Context(), chi.URLParam(r, "reference"), userIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, bookingResponse(detail))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingSvc.ListByUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	detail, err := h.bookingSvc.Cancel(r.Context(), chi.URLParam(r, "reference"), userIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, bookingResponse(detail))
}

func bookingResponse(detail *service.BookingDetail) map[string]any {
	resp := map[string]any{
		"booking": detail.Booking,
		"tickets": detail.Tickets,
	}
	if detail.Payment != nil {
		resp["payment"] = detail.Payment
	}
	return resp
}
