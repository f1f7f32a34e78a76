package http

import (
	"net/http"

	"event-booking/internal/service"
)

func (h *Handler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var req createPaymentOrderRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.paymentSvc.CreateOrder(r.Context(), req.BookingReference, userIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.paymentSvc.Verify(r.Context(), service.VerifyPaymentInput{
		BookingReference: req.BookingReference,
		OrderID:          req.OrderID,
		PaymentID:        req.PaymentID,
		Signature:        req.Signature,
		UserID:           userIDFromContext(r.Context()),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, bookingResponse(detail))
}
