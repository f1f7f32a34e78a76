package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.ticketSvc.GetByNumber(r.Context(), chi.URLParam(r, "number"), userIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ticket)
}

func (h *Handler) RedeemTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.ticketSvc.Redeem(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ticket)
}
