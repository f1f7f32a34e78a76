package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"event-booking/internal/service"
)

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.eventSvc.Create(r.Context(), service.CreateEventInput{
		Title:        req.Title,
		Description:  req.Description,
		VenueName:    req.VenueName,
		VenueAddress: req.VenueAddress,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		OrganizerID:  userIDFromContext(r.Context()),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, event)
}

func (h *Handler) AddTicketType(w http.ResponseWriter, r *http.Request) {
	var req createTicketTypeRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tt, err := h.eventSvc.AddTicketType(r.Context(), service.CreateTicketTypeInput{
		EventID:     chi.URLParam(r, "eventID"),
		OrganizerID: userIDFromContext(r.Context()),
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, tt)
}

func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventSvc.Publish(r.Context(), chi.URLParam(r, "eventID"), userIDFromContext(r.Context()))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, event)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ticketTypes, err := h.eventSvc.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"event":        event,
		"ticket_types": ticketTypes,
	})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventSvc.ListPublished(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"events": events})
}
