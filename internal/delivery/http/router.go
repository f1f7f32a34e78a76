package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the full API surface. The booking creation route sits
// behind the rate limiter; the webhook route is unauthenticated since the
// provider signs its deliveries instead.
func NewRouter(h *Handler, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/webhooks/razorpay", h.PaymentWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/events", h.ListEvents)
		r.Get("/events/{eventID}", h.GetEvent)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Post("/events", h.CreateEvent)
			r.Post("/events/{eventID}/ticket-types", h.AddTicketType)
			r.Post("/events/{eventID}/publish", h.PublishEvent)

			r.With(limiter.Limit(h)).Post("/bookings", h.CreateBooking)
			r.Get("/bookings", h.ListBookings)
			r.Get("/bookings/{reference}", h.GetBooking)
			r.Post("/bookings/{reference}/cancel", h.CancelBooking)

			r.Post("/payments/order", h.CreatePaymentOrder)
			r.Post("/payments/verify", h.VerifyPayment)

			r.Get("/tickets/{number}", h.GetTicket)
			r.Post("/tickets/{number}/validate", h.RedeemTicket)
		})
	})

	return r
}
