package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total bookings created (reservations placed)",
	})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_confirmed_total",
		Help: "Total bookings confirmed with tickets issued",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_cancelled_total",
		Help: "Total bookings cancelled by users",
	})

	BookingsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_expired_total",
		Help: "Total bookings expired by the reaper",
	})

	InsufficientInventory = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_rejected_insufficient_total",
		Help: "Total booking attempts rejected for insufficient inventory",
	})

	PaymentWebhooks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhooks_total",
		Help: "Webhook deliveries by outcome",
	}, []string{"outcome"})

	ReaperSweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reaper_sweep_duration_seconds",
		Help:    "Duration of expiry reaper sweeps",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	ReaperLastSweepExpired = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reaper_last_sweep_expired",
		Help: "Bookings expired during the most recent reaper sweep",
	})
)
