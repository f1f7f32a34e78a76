package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"event-booking/internal/domain"
	"event-booking/internal/metrics"
	"event-booking/internal/service"
	"event-booking/pkg/gateway"
)

// razorpayWebhook mirrors the provider's envelope. Only the fields the
// confirmation path needs are decoded.
type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentWebhook is the asynchronous confirmation path. The provider
// retries deliveries until acknowledged, so anything already handled (or
// unknown to us) still answers 200; only a bad signature is rejected.
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.PaymentWebhooks.WithLabelValues("unreadable").Inc()
		h.respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if h.webhookSecret != "" {
		signature := r.Header.Get("X-Razorpay-Signature")
		if !gateway.VerifyWebhookSignature(body, signature, h.webhookSecret) {
			h.logger.Warnf(r.Context(), "delivery.http.Handler.PaymentWebhook: signature mismatch")
			metrics.PaymentWebhooks.WithLabelValues("invalid_signature").Inc()
			h.respondError(w, http.StatusBadRequest, "invalid webhook signature")
			return
		}
	}

	var payload razorpayWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.PaymentWebhooks.WithLabelValues("malformed").Inc()
		h.respondJSON(w, http.StatusOK, map[string]any{"status": "ignored"})
		return
	}

	var status domain.PaymentStatus
	switch payload.Event {
	case "payment.captured", "order.paid":
		status = domain.PaymentStatusSuccess
	case "payment.failed":
		status = domain.PaymentStatusFailed
	default:
		metrics.PaymentWebhooks.WithLabelValues("ignored").Inc()
		h.respondJSON(w, http.StatusOK, map[string]any{"status": "ignored"})
		return
	}

	entity := payload.Payload.Payment.Entity
	if entity.OrderID == "" {
		metrics.PaymentWebhooks.WithLabelValues("malformed").Inc()
		h.respondJSON(w, http.StatusOK, map[string]any{"status": "ignored"})
		return
	}

	_, err = h.paymentSvc.ConfirmPayment(r.Context(), entity.OrderID, entity.ID, status, "")
	switch {
	case err == nil:
		metrics.PaymentWebhooks.WithLabelValues(string(status)).Inc()
	case errors.Is(err, service.ErrPaymentNotFound):
		// An order we never issued (or a stale retry after cleanup). Ack it
		// so the provider stops redelivering.
		metrics.PaymentWebhooks.WithLabelValues("unknown_order").Inc()
	case errors.Is(err, service.ErrBookingExpired):
		// Payment landed after the hold lapsed. The transition was recorded;
		// there is nothing for the provider to retry.
		metrics.PaymentWebhooks.WithLabelValues("expired").Inc()
	default:
		h.logger.Errorf(r.Context(), "delivery.http.Handler.PaymentWebhook: %v", err)
		metrics.PaymentWebhooks.WithLabelValues("error").Inc()
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
