package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
	"github.com/Bivekich/delikadessa-backend/observability"
)

type NotificationSender interface {
	Send(ctx context.Context, notification entities.BookingNotification) error
}

type Handler struct {
	notificationSender NotificationSender
	metrics            *observability.Metrics
}

func NewHandler(notificationSender NotificationSender, metrics *observability.Metrics) Handler {
	if notificationSender == nil {
		panic("missing notificationSender")
	}
	return Handler{
		notificationSender: notificationSender,
		metrics:            metrics,
	}
}

// notify delivers the staff message for one payment outcome. Delivery
// failures are logged and swallowed: a broken Telegram channel must never
// bubble back into the reconciliation flow or trigger handler retries.
func (h Handler) notify(ctx context.Context, paymentID string, booking entities.Booking, statusLabel string) error {
	err := h.notificationSender.Send(ctx, entities.BookingNotification{
		Booking:     booking,
		PaymentID:   paymentID,
		StatusLabel: statusLabel,
	})
	if err != nil {
		log.FromContext(ctx).
			WithField("payment_id", paymentID).
			WithError(err).
			Error("Failed to send staff notification")
		if h.metrics != nil {
			h.metrics.NotificationFailures.Inc()
		}
		return nil
	}

	if h.metrics != nil {
		h.metrics.NotificationsSent.WithLabelValues(statusLabel).Inc()
	}
	return nil
}
