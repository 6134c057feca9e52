package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"github.com/Bivekich/delikadessa-backend/entities"
)

const signatureHeader = "X-Webhook-Signature"

type webhookPaymentObject struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

type webhookNotification struct {
	Event  string               `json:"event"`
	Object webhookPaymentObject `json:"object"`
}

// PostPaymentWebhook ingests asynchronous status changes from the payment
// gateway. It always acknowledges with 200, even when processing fails,
// so the gateway does not retry-storm the endpoint.
func (h Handler) PostPaymentWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	logger := log.FromContext(ctx)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.WithError(err).Error("Failed to read webhook body")
		return c.NoContent(http.StatusOK)
	}

	if h.webhookSecret != "" && !validSignature(body, c.Request().Header.Get(signatureHeader), h.webhookSecret) {
		logger.Warn("Webhook signature mismatch, dropping event")
		return c.NoContent(http.StatusOK)
	}

	var notification webhookNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		logger.WithError(err).Error("Malformed webhook event")
		return c.NoContent(http.StatusOK)
	}

	if h.metrics != nil {
		h.metrics.WebhookEvents.WithLabelValues(notification.Event).Inc()
	}

	if err := h.processPaymentEvent(ctx, notification); err != nil {
		logger.WithError(err).Error("Failed to process webhook event")
	}

	return c.NoContent(http.StatusOK)
}

func (h Handler) processPaymentEvent(ctx context.Context, notification webhookNotification) error {
	paymentID := notification.Object.ID
	if paymentID == "" {
		return fmt.Errorf("webhook event %q carries no payment id", notification.Event)
	}

	logger := log.FromContext(ctx).WithField("payment_id", paymentID)

	// The registry is the primary source of booking data; payment metadata
	// is the fallback for payments created before the last restart.
	booking, ok := h.registry.Get(paymentID)
	if !ok {
		booking, ok = entities.BookingFromMetadata(notification.Object.Metadata)
	}
	if !ok {
		logger.Warn("No booking data found for payment, dropping webhook event")
		return nil
	}

	switch notification.Event {
	case "payment.succeeded":
		if !h.poller.TryConclude(paymentID) {
			logger.Info("Payment already concluded, skipping duplicate webhook")
			return nil
		}
		h.registry.Remove(paymentID)
		return h.eventBus.Publish(ctx, entities.BookingPaymentSucceeded{
			Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
			PaymentID: paymentID,
			Booking:   booking,
		})

	case "payment.canceled":
		if !h.poller.TryConclude(paymentID) {
			logger.Info("Payment already concluded, skipping duplicate webhook")
			return nil
		}
		h.registry.Remove(paymentID)
		return h.eventBus.Publish(ctx, entities.BookingPaymentCanceled{
			Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
			PaymentID: paymentID,
			Booking:   booking,
		})

	case "payment.waiting_for_capture":
		if h.poller.Concluded(paymentID) {
			logger.Info("Payment already concluded, skipping waiting_for_capture webhook")
			return nil
		}
		// Not a terminal state: stop the poll loop but keep the registry
		// entry, the final succeeded/canceled event is still to come.
		h.poller.Cancel(paymentID)
		return h.eventBus.Publish(ctx, entities.BookingPaymentAwaitingCapture{
			Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
			PaymentID: paymentID,
			Booking:   booking,
		})

	default:
		h.poller.Cancel(paymentID)
		logger.WithField("event", notification.Event).Warn("Unhandled webhook event type")
		return nil
	}
}

func validSignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
