package http_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bivekich/delikadessa-backend/entities"
)

func webhookBody(event, paymentID string) string {
	return fmt.Sprintf(`{"event": %q, "object": {"id": %q, "status": "succeeded"}}`, event, paymentID)
}

func postWebhook(f fixture, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(nethttp.MethodPost, "/api/webhook/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	f := newFixture(t, "")
	f.registry.Put("payment-1", entities.Booking{FirstName: "Иван", Guests: "4"})

	rec := postWebhook(f, webhookBody("payment.succeeded", "payment-1"), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	events := f.pub.Events()
	require.Len(t, events, 1)
	event, ok := events[0].(entities.BookingPaymentSucceeded)
	require.True(t, ok)
	assert.Equal(t, "payment-1", event.PaymentID)
	assert.Equal(t, "Иван", event.Booking.FirstName)

	_, ok = f.registry.Get("payment-1")
	assert.False(t, ok)
	assert.True(t, f.poller.Concluded("payment-1"))
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	f := newFixture(t, "")
	f.registry.Put("payment-1", entities.Booking{FirstName: "Иван", Guests: "4"})

	require.Equal(t, nethttp.StatusOK, postWebhook(f, webhookBody("payment.succeeded", "payment-1"), nil).Code)
	require.Equal(t, nethttp.StatusOK, postWebhook(f, webhookBody("payment.succeeded", "payment-1"), nil).Code)

	assert.Len(t, f.pub.Events(), 1, "a redelivered webhook must not notify twice")
}

func TestWebhookPaymentCanceled(t *testing.T) {
	f := newFixture(t, "")
	f.registry.Put("payment-1", entities.Booking{FirstName: "Иван", Guests: "4"})

	rec := postWebhook(f, webhookBody("payment.canceled", "payment-1"), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	events := f.pub.Events()
	require.Len(t, events, 1)
	_, ok := events[0].(entities.BookingPaymentCanceled)
	assert.True(t, ok)

	_, ok = f.registry.Get("payment-1")
	assert.False(t, ok)
}

func TestWebhookWaitingForCapture(t *testing.T) {
	f := newFixture(t, "")
	booking := entities.Booking{FirstName: "Иван", Guests: "4"}
	f.registry.Put("payment-1", booking)
	require.True(t, f.poller.Start(context.Background(), "payment-1", booking))

	rec := postWebhook(f, webhookBody("payment.waiting_for_capture", "payment-1"), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	events := f.pub.Events()
	require.Len(t, events, 1)
	_, ok := events[0].(entities.BookingPaymentAwaitingCapture)
	assert.True(t, ok)

	// not a terminal state: the booking stays, only the poll loop stops
	_, ok = f.registry.Get("payment-1")
	assert.True(t, ok)
	assert.False(t, f.poller.Active("payment-1"))
	assert.False(t, f.poller.Concluded("payment-1"))
}

func TestWebhookMetadataFallback(t *testing.T) {
	f := newFixture(t, "")

	// no registry entry: the payment was created before the last restart
	body := `{
		"event": "payment.succeeded",
		"object": {
			"id": "payment-1",
			"status": "succeeded",
			"metadata": {
				"firstName": "Анна",
				"lastName": "Смирнова",
				"customer_email": "anna@example.com",
				"customer_phone": "+79991112233",
				"booking_date": "2024-06-02",
				"booking_time": "18:30",
				"guests": "2"
			}
		}
	}`
	rec := postWebhook(f, body, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	events := f.pub.Events()
	require.Len(t, events, 1)
	event, ok := events[0].(entities.BookingPaymentSucceeded)
	require.True(t, ok)
	assert.Equal(t, "Анна", event.Booking.FirstName)
	assert.Equal(t, "2", event.Booking.Guests)
}

func TestWebhookUnknownPaymentDropped(t *testing.T) {
	f := newFixture(t, "")

	rec := postWebhook(f, webhookBody("payment.succeeded", "payment-unknown"), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	assert.Empty(t, f.pub.Events())
	assert.False(t, f.poller.Concluded("payment-unknown"))
}

func TestWebhookMalformedBody(t *testing.T) {
	f := newFixture(t, "")

	rec := postWebhook(f, `{"event": "payment.succeeded"`, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code, "the gateway must always get a 200 back")
	assert.Empty(t, f.pub.Events())
}

func TestWebhookUnknownEventType(t *testing.T) {
	f := newFixture(t, "")
	booking := entities.Booking{FirstName: "Иван", Guests: "4"}
	f.registry.Put("payment-1", booking)
	require.True(t, f.poller.Start(context.Background(), "payment-1", booking))

	rec := postWebhook(f, webhookBody("refund.succeeded", "payment-1"), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	assert.Empty(t, f.pub.Events())
	assert.False(t, f.poller.Active("payment-1"), "unknown events still stop the poll loop")
}

func TestWebhookSignatureMismatch(t *testing.T) {
	f := newFixture(t, "test-secret")
	f.registry.Put("payment-1", entities.Booking{FirstName: "Иван", Guests: "4"})

	rec := postWebhook(f, webhookBody("payment.succeeded", "payment-1"), map[string]string{
		"X-Webhook-Signature": "deadbeef",
	})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	assert.Empty(t, f.pub.Events(), "events with a bad signature must be dropped")
	_, ok := f.registry.Get("payment-1")
	assert.True(t, ok)
}

func TestWebhookValidSignature(t *testing.T) {
	f := newFixture(t, "test-secret")
	f.registry.Put("payment-1", entities.Booking{FirstName: "Иван", Guests: "4"})

	body := webhookBody("payment.succeeded", "payment-1")
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte(body))

	rec := postWebhook(f, body, map[string]string{
		"X-Webhook-Signature": hex.EncodeToString(mac.Sum(nil)),
	})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	assert.Len(t, f.pub.Events(), 1)
}
