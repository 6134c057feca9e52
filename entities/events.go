package entities

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// Payment status labels as they appear in the staff notification.
const (
	StatusLabelPaid            = "Оплачено"
	StatusLabelCanceled        = "Отменено"
	StatusLabelAwaitingCapture = "Ожидает подтверждения"
	StatusLabelOverdue         = "Ожидает оплаты более 24 часов"
	StatusLabelCheckFailed     = "Ошибка проверки статуса после 24 часов"
)

type BookingPaymentSucceeded struct {
	Header EventHeader `json:"header"`

	PaymentID string  `json:"payment_id"`
	Booking   Booking `json:"booking"`
}

type BookingPaymentCanceled struct {
	Header EventHeader `json:"header"`

	PaymentID string  `json:"payment_id"`
	Booking   Booking `json:"booking"`
}

type BookingPaymentAwaitingCapture struct {
	Header EventHeader `json:"header"`

	PaymentID string  `json:"payment_id"`
	Booking   Booking `json:"booking"`
}

// BookingPaymentOverdue is published when a payment stayed pending for the
// whole polling horizon (~24h, the gateway's authorization hold window).
type BookingPaymentOverdue struct {
	Header EventHeader `json:"header"`

	PaymentID string  `json:"payment_id"`
	Booking   Booking `json:"booking"`
}

// BookingPaymentCheckFailed is published when status checks kept failing
// until the polling budget ran out.
type BookingPaymentCheckFailed struct {
	Header EventHeader `json:"header"`

	PaymentID string  `json:"payment_id"`
	Booking   Booking `json:"booking"`
}

// BookingNotification is what the notification sink delivers to staff.
type BookingNotification struct {
	Booking     Booking
	PaymentID   string
	StatusLabel string
}
