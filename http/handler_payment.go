package http

import (
	"context"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"

	"github.com/Bivekich/delikadessa-backend/entities"
)

type createPaymentRequest struct {
	BookingData entities.Booking `json:"bookingData"`
}

func (h Handler) PostCreatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	logger := log.FromContext(ctx)

	var request createPaymentRequest
	if err := c.Bind(&request); err != nil {
		logger.WithError(err).Error("Invalid create-payment request")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Не удалось создать платеж"})
	}

	payment, err := h.gateway.Create(ctx, request.BookingData)
	if err != nil {
		logger.WithError(err).Error("Payment creation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": errorMessage(err, "Не удалось создать платеж")})
	}

	if h.metrics != nil {
		h.metrics.PaymentsCreated.Inc()
	}

	h.registry.Put(payment.ID, request.BookingData)

	// The poll loop outlives this request, so it must not inherit the
	// request's cancellation.
	h.poller.Start(context.WithoutCancel(ctx), payment.ID, request.BookingData)

	return c.JSON(http.StatusOK, payment)
}

func (h Handler) GetCheckPayment(c echo.Context) error {
	ctx := c.Request().Context()
	paymentID := c.Param("paymentId")
	logger := log.FromContext(ctx).WithField("payment_id", paymentID)

	payment, err := h.gateway.GetByID(ctx, paymentID)
	if err != nil {
		logger.WithError(err).Error("Payment status check failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": errorMessage(err, "Не удалось проверить статус платежа")})
	}

	// Backup notification path: the customer came back to check the
	// payment before either the poll loop or the webhook resolved it.
	if payment.Status == entities.PaymentStatusSucceeded {
		if booking, ok := h.registry.Get(paymentID); ok && h.poller.TryConclude(paymentID) {
			logger.Info("Sending backup notification for successful payment")

			err := h.eventBus.Publish(ctx, entities.BookingPaymentSucceeded{
				Header:    entities.NewEventHeaderWithIdempotencyKey(paymentID),
				PaymentID: paymentID,
				Booking:   booking,
			})
			if err != nil {
				logger.WithError(err).Error("Failed to publish payment succeeded event")
			} else {
				h.registry.Remove(paymentID)
			}
		}
	}

	return c.JSON(http.StatusOK, payment)
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
