package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
)

func (h Handler) NotifyPaymentSucceeded(ctx context.Context, event *entities.BookingPaymentSucceeded) error {
	log.FromContext(ctx).WithField("payment_id", event.PaymentID).Info("Notifying staff about paid booking")

	return h.notify(ctx, event.PaymentID, event.Booking, entities.StatusLabelPaid)
}
