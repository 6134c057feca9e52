package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
)

func (h Handler) NotifyPaymentCanceled(ctx context.Context, event *entities.BookingPaymentCanceled) error {
	log.FromContext(ctx).WithField("payment_id", event.PaymentID).Info("Notifying staff about canceled payment")

	return h.notify(ctx, event.PaymentID, event.Booking, entities.StatusLabelCanceled)
}
