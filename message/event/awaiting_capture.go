package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
)

func (h Handler) NotifyAwaitingCapture(ctx context.Context, event *entities.BookingPaymentAwaitingCapture) error {
	log.FromContext(ctx).WithField("payment_id", event.PaymentID).Info("Notifying staff about payment awaiting capture")

	return h.notify(ctx, event.PaymentID, event.Booking, entities.StatusLabelAwaitingCapture)
}
