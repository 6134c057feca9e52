package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
)

func (h Handler) NotifyCheckFailed(ctx context.Context, event *entities.BookingPaymentCheckFailed) error {
	log.FromContext(ctx).WithField("payment_id", event.PaymentID).Info("Notifying staff about failing status checks")

	return h.notify(ctx, event.PaymentID, event.Booking, entities.StatusLabelCheckFailed)
}
