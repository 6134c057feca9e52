package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"github.com/Bivekich/delikadessa-backend/entities"
)

func (h Handler) NotifyPaymentOverdue(ctx context.Context, event *entities.BookingPaymentOverdue) error {
	log.FromContext(ctx).WithField("payment_id", event.PaymentID).Info("Notifying staff about payment pending for over 24 hours")

	return h.notify(ctx, event.PaymentID, event.Booking, entities.StatusLabelOverdue)
}
