package http

import (
	"context"

	"github.com/Bivekich/delikadessa-backend/entities"
	"github.com/Bivekich/delikadessa-backend/observability"
	"github.com/Bivekich/delikadessa-backend/registry"
)

type PaymentsGateway interface {
	Create(ctx context.Context, booking entities.Booking) (entities.Payment, error)
	GetByID(ctx context.Context, paymentID string) (entities.Payment, error)
}

type PollScheduler interface {
	Start(ctx context.Context, paymentID string, booking entities.Booking) bool
	Cancel(paymentID string) bool
	TryConclude(paymentID string) bool
	Concluded(paymentID string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Handler struct {
	gateway       PaymentsGateway
	registry      *registry.BookingRegistry
	poller        PollScheduler
	eventBus      EventPublisher
	metrics       *observability.Metrics
	webhookSecret string
}
