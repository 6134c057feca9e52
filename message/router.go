package message

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Bivekich/delikadessa-backend/message/event"
)

func NewWatermillRouter(
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, watermillLogger)

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"NotifyPaymentSucceeded",
			eventHandler.NotifyPaymentSucceeded,
		),
		cqrs.NewEventHandler(
			"NotifyPaymentCanceled",
			eventHandler.NotifyPaymentCanceled,
		),
		cqrs.NewEventHandler(
			"NotifyAwaitingCapture",
			eventHandler.NotifyAwaitingCapture,
		),
		cqrs.NewEventHandler(
			"NotifyPaymentOverdue",
			eventHandler.NotifyPaymentOverdue,
		),
		cqrs.NewEventHandler(
			"NotifyCheckFailed",
			eventHandler.NotifyCheckFailed,
		),
	)
	if err != nil {
		panic(err)
	}

	return router
}
