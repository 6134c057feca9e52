package service

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Bivekich/delikadessa-backend/config"
	"github.com/Bivekich/delikadessa-backend/entities"
	delikadessaHttp "github.com/Bivekich/delikadessa-backend/http"
	"github.com/Bivekich/delikadessa-backend/message"
	"github.com/Bivekich/delikadessa-backend/message/event"
	"github.com/Bivekich/delikadessa-backend/observability"
	"github.com/Bivekich/delikadessa-backend/poller"
	"github.com/Bivekich/delikadessa-backend/registry"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type PaymentsGateway interface {
	Create(ctx context.Context, booking entities.Booking) (entities.Payment, error)
	GetByID(ctx context.Context, paymentID string) (entities.Payment, error)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	port            string

	bookingRegistry *registry.BookingRegistry
	paymentPoller   *poller.Poller
}

func New(
	cfg config.Config,
	gateway PaymentsGateway,
	notificationSender event.NotificationSender,
	metrics *observability.Metrics,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	pubSub := message.NewPubSub(watermillLogger)

	var publisher watermillMessage.Publisher = pubSub
	publisher = log.CorrelationPublisherDecorator{Publisher: publisher}

	eventBus := event.NewBus(publisher)

	bookingRegistry := registry.NewBookingRegistry()
	paymentPoller := poller.New(gateway, bookingRegistry, eventBus, metrics, poller.Config{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.MaxPollAttempts,
	})

	eventsHandler := event.NewHandler(notificationSender, metrics)
	eventProcessorConfig := event.NewProcessorConfig(pubSub, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)

	echoRouter := delikadessaHttp.NewHttpRouter(
		gateway,
		bookingRegistry,
		paymentPoller,
		eventBus,
		metrics,
		cfg.WebhookSecret,
	)

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		port:            cfg.Port,

		bookingRegistry: bookingRegistry,
		paymentPoller:   paymentPoller,
	}
}

func (s Service) Run(ctx context.Context) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// don't accept requests before the event handlers are subscribed,
		// outcome events published earlier would be lost
		<-s.watermillRouter.Running()

		return s.echoRouter.Start(":" + s.port)
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
