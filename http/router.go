package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Bivekich/delikadessa-backend/observability"
	"github.com/Bivekich/delikadessa-backend/registry"
)

func NewHttpRouter(
	gateway PaymentsGateway,
	bookingRegistry *registry.BookingRegistry,
	poller PollScheduler,
	eventBus EventPublisher,
	metrics *observability.Metrics,
	webhookSecret string,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.Use(otelecho.Middleware("delikadessa-backend"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	handler := Handler{
		gateway:       gateway,
		registry:      bookingRegistry,
		poller:        poller,
		eventBus:      eventBus,
		metrics:       metrics,
		webhookSecret: webhookSecret,
	}

	e.POST("/api/create-payment", handler.PostCreatePayment)
	e.GET("/api/check-payment/:paymentId", handler.GetCheckPayment)
	e.POST("/api/webhook/payment", handler.PostPaymentWebhook)

	return e
}
