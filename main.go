package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"github.com/Bivekich/delikadessa-backend/api"
	"github.com/Bivekich/delikadessa-backend/config"
	"github.com/Bivekich/delikadessa-backend/observability"
	"github.com/Bivekich/delikadessa-backend/service"
)

func main() {
	log.Init(logrus.InfoLevel)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	tp := observability.ConfigureTraceProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	gateway := api.NewYooKassaClient(cfg.ShopID, cfg.SecretKey, cfg.FrontendURL)
	notifier := api.NewTelegramClient(cfg.TelegramBotToken, cfg.TelegramChatID)
	metrics := observability.NewMetrics()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logrus.WithField("port", cfg.Port).Info("Server starting...")

	svc := service.New(cfg, gateway, notifier, metrics)
	if err := svc.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("Service stopped with error")
	}
}
