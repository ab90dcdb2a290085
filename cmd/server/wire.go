//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"webpush_demo/internal/app"
	"webpush_demo/internal/config"
	"webpush_demo/internal/http"
	"webpush_demo/internal/http/controller"
	"webpush_demo/internal/logging"
	"webpush_demo/internal/metrics"
	"webpush_demo/internal/push"
	"webpush_demo/internal/queue/rabbitmq"
	"webpush_demo/internal/repository"
	"webpush_demo/internal/service/notify"
	"webpush_demo/internal/sse"
	"webpush_demo/internal/store/memory"
)

func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		logging.New,
		push.NewKeys,
		push.NewSender,
		memory.New,
		wire.Bind(new(repository.SubscriptionRepository), new(*memory.Store)),
		sse.NewHub,
		metrics.New,
		notify.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
	)
	return &app.App{}, nil
}
