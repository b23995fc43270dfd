package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/samandr77/microservices/condo/internal/api/events"
	"github.com/samandr77/microservices/condo/internal/clients/gomail"
	"github.com/samandr77/microservices/condo/internal/service"
	"github.com/samandr77/microservices/condo/pkg/broker"
	"github.com/samandr77/microservices/condo/pkg/config"
	"github.com/samandr77/microservices/condo/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.NewNotifier(".env")
	panicOnErr("create config", err)

	l, err := logger.New("condo-notifier", cfg.Logger.Level)
	panicOnErr("create logger", err)

	gomailClient := gomail.New(cfg.Mailer)
	notifier := service.NewNotifier(gomailClient, cfg.Mailer.AlertRecipients)

	// Kafka consumers
	consumer := broker.NewConsumer(l, cfg.Kafka.Brokers, cfg.Kafka.ConsumerID, cfg.Kafka.EventsTopic)
	defer consumer.Close()

	eventHandler := events.NewEventHandler(notifier)

	consumer.Handle(cfg.Kafka.EventsTopic, eventHandler.OnCondoEvent)
	consumer.Consume(ctx)

	l.Info("notifier started", "topic", cfg.Kafka.EventsTopic)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	sig := <-ch

	l.Info("got OS signal", "signal", sig.String())

	cancel()
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
