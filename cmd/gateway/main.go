package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samandr77/microservices/condo/internal/api"
	"github.com/samandr77/microservices/condo/internal/clients/backend"
	"github.com/samandr77/microservices/condo/internal/repository"
	"github.com/samandr77/microservices/condo/internal/service"
	"github.com/samandr77/microservices/condo/pkg/broker"
	"github.com/samandr77/microservices/condo/pkg/config"
	"github.com/samandr77/microservices/condo/pkg/job"
	"github.com/samandr77/microservices/condo/pkg/logger"
	"github.com/samandr77/microservices/condo/pkg/postgres"
	"github.com/samandr77/microservices/condo/pkg/security"
)

const (
	readHeaderTimeout = 5 * time.Second
	// Uploads of a full-size image over a slow link need more than the usual budget.
	readTimeout     = 60 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

//nolint:funlen
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l, err := logger.New("condo-gateway", cfg.Logger.Level)
	panicOnErr("create logger", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConn)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	err = postgres.UpMigrations(cfg.Postgres.DSN)
	panicOnErr("up migrations", err)

	repo := repository.New(pool)
	backendClient := backend.NewClient(cfg.Backend)

	var events service.EventPublisher = broker.NopProducer{}

	if len(cfg.Kafka.Brokers) != 0 {
		producer := broker.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer producer.Close()

		events = producer
	} else {
		l.Warn("KAFKA_BROKERS is empty, owner change events are not published")
	}

	s := service.New(cfg, backendClient, repo, events, security.NewSessionParser(cfg.JWT.Secret), service.NewSessions())

	jobs := job.NewService(l).
		RegisterJob("evict_staged_images", cfg.Faces.EvictionInterval, func(ctx context.Context) error {
			_, err := s.EvictExpired(ctx)
			return err
		})
	jobs.Start(ctx)

	handler := api.NewHandler(s, cfg.Faces.MaxImageSize)
	mw := api.NewMiddleware(s, security.NewAPIKey(cfg.HTTP.InternalAPIKeyHash))

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		slog.InfoContext(ctx, "http server started", "port", cfg.HTTP.Port)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}

		slog.DebugContext(ctx, "http server stopped")
	}()

	waitSignal(cancel, server)

	jobs.Stop()
	wg.Wait()
}

func waitSignal(cancel context.CancelFunc, server *http.Server) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-ch

	slog.Info("got OS signal", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		slog.ErrorContext(shutdownCtx, "server shutdown", "error", err)
	}
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
