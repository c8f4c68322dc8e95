package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeRez0/trucksy/internal/adapter/auth"
	"github.com/MikeRez0/trucksy/internal/adapter/cache/redis"
	"github.com/MikeRez0/trucksy/internal/adapter/client/moyasar"
	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/adapter/event/kafka"
	"github.com/MikeRez0/trucksy/internal/adapter/event/local"
	"github.com/MikeRez0/trucksy/internal/adapter/handler/http"
	"github.com/MikeRez0/trucksy/internal/adapter/invoice/pdf"
	"github.com/MikeRez0/trucksy/internal/adapter/logger"
	"github.com/MikeRez0/trucksy/internal/adapter/notify/mail"
	"github.com/MikeRez0/trucksy/internal/adapter/notify/whatsapp"
	"github.com/MikeRez0/trucksy/internal/adapter/storage"
	"github.com/MikeRez0/trucksy/internal/adapter/storage/memory"
	"github.com/MikeRez0/trucksy/internal/adapter/storage/repository"
	"github.com/MikeRez0/trucksy/internal/adapter/telemetry"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/MikeRez0/trucksy/internal/core/service"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trucksy: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, conf.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = tel.Shutdown(context.Background()) }()
	log = tel.Logger(log)
	metrics := tel.Metrics

	deps := make(map[string]http.Pinger)

	var repo port.Repository
	if conf.Database.DSN != "" {
		db, err := storage.NewDBStorage(ctx, conf.Database)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		defer db.Close()
		if err := db.RunMigrations(); err != nil {
			return fmt.Errorf("database migration error: %w", err)
		}
		repo, err = repository.NewRepository(db)
		if err != nil {
			return fmt.Errorf("repository creating error: %w", err)
		}
		deps["postgres"] = db
	} else {
		log.Warn("DATABASE_URI is empty, using the in-memory store")
		repo = memory.New()
	}

	tokenService, err := auth.New(conf.Auth)
	if err != nil {
		return fmt.Errorf("token service creating error: %w", err)
	}

	gateway, err := moyasar.NewClient(conf.Gateway, log.Named("Gateway"))
	if err != nil {
		return fmt.Errorf("gateway client creating error: %w", err)
	}

	var publisher port.EventPublisher
	if len(conf.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(conf.Kafka.Brokers, conf.Kafka.Topic)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		// no broker: notify from this process
		var dedup port.Deduplicator
		if conf.Redis.Addr != "" {
			d := redis.NewDeduplicator(redis.New(conf.Redis.Addr), conf.Redis.DedupTTL)
			deps["redis"] = d
			dedup = d
		}
		notifier, err := service.NewNotifier(
			whatsapp.NewClient(conf.WhatsApp, log.Named("WhatsApp")),
			mail.NewMailer(conf.Mail, log.Named("Mail")),
			pdf.NewRenderer(),
			dedup,
			metrics,
			log.Named("Notifier"),
		)
		if err != nil {
			return fmt.Errorf("notifier creating error: %w", err)
		}
		dispatcher := local.NewDispatcher(notifier, 256, log.Named("Dispatcher"))
		dispatcher.Start(ctx)
		defer dispatcher.Close()
		publisher = dispatcher
	}

	fee, err := decimal.Parse(conf.Billing.SubscriptionFee)
	if err != nil {
		return fmt.Errorf("bad subscription fee %q: %w", conf.Billing.SubscriptionFee, err)
	}
	svc, err := service.NewService(repo, gateway, publisher, service.Billing{
		Currency:        conf.Gateway.Currency,
		SubscriptionFee: fee,
		CallbackBaseURL: conf.HTTP.PublicURL,
	}, log.Named("Service"), service.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("service creating error: %w", err)
	}

	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		return fmt.Errorf("order handler creating error: %w", err)
	}
	subscriptionHandler, err := http.NewSubscriptionHandler(svc, log.Named("Subscription handler"))
	if err != nil {
		return fmt.Errorf("subscription handler creating error: %w", err)
	}

	r, err := http.NewRouter(conf.HTTP, log.Named("Router"), tokenService, orderHandler, subscriptionHandler, deps)
	if err != nil {
		return fmt.Errorf("router creating error: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- r.Serve() }()
	log.Info("trucksy started", zap.String("address", conf.HTTP.HostString))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("router serve error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("trucksy stopped")
	return nil
}
