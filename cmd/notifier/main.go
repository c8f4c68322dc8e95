package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MikeRez0/trucksy/internal/adapter/cache/redis"
	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/adapter/event/kafka"
	"github.com/MikeRez0/trucksy/internal/adapter/invoice/pdf"
	"github.com/MikeRez0/trucksy/internal/adapter/logger"
	"github.com/MikeRez0/trucksy/internal/adapter/notify/mail"
	"github.com/MikeRez0/trucksy/internal/adapter/notify/whatsapp"
	"github.com/MikeRez0/trucksy/internal/adapter/telemetry"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/MikeRez0/trucksy/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notifier: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if len(conf.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is empty")
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf.Telemetry.ServiceName += "-notifier"
	tel, err := telemetry.Setup(ctx, conf.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = tel.Shutdown(context.Background()) }()
	log = tel.Logger(log)
	metrics := tel.Metrics

	// kafka delivers at least once, redis keeps the duplicates out
	var dedup port.Deduplicator
	if conf.Redis.Addr != "" {
		d := redis.NewDeduplicator(redis.New(conf.Redis.Addr), conf.Redis.DedupTTL)
		if err := d.Ping(ctx); err != nil {
			log.Warn("redis is unreachable, duplicates may be delivered", zap.Error(err))
		}
		dedup = d
	} else {
		log.Warn("REDIS_ADDR is empty, duplicates may be delivered")
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

	consumer := kafka.NewConsumer(conf.Kafka.Brokers, conf.Kafka.Topic, conf.Kafka.GroupID,
		conf.Kafka.Workers, log.Named("Consumer"))

	log.Info("notifier started",
		zap.Strings("brokers", conf.Kafka.Brokers), zap.String("topic", conf.Kafka.Topic))
	if err := consumer.Listen(ctx, notifier); err != nil {
		return err
	}
	log.Info("notifier stopped")
	return nil
}
