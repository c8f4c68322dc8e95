package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const handleAttempts = 3

// messageReader is the part of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader  messageReader
	topic   string
	groupID string
	workers int
	backoff time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func NewConsumer(brokers []string, topic, groupID string, workers int, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
		// offsets are committed explicitly after the handler succeeded
		CommitInterval: 0,
	})
	return newConsumer(reader, topic, groupID, workers, logger)
}

func newConsumer(r messageReader, topic, groupID string, workers int, logger *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		reader:  r,
		topic:   topic,
		groupID: groupID,
		workers: workers,
		backoff: 200 * time.Millisecond,
		tracer:  otel.Tracer("trucksy/kafka/consumer"),
		logger:  logger,
	}
}

// Listen feeds events to the handler until ctx is cancelled. Messages of one
// partition always go to the same worker, so offsets are committed in order.
func (c *Consumer) Listen(ctx context.Context, handler port.EventHandler) error {
	defer func() { _ = c.reader.Close() }()

	jobs := make([]chan kafka.Message, c.workers)
	wg := sync.WaitGroup{}
	for i := range jobs {
		jobs[i] = make(chan kafka.Message, 64)
		wg.Add(1)
		go func(in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				c.process(ctx, handler, m)
			}
		}(jobs[i])
	}
	stop := func() {
		for _, ch := range jobs {
			close(ch)
		}
		wg.Wait()
	}

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			stop()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		select {
		case jobs[m.Partition%c.workers] <- m:
		case <-ctx.Done():
			stop()
			return nil
		}
	}
}

func (c *Consumer) process(ctx context.Context, handler port.EventHandler, m kafka.Message) {
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, &headerCarrier{headers: &m.Headers})
	msgCtx, span := c.tracer.Start(msgCtx, fmt.Sprintf("receive %s", c.topic),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingDestinationName(c.topic),
			attribute.Int("messaging.kafka.partition", m.Partition),
			attribute.Int64("messaging.kafka.offset", m.Offset),
			attribute.String("messaging.kafka.consumer.group", c.groupID),
		),
	)
	defer span.End()

	log := c.logger.With(zap.Int("partition", m.Partition), zap.Int64("offset", m.Offset))

	var event domain.Event
	if err := json.Unmarshal(m.Value, &event); err != nil {
		// poison message: commit and move on
		log.Error("undecodable event", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "undecodable event")
		c.commit(ctx, m, log)
		return
	}

	var err error
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = handler.Handle(msgCtx, &event); err == nil {
			break
		}
		log.Warn("event handler failed",
			zap.String("event", event.ID), zap.Int("attempt", attempt), zap.Error(err))
		if attempt < handleAttempts {
			select {
			case <-time.After(c.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return
			}
		}
	}
	if err != nil {
		log.Error("event dropped", zap.String("event", event.ID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	c.commit(ctx, m, log)
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message, log *zap.Logger) {
	if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
		log.Error("failed to commit offset", zap.Error(err))
	}
}
