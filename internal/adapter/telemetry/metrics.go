package telemetry

import (
	"context"
	"errors"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersPlaced        metric.Int64Counter
	orderValue          metric.Int64Histogram
	paymentsSettled     metric.Int64Counter
	settledAmount       metric.Int64Counter
	callbacksRejected   metric.Int64Counter
	notificationsFailed metric.Int64Counter
}

var _ port.Metrics = (*Metrics)(nil)

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersPlaced, err := meter.Int64Counter("orders_placed_total",
		metric.WithDescription("Total orders placed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	orderValue, err := meter.Int64Histogram("order_value_minor",
		metric.WithDescription("Order value in minor currency units"),
		metric.WithUnit("{halala}"),
		metric.WithExplicitBucketBoundaries(1000, 2500, 5000, 10000, 25000, 50000),
	)
	if err != nil {
		return nil, err
	}

	paymentsSettled, err := meter.Int64Counter("payments_settled_total",
		metric.WithDescription("Total charges settled after a verified callback"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	settledAmount, err := meter.Int64Counter("payments_settled_minor_total",
		metric.WithDescription("Settled amount in minor currency units"),
		metric.WithUnit("{halala}"),
	)
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter("callbacks_rejected_total",
		metric.WithDescription("Gateway callbacks rejected by verification"),
		metric.WithUnit("{callback}"),
	)
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter("notifications_failed_total",
		metric.WithDescription("Notifications that could not be delivered"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersPlaced:        ordersPlaced,
		orderValue:          orderValue,
		paymentsSettled:     paymentsSettled,
		settledAmount:       settledAmount,
		callbacksRejected:   rejected,
		notificationsFailed: failed,
	}, nil
}

func (m *Metrics) OrderPlaced(ctx context.Context, amountMinor int64) {
	m.ordersPlaced.Add(ctx, 1)
	m.orderValue.Record(ctx, amountMinor)
}

func (m *Metrics) PaymentSettled(ctx context.Context, kind domain.ChargeKind, amountMinor int64) {
	attrs := metric.WithAttributes(attribute.String("kind", string(kind)))
	m.paymentsSettled.Add(ctx, 1, attrs)
	m.settledAmount.Add(ctx, amountMinor, attrs)
}

func (m *Metrics) CallbackRejected(ctx context.Context, kind domain.ChargeKind, reason error) {
	m.callbacksRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("reason", rejectReason(reason)),
	))
}

func (m *Metrics) NotificationFailed(ctx context.Context, channel string) {
	m.notificationsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
}

// rejectReason keeps the reason attribute low-cardinality.
func rejectReason(err error) string {
	reasons := []struct {
		err  error
		name string
	}{
		{domain.ErrChargeNotFound, "charge_not_found"},
		{domain.ErrChargeMismatch, "charge_mismatch"},
		{domain.ErrStatusMismatch, "status_mismatch"},
		{domain.ErrAmountMismatch, "amount_mismatch"},
		{domain.ErrPaymentNotPaid, "not_paid"},
		{domain.ErrInsufficientBalance, "insufficient_balance"},
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return "other"
}
