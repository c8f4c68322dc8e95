package telemetry

import (
	"context"
	"fmt"
	"testing"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	res := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			res[m.Name] = m.Data
		}
	}
	return res
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.OrderPlaced(ctx, 4500)
	m.PaymentSettled(ctx, domain.ChargeKindOrder, 4500)
	m.PaymentSettled(ctx, domain.ChargeKindSubscription, 3000)
	m.CallbackRejected(ctx, domain.ChargeKindOrder, domain.ErrAmountMismatch)
	m.NotificationFailed(ctx, "whatsapp")

	data := collect(t, reader)

	placed, ok := data["orders_placed_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, placed.DataPoints, 1)
	assert.Equal(t, int64(1), placed.DataPoints[0].Value)

	settled, ok := data["payments_settled_minor_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, settled.DataPoints, 2)
	var total int64
	for _, dp := range settled.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(7500), total)

	rejected, ok := data["callbacks_rejected_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rejected.DataPoints, 1)
	reason, ok := rejected.DataPoints[0].Attributes.Value(attribute.Key("reason"))
	require.True(t, ok)
	assert.Equal(t, "amount_mismatch", reason.AsString())
}

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "charge_mismatch", rejectReason(fmt.Errorf("wrapped: %w", domain.ErrChargeMismatch)))
	assert.Equal(t, "other", rejectReason(domain.ErrInternal))
}
