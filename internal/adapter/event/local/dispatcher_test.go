package local

import (
	"context"
	"testing"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ev, err := domain.NewEvent(domain.EventOrderPaid, "test", 1, domain.OrderPaidPayload{OrderID: 1}, time.Now())
	require.NoError(t, err)

	handler := mock.NewMockEventHandler(mockCtrl)
	handler.EXPECT().Handle(gomock.Any(), ev).Times(2).Return(nil)

	d := NewDispatcher(handler, 2, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	// queue before the worker runs so the buffer limit is observable
	require.NoError(t, d.Publish(ctx, ev))
	require.NoError(t, d.Publish(ctx, ev))
	assert.ErrorIs(t, d.Publish(ctx, ev), ErrQueueFull)

	d.Start(ctx)
	cancel()
	d.Close()

	assert.ErrorIs(t, d.Publish(context.Background(), ev), ErrClosed)
}
