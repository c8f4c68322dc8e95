package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port/mock"
	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	want      int
	done      chan struct{}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	if r.done != nil && len(r.committed) == r.want {
		close(r.done)
		r.done = nil
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func testEvent(t *testing.T) *domain.Event {
	t.Helper()
	ev, err := domain.NewEvent(domain.EventOrderStatusChanged, "test", 7,
		domain.OrderStatusChangedPayload{OrderID: 7, Status: domain.OrderStatusReady}, time.Now())
	require.NoError(t, err)
	return ev
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "trucksy.events")
	ev := testEvent(t)

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "7", string(msg.Key))
	var got domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, domain.EventOrderStatusChanged, got.Type)

	carrier := &headerCarrier{headers: &msg.Headers}
	assert.Equal(t, string(domain.EventOrderStatusChanged), carrier.Get(headerEventType))
	assert.Equal(t, "1", carrier.Get(headerVersion))

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), ev))
}

func TestConsumer_Listen(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	ev := testEvent(t)
	value, err := json.Marshal(ev)
	require.NoError(t, err)

	done := make(chan struct{})
	r := &fakeReader{
		queue: []kafka.Message{
			{Partition: 0, Offset: 1, Value: value},
			{Partition: 1, Offset: 1, Value: []byte("{broken")},
			{Partition: 0, Offset: 2, Value: value},
		},
		want: 3,
		done: done,
	}

	handler := mock.NewMockEventHandler(mockCtrl)
	gomock.InOrder(
		handler.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(nil),
		// offset 2 fails once and is retried
		handler.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(errors.New("redis down")),
		handler.EXPECT().Handle(gomock.Any(), gomock.Any()).Return(nil),
	)

	c := newConsumer(r, "trucksy.events", "notifier", 2, zap.NewNop())
	c.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- c.Listen(ctx, handler) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("messages were not committed")
	}
	cancel()
	require.NoError(t, <-errCh)

	r.mu.Lock()
	defer r.mu.Unlock()
	// the undecodable message is committed too
	assert.Len(t, r.committed, 3)
}
