// Package local delivers events to an in-process handler when no broker is configured.
package local

import (
	"context"
	"errors"
	"sync"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("event queue is full")
var ErrClosed = errors.New("dispatcher is closed")

type Dispatcher struct {
	handler port.EventHandler
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	inbox  chan *domain.Event
	done   chan struct{}
}

var _ port.EventPublisher = (*Dispatcher)(nil)

func NewDispatcher(handler port.EventHandler, buf int, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		logger:  logger,
		inbox:   make(chan *domain.Event, buf),
		done:    make(chan struct{}),
	}
}

// Start drains the queue in the background. Queued events are still delivered
// after ctx is cancelled, until Close is called.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for ev := range d.inbox {
			if err := d.handler.Handle(context.WithoutCancel(ctx), ev); err != nil {
				d.logger.Error("event handler failed",
					zap.String("event", ev.ID), zap.String("type", string(ev.Type)), zap.Error(err))
			}
		}
	}()
}

// Publish never blocks the caller: a full queue drops the event.
func (d *Dispatcher) Publish(_ context.Context, event *domain.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.inbox <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.inbox)
	}
	d.mu.Unlock()
	<-d.done
}
