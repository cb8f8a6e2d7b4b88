package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Dispatcher hands events to a Publisher off the request path. Failures are
// logged and never reach the caller.
type Dispatcher struct {
	pub   Publisher
	queue chan Event
	done  chan struct{}
}

func NewDispatcher(pub Publisher) *Dispatcher {
	d := &Dispatcher{
		pub:   pub,
		queue: make(chan Event, 256),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.pub.Publish(ctx, ev.Type, ev); err != nil {
			zap.L().Warn("notification publish failed",
				zap.String("type", ev.Type),
				zap.Uint("service_id", ev.ServiceID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Dispatch never blocks; a full queue drops the event. A nil dispatcher
// discards everything.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		zap.L().Warn("notification queue full, dropping event", zap.String("type", ev.Type))
	}
}

// Close drains queued events, then closes the publisher.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	close(d.queue)
	<-d.done
	d.pub.Close()
}
