// Package eventqueue batches user events in memory and hands them to a
// publisher on a fixed interval, off the request path.
package eventqueue

import (
	"context"
	"errors"
	"time"

	"github.com/patric-chuzhbe/userdir/internal/events"
	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
)

// Enqueuer accepts events for later delivery.
type Enqueuer interface {
	Enqueue(ctx context.Context, event models.UserEvent) error
}

// ErrQueueFull is returned by Enqueue when the event could not be buffered.
var ErrQueueFull = errors.New("user event queue is full")

type Dispatcher struct {
	queue                    chan models.UserEvent
	publisher                events.Publisher
	delayBetweenQueueFetches time.Duration
	publishTimeout           time.Duration
	errorChannel             chan error
	done                     chan struct{}
}

func New(
	publisher events.Publisher,
	channelCapacity int,
	delayBetweenQueueFetches time.Duration,
	publishTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		publisher:                publisher,
		queue:                    make(chan models.UserEvent, channelCapacity),
		delayBetweenQueueFetches: delayBetweenQueueFetches,
		publishTimeout:           publishTimeout,
		errorChannel:             make(chan error, channelCapacity),
		done:                     make(chan struct{}),
	}
}

// ListenErrors calls callback for every failed publish.
func (d *Dispatcher) ListenErrors(callback func(error)) {
	go func() {
		for err := range d.errorChannel {
			callback(err)
		}
	}()
}

// Run starts the delivery loop. When ctx is done the pending batch is
// flushed once and Done is closed.
func (d *Dispatcher) Run(ctx context.Context) {
	go func() {
		defer close(d.done)
		defer close(d.errorChannel)

		ticker := time.NewTicker(d.delayBetweenQueueFetches)
		defer ticker.Stop()

		var batch []models.UserEvent

		for {
			select {
			case event := <-d.queue:
				batch = append(batch, event)
			case <-ticker.C:
				batch = d.flush(ctx, batch)
			case <-ctx.Done():
				batch = append(batch, d.drain()...)
				d.flush(context.WithoutCancel(ctx), batch)
				return
			}
		}
	}()
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Enqueue never waits: when the queue is full the event is dropped and
// ErrQueueFull is returned.
func (d *Dispatcher) Enqueue(ctx context.Context, event models.UserEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case d.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) drain() []models.UserEvent {
	var rest []models.UserEvent
	for {
		select {
		case event := <-d.queue:
			rest = append(rest, event)
		default:
			return rest
		}
	}
}

// flush publishes batch and returns what is left to keep. A failed batch
// is reported and dropped.
func (d *Dispatcher) flush(ctx context.Context, batch []models.UserEvent) []models.UserEvent {
	if len(batch) == 0 {
		return batch
	}

	publishCtx, cancel := context.WithTimeout(ctx, d.publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(publishCtx, batch); err != nil {
		logger.Log.Warnw("dropping user events", "count", len(batch), "error", err)
		select {
		case d.errorChannel <- err:
		default:
		}
		return nil
	}

	logger.Log.Debugf("published %d user events", len(batch))

	return nil
}
