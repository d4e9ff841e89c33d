package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-show-booking/internal/queue"
)

// ErrEventBufferFull is returned when the async publisher cannot accept
// another event without blocking.
var ErrEventBufferFull = errors.New("event buffer full")

// DefaultPublishTimeout bounds each delivery attempt made by AsyncPublisher.
const DefaultPublishTimeout = 5 * time.Second

// AsyncPublisher decouples booking submissions from the broker.  Events
// are queued in a bounded buffer and delivered by Run on its own
// goroutine; when the buffer is full new events are dropped.
type AsyncPublisher struct {
	next    EventPublisher
	events  chan queue.BookingConfirmedEvent
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewAsyncPublisher wraps next with a buffer of the given size.
func NewAsyncPublisher(next EventPublisher, buffer int, timeout time.Duration, log logrus.FieldLogger) *AsyncPublisher {
	if next == nil {
		panic("nil publisher passed to NewAsyncPublisher")
	}
	if buffer < 1 {
		buffer = 1
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AsyncPublisher{
		next:    next,
		events:  make(chan queue.BookingConfirmedEvent, buffer),
		timeout: timeout,
		log:     log.WithField("component", "events"),
	}
}

// PublishBookingConfirmed queues ev without blocking.
func (p *AsyncPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrEventBufferFull
	}
}

// Pending reports how many events wait for delivery.
func (p *AsyncPublisher) Pending() int { return len(p.events) }

// Run delivers queued events until ctx is done, then makes one bounded
// attempt at whatever is still buffered.
func (p *AsyncPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return
		case ev := <-p.events:
			p.deliver(context.Background(), ev)
		}
	}
}

func (p *AsyncPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	for {
		select {
		case ev := <-p.events:
			if ctx.Err() != nil {
				p.log.WithField("ref", ev.Ref).Warn("dropping booking.confirmed on shutdown")
				continue
			}
			p.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (p *AsyncPublisher) deliver(parent context.Context, ev queue.BookingConfirmedEvent) {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()
	if err := p.next.PublishBookingConfirmed(ctx, ev); err != nil {
		p.log.WithError(err).WithField("ref", ev.Ref).Warn("publish booking.confirmed failed")
	}
}
