package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-show-booking/internal/queue"
)

// chanPublisher forwards delivered events to a channel and optionally
// blocks until release is closed.
type chanPublisher struct {
	got     chan queue.BookingConfirmedEvent
	release chan struct{}
	err     error
}

func newChanPublisher() *chanPublisher {
	return &chanPublisher{got: make(chan queue.BookingConfirmedEvent, 16)}
}

func (p *chanPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.got <- ev
	return p.err
}

// runAsync runs p until the test ends.
func runAsync(t *testing.T, p *AsyncPublisher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestAsyncPublisher_DeliversInOrder(t *testing.T) {
	next := newChanPublisher()
	p := NewAsyncPublisher(next, 8, time.Second, quietLogger())
	runAsync(t, p)

	for _, ref := range []string{"BK-1", "BK-2", "BK-3"} {
		require.NoError(t, p.PublishBookingConfirmed(context.Background(), testEvent(ref)))
	}
	for _, want := range []string{"BK-1", "BK-2", "BK-3"} {
		select {
		case ev := <-next.got:
			assert.Equal(t, want, ev.Ref)
		case <-time.After(2 * time.Second):
			t.Fatalf("event %s not delivered", want)
		}
	}
}

func TestAsyncPublisher_FullBufferDoesNotBlock(t *testing.T) {
	next := newChanPublisher()
	p := NewAsyncPublisher(next, 1, time.Second, quietLogger())

	// not running: the buffer fills up
	require.NoError(t, p.PublishBookingConfirmed(context.Background(), testEvent("BK-1")))
	assert.Equal(t, 1, p.Pending())

	err := p.PublishBookingConfirmed(context.Background(), testEvent("BK-2"))
	assert.ErrorIs(t, err, ErrEventBufferFull)
}

func TestAsyncPublisher_DrainsOnShutdown(t *testing.T) {
	next := newChanPublisher()
	p := NewAsyncPublisher(next, 4, time.Second, quietLogger())
	require.NoError(t, p.PublishBookingConfirmed(context.Background(), testEvent("BK-1")))
	require.NoError(t, p.PublishBookingConfirmed(context.Background(), testEvent("BK-2")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	assert.Equal(t, 0, p.Pending())
	assert.Len(t, next.got, 2)
}

func TestAsyncPublisher_DeliveryTimeout(t *testing.T) {
	next := newChanPublisher()
	next.release = make(chan struct{}) // never closed
	p := NewAsyncPublisher(next, 1, 50*time.Millisecond, quietLogger())

	start := time.Now()
	p.deliver(context.Background(), testEvent("BK-1"))
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, next.got)
}

func TestAsyncPublisher_NilNextPanics(t *testing.T) {
	assert.Panics(t, func() { NewAsyncPublisher(nil, 1, time.Second, nil) })
}

func TestBookingService_SubmitNotBlockedBySilentBroker(t *testing.T) {
	amqpPub := NewAMQPPublisher(silentBroker(t), "", quietLogger())
	async := NewAsyncPublisher(amqpPub, 4, 200*time.Millisecond, quietLogger())
	runAsync(t, async)
	svc, ledger := newTestService(async)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	b, err := svc.Submit(ctx, 1, validForm())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.NoError(t, ctx.Err(), "submit returned before its deadline")
	assert.Equal(t, 500, b.Total)
	assert.Equal(t, 1, ledger.Len())
}

func TestBookingService_FullEventBufferKeepsBooking(t *testing.T) {
	async := NewAsyncPublisher(newChanPublisher(), 1, time.Second, quietLogger())
	require.NoError(t, async.PublishBookingConfirmed(context.Background(), testEvent("BK-0")))
	svc, ledger := newTestService(async)

	_, err := svc.Submit(context.Background(), 1, validForm())
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.Len())
	assert.Equal(t, 1, async.Pending(), "dropped event leaves the buffer unchanged")
}
