package service

import (
	"context"
	"encoding/json"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-show-booking/internal/queue"
)

// DefaultDialTimeout bounds the TCP connect and AMQP handshake when the
// caller's context carries no earlier deadline.
const DefaultDialTimeout = 5 * time.Second

// AMQPPublisher publishes booking events to RabbitMQ.  Each publish opens
// its own connection; it normally runs behind an AsyncPublisher so the
// dial never happens on the request path.
type AMQPPublisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
	Log         logrus.FieldLogger
}

// NewAMQPPublisher returns a publisher for the given broker and queue.
func NewAMQPPublisher(url, queueName string, log logrus.FieldLogger) *AMQPPublisher {
	if queueName == "" {
		queueName = queue.DefaultBookingQueue
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AMQPPublisher{
		URL:         url,
		Queue:       queueName,
		DialTimeout: DefaultDialTimeout,
		Log:         log.WithField("component", "rabbitmq"),
	}
}

// dial opens a connection whose connect and handshake are bounded by both
// ctx and DialTimeout.  amqp091 clears the deadline once the handshake
// completes.
func (p *AMQPPublisher) dial(ctx context.Context) (*amqp.Connection, error) {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			deadline := time.Now().Add(timeout)
			if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
				deadline = d
			}
			dialer := net.Dialer{Deadline: deadline}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if err := conn.SetDeadline(deadline); err != nil {
				_ = conn.Close()
				return nil, err
			}
			return conn, nil
		},
	})
}

// PublishBookingConfirmed publishes ev to the booking queue as a
// persistent JSON message.  Errors are logged and returned so the caller
// can choose to ignore them.
func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	conn, err := p.dial(ctx)
	if err != nil {
		p.Log.WithError(err).Warn("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.WithError(err).Warn("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.Log.WithError(err).Warn("queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.Ref,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Log.WithError(err).Warn("publish failed")
		return err
	}
	return nil
}
