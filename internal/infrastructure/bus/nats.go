package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NatsOptions configures the JetStream-backed bus.
type NatsOptions struct {
	// URL of the NATS server, e.g. nats://localhost:4222.
	URL string

	// ConnectTimeout bounds the initial dial.
	ConnectTimeout time.Duration

	// MaxReconnects bounds automatic reconnection attempts. Reconnection is
	// bounded, not infinite: a server that stays gone eventually surfaces as
	// a closed connection.
	MaxReconnects int

	// ReconnectWait is the delay between reconnection attempts.
	ReconnectWait time.Duration

	// PublishRate throttles stream publishes, in messages per second.
	// Zero disables throttling.
	PublishRate float64

	// PublishBurst is the throttle burst size.
	PublishBurst int
}

// NatsBus implements Bus on a NATS JetStream connection.
type NatsBus struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	limiter *rate.Limiter
	log     zerolog.Logger
}

// ConnectNats dials the server and initializes the JetStream context.
func ConnectNats(opts NatsOptions, log zerolog.Logger) (*NatsBus, error) {
	log = log.With().Str("component", "bus").Logger()

	nc, err := nats.Connect(opts.URL,
		nats.Timeout(opts.ConnectTimeout),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("disconnected from bus")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("reconnected to bus")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Warn().Msg("bus connection closed")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error().Err(err).Str("subject", subject).Msg("bus error")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.URL, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	var limiter *rate.Limiter
	if opts.PublishRate > 0 {
		burst := opts.PublishBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.PublishRate), burst)
	}

	log.Info().Str("url", opts.URL).Msg("connected to bus")

	return &NatsBus{nc: nc, js: js, limiter: limiter, log: log}, nil
}

// EnsureStream idempotently creates a durable stream.
func (b *NatsBus) EnsureStream(ctx context.Context, name string, subjects ...string) error {
	_, err := b.js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}

	_, err = b.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: subjects,
	}, nats.Context(ctx))
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	return nil
}

// Publish appends to the covering stream.
func (b *NatsBus) Publish(subject string, data []byte) error {
	if err := b.wait(); err != nil {
		return err
	}

	if _, err := b.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// PublishWithID publishes with a Nats-Msg-Id header carrying the dedup key.
func (b *NatsBus) PublishWithID(subject, msgID string, data []byte) error {
	if err := b.wait(); err != nil {
		return err
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, msgID)

	if _, err := b.js.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Broadcast publishes on the core connection, outside any stream.
func (b *NatsBus) Broadcast(subject string, data []byte) error {
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to broadcast to %s: %w", subject, err)
	}
	return nil
}

// Subscribe attaches a durable push consumer with explicit acks.
func (b *NatsBus) Subscribe(subject, durable string, h Handler) (Subscription, error) {
	sub, err := b.js.Subscribe(subject, func(m *nats.Msg) {
		if err := h(&Msg{Subject: m.Subject, Data: m.Data}); err != nil {
			b.log.Warn().Err(err).Str("subject", m.Subject).Msg("handler rejected message, scheduling redelivery")
			_ = m.Nak()
			return
		}
		_ = m.Ack()
	}, nats.Durable(durable), nats.ManualAck(), nats.AckExplicit())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	b.log.Info().Str("subject", subject).Str("durable", durable).Msg("durable subscription active")
	return sub, nil
}

// SubscribeEphemeral attaches a plain core subscriber.
func (b *NatsBus) SubscribeEphemeral(subject string, h Handler) (Subscription, error) {
	sub, err := b.nc.Subscribe(subject, func(m *nats.Msg) {
		if err := h(&Msg{Subject: m.Subject, Data: m.Data}); err != nil {
			b.log.Warn().Err(err).Str("subject", m.Subject).Msg("dropped broadcast message")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub, nil
}

// Responder serves request/reply on the core connection.
func (b *NatsBus) Responder(subject string, h RequestHandler) (Subscription, error) {
	sub, err := b.nc.Subscribe(subject, func(m *nats.Msg) {
		reply, err := h(m.Data)
		if err != nil {
			b.log.Error().Err(err).Str("subject", m.Subject).Msg("request handler failed")
			return
		}
		if err := m.Respond(reply); err != nil {
			b.log.Error().Err(err).Str("subject", m.Subject).Msg("failed to send reply")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register responder on %s: %w", subject, err)
	}
	return sub, nil
}

// Request performs a synchronous request with a timeout.
func (b *NatsBus) Request(ctx context.Context, subject string, data []byte, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := b.nc.RequestWithContext(reqCtx, subject, data)
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) || errors.Is(err, nats.ErrNoResponders) ||
			errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("request to %s failed: %w", subject, err)
	}
	return msg.Data, nil
}

// Purge drops all retained messages in a stream.
func (b *NatsBus) Purge(ctx context.Context, stream string) error {
	if err := b.js.PurgeStream(stream, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to purge stream %s: %w", stream, err)
	}
	b.log.Info().Str("stream", stream).Msg("stream purged")
	return nil
}

// Drain flushes subscriptions and closes the connection.
func (b *NatsBus) Drain() error {
	if b.nc.IsClosed() {
		return nil
	}
	return b.nc.Drain()
}

func (b *NatsBus) wait() error {
	if b.limiter == nil {
		return nil
	}
	if err := b.limiter.Wait(context.Background()); err != nil {
		return fmt.Errorf("publish throttled: %w", err)
	}
	return nil
}
