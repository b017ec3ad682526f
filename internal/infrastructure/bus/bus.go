// Package bus abstracts the durable publish/subscribe fabric that binds the
// master station, the planet agents and the operator tooling together.
//
// Delivery on durable subscriptions is at-least-once: a handler may see the
// same message twice and consumers are expected to deduplicate by message ID
// where double-application would corrupt state. There is no cross-publisher
// ordering guarantee; ordering is preserved per publisher connection only.
package bus

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by Request when no reply arrives in time. Callers
// must treat it as "data stale, reuse last known value", never as fatal.
var ErrTimeout = errors.New("bus: request timed out")

// Msg is a delivered message.
type Msg struct {
	Subject string
	Data    []byte
}

// Handler consumes one message. Returning nil acknowledges it; returning an
// error leaves it un-acked for redelivery.
type Handler func(msg *Msg) error

// RequestHandler serves one request and produces the reply payload.
type RequestHandler func(data []byte) ([]byte, error)

// Subscription is a handle to an active subscription.
type Subscription interface {
	Unsubscribe() error
}

// Bus is the messaging contract the core depends on.
type Bus interface {
	// EnsureStream idempotently creates a durable stream covering the given
	// subject filters.
	EnsureStream(ctx context.Context, name string, subjects ...string) error

	// Publish appends a message to the durable stream covering the subject.
	// Fire-and-forget: messages published while disconnected are not
	// buffered by the core and may be lost.
	Publish(subject string, data []byte) error

	// PublishWithID publishes like Publish and attaches a message ID for
	// consumer-side deduplication.
	PublishWithID(subject, msgID string, data []byte) error

	// Broadcast publishes outside any stream, reaching only currently
	// connected ephemeral subscribers.
	Broadcast(subject string, data []byte) error

	// Subscribe attaches a durable consumer to the stream covering the
	// subject. The cursor survives restarts under the same durable name.
	Subscribe(subject, durable string, h Handler) (Subscription, error)

	// SubscribeEphemeral attaches a non-durable subscriber to broadcasts.
	SubscribeEphemeral(subject string, h Handler) (Subscription, error)

	// Responder serves request/reply on a subject.
	Responder(subject string, h RequestHandler) (Subscription, error)

	// Request performs a synchronous request, failing with ErrTimeout when
	// no responder answers within the timeout.
	Request(ctx context.Context, subject string, data []byte, timeout time.Duration) ([]byte, error)

	// Purge drops every not-yet-consumed message retained in a stream.
	Purge(ctx context.Context, stream string) error

	// Drain flushes pending work and closes the connection.
	Drain() error
}
