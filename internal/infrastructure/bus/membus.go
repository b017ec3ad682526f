package bus

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryBus is an in-process Bus with the same semantics as the JetStream
// implementation: durable cursors, explicit acks with redelivery, stream
// purge, and request/reply with timeout. It backs unit tests and
// single-process deployments where no external broker is available.
type MemoryBus struct {
	mu   sync.Mutex
	cond *sync.Cond

	streams    map[string]*memStream
	ephemerals map[string][]*memEphemeral
	responders map[string]RequestHandler

	paused bool
	closed bool
}

type memStream struct {
	name     string
	patterns []string
	nextSeq  uint64
	messages []memMsg
	cursors  map[string]uint64 // durable name -> next sequence to deliver
}

type memMsg struct {
	seq     uint64
	subject string
	data    []byte
}

type memConsumer struct {
	bus     *MemoryBus
	stream  *memStream
	subject string
	durable string
	handler Handler
	stopped bool
}

type memEphemeral struct {
	bus     *MemoryBus
	subject string
	handler Handler
	stopped bool
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	b := &MemoryBus{
		streams:    make(map[string]*memStream),
		ephemerals: make(map[string][]*memEphemeral),
		responders: make(map[string]RequestHandler),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// EnsureStream idempotently creates a stream.
func (b *MemoryBus) EnsureStream(_ context.Context, name string, subjects ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.streams[name]; ok {
		return nil
	}
	b.streams[name] = &memStream{
		name:     name,
		patterns: subjects,
		nextSeq:  1,
		cursors:  make(map[string]uint64),
	}
	return nil
}

// Publish appends to the stream covering the subject.
func (b *MemoryBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stream := b.streamFor(subject)
	if stream == nil {
		return fmt.Errorf("no stream covers subject %s", subject)
	}

	stream.messages = append(stream.messages, memMsg{
		seq:     stream.nextSeq,
		subject: subject,
		data:    append([]byte(nil), data...),
	})
	stream.nextSeq++
	b.cond.Broadcast()
	return nil
}

// PublishWithID behaves like Publish; the in-memory bus performs no
// broker-side dedup, matching the at-least-once model consumers must
// already tolerate.
func (b *MemoryBus) PublishWithID(subject, _ string, data []byte) error {
	return b.Publish(subject, data)
}

// Broadcast delivers to currently attached ephemeral subscribers.
func (b *MemoryBus) Broadcast(subject string, data []byte) error {
	b.mu.Lock()
	subs := make([]*memEphemeral, 0, len(b.ephemerals[subject]))
	for _, s := range b.ephemerals[subject] {
		if !s.stopped {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	payload := append([]byte(nil), data...)
	for _, s := range subs {
		go s.handler(&Msg{Subject: subject, Data: payload})
	}
	return nil
}

// Subscribe attaches a durable consumer. The cursor persists under the
// durable name across unsubscribe/resubscribe.
func (b *MemoryBus) Subscribe(subject, durable string, h Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stream := b.streamFor(subject)
	if stream == nil {
		return nil, fmt.Errorf("no stream covers subject %s", subject)
	}
	if _, ok := stream.cursors[durable]; !ok {
		stream.cursors[durable] = 1
	}

	c := &memConsumer{
		bus:     b,
		stream:  stream,
		subject: subject,
		durable: durable,
		handler: h,
	}
	go c.run()
	return c, nil
}

// SubscribeEphemeral attaches a broadcast subscriber.
func (b *MemoryBus) SubscribeEphemeral(subject string, h Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &memEphemeral{bus: b, subject: subject, handler: h}
	b.ephemerals[subject] = append(b.ephemerals[subject], s)
	return s, nil
}

// Responder registers the request handler for a subject.
func (b *MemoryBus) Responder(subject string, h RequestHandler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.responders[subject]; ok {
		return nil, fmt.Errorf("responder already registered for %s", subject)
	}
	b.responders[subject] = h
	return &memResponder{bus: b, subject: subject}, nil
}

// Request calls the registered responder, failing with ErrTimeout when none
// is registered or the reply does not arrive in time.
func (b *MemoryBus) Request(ctx context.Context, subject string, data []byte, timeout time.Duration) ([]byte, error) {
	b.mu.Lock()
	h, ok := b.responders[subject]
	b.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	if !ok {
		// No responder: behave like the real bus and wait out the timeout.
		select {
		case <-timer.C:
			return nil, ErrTimeout
		case <-ctx.Done():
			return nil, ErrTimeout
		}
	}

	type result struct {
		reply []byte
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := h(data)
		done <- result{reply, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return r.reply, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ErrTimeout
	}
}

// Purge drops every retained message in a stream. Durable cursors are left
// untouched; sequences are monotonic so consumers simply find nothing left
// to deliver.
func (b *MemoryBus) Purge(_ context.Context, stream string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.streams[stream]
	if !ok {
		return fmt.Errorf("unknown stream %s", stream)
	}
	s.messages = nil
	b.cond.Broadcast()
	return nil
}

// Drain stops all consumers.
func (b *MemoryBus) Drain() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.cond.Broadcast()
	return nil
}

// Pause suspends durable delivery so tests can pile up a backlog
// deterministically.
func (b *MemoryBus) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = true
}

// Resume reverses Pause.
func (b *MemoryBus) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paused = false
	b.cond.Broadcast()
}

// streamFor finds the stream whose patterns cover a subject. Callers hold mu.
func (b *MemoryBus) streamFor(subject string) *memStream {
	for _, s := range b.streams {
		for _, p := range s.patterns {
			if subjectMatches(p, subject) {
				return s
			}
		}
	}
	return nil
}

// subjectMatches implements NATS-style subject matching with the "*" token
// and ">" tail wildcards.
func subjectMatches(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, p := range pt {
		if p == ">" {
			return len(st) > i
		}
		if i >= len(st) {
			return false
		}
		if p != "*" && p != st[i] {
			return false
		}
	}
	return len(pt) == len(st)
}

func (c *memConsumer) run() {
	for {
		m, ok := c.next()
		if !ok {
			return
		}

		if err := c.handler(&Msg{Subject: m.subject, Data: m.data}); err != nil {
			// Leave the cursor in place and retry after a short backoff.
			time.Sleep(10 * time.Millisecond)
			continue
		}
		c.ack(m.seq)
	}
}

// next blocks until a deliverable message exists, the bus drains, or the
// consumer unsubscribes.
func (c *memConsumer) next() (memMsg, bool) {
	b := c.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if b.closed || c.stopped {
			return memMsg{}, false
		}
		if !b.paused {
			cursor := c.stream.cursors[c.durable]
			for _, m := range c.stream.messages {
				if m.seq >= cursor && subjectMatches(c.subject, m.subject) {
					return m, true
				}
			}
		}
		b.cond.Wait()
	}
}

func (c *memConsumer) ack(seq uint64) {
	b := c.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.stream.cursors[c.durable] <= seq {
		c.stream.cursors[c.durable] = seq + 1
	}
}

// Unsubscribe stops delivery; the durable cursor is retained.
func (c *memConsumer) Unsubscribe() error {
	b := c.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	c.stopped = true
	b.cond.Broadcast()
	return nil
}

func (s *memEphemeral) Unsubscribe() error {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	s.stopped = true
	return nil
}

type memResponder struct {
	bus     *MemoryBus
	subject string
}

func (r *memResponder) Unsubscribe() error {
	r.bus.mu.Lock()
	defer r.bus.mu.Unlock()
	delete(r.bus.responders, r.subject)
	return nil
}
