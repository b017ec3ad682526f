package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *MemoryBus {
	b := NewMemoryBus()
	require.NoError(t, b.EnsureStream(context.Background(), "MASTER", "MASTER.>"))
	require.NoError(t, b.EnsureStream(context.Background(), "PLANETS", "PLANETS.>"))
	t.Cleanup(func() { b.Drain() })
	return b
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestMemoryBus_DurableDelivery(t *testing.T) {
	// Arrange
	b := newTestBus(t)
	var got atomic.Int32

	_, err := b.Subscribe("MASTER.resources", "c1", func(msg *Msg) error {
		got.Add(1)
		return nil
	})
	require.NoError(t, err)

	// Act
	require.NoError(t, b.Publish("MASTER.resources", []byte("one")))
	require.NoError(t, b.Publish("MASTER.resources", []byte("two")))

	// Assert
	waitFor(t, func() bool { return got.Load() == 2 }, "expected 2 deliveries")
}

func TestMemoryBus_PublishWithoutStreamFails(t *testing.T) {
	b := newTestBus(t)

	err := b.Publish("ORPHAN.subject", []byte("x"))

	assert.Error(t, err)
}

func TestMemoryBus_RedeliversUntilAcked(t *testing.T) {
	// Arrange: fail the first two deliveries
	b := newTestBus(t)
	var attempts atomic.Int32

	_, err := b.Subscribe("MASTER.resources", "c1", func(msg *Msg) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient failure")
		}
		return nil
	})
	require.NoError(t, err)

	// Act
	require.NoError(t, b.Publish("MASTER.resources", []byte("retry-me")))

	// Assert
	waitFor(t, func() bool { return attempts.Load() >= 3 }, "expected redeliveries")
}

func TestMemoryBus_DurableCursorSurvivesResubscribe(t *testing.T) {
	// Arrange
	b := newTestBus(t)
	var first atomic.Int32

	sub, err := b.Subscribe("MASTER.resources", "c1", func(msg *Msg) error {
		first.Add(1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish("MASTER.resources", []byte("one")))
	waitFor(t, func() bool { return first.Load() == 1 }, "first consumer never delivered")
	require.NoError(t, sub.Unsubscribe())

	// Act: publish while detached, then resubscribe under the same durable
	require.NoError(t, b.Publish("MASTER.resources", []byte("two")))

	var mu sync.Mutex
	var second []string
	_, err = b.Subscribe("MASTER.resources", "c1", func(msg *Msg) error {
		mu.Lock()
		second = append(second, string(msg.Data))
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	// Assert: only the message published while detached arrives
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(second) == 1
	}, "resumed consumer never delivered")

	mu.Lock()
	assert.Equal(t, []string{"two"}, second)
	mu.Unlock()
}

func TestMemoryBus_IndependentDurables(t *testing.T) {
	// Arrange
	b := newTestBus(t)
	var c1, c2 atomic.Int32

	_, err := b.Subscribe("MASTER.resources", "c1", func(msg *Msg) error {
		c1.Add(1)
		return nil
	})
	require.NoError(t, err)
	_, err = b.Subscribe("MASTER.resources", "c2", func(msg *Msg) error {
		c2.Add(1)
		return nil
	})
	require.NoError(t, err)

	// Act
	require.NoError(t, b.Publish("MASTER.resources", []byte("x")))

	// Assert: both durables see the message
	waitFor(t, func() bool { return c1.Load() == 1 && c2.Load() == 1 }, "both durables should deliver")
}

func TestMemoryBus_BroadcastReachesOnlyLiveSubscribers(t *testing.T) {
	// Arrange
	b := newTestBus(t)
	var got atomic.Int32

	sub, err := b.SubscribeEphemeral("game.reset", func(msg *Msg) error {
		got.Add(1)
		return nil
	})
	require.NoError(t, err)

	// Act
	require.NoError(t, b.Broadcast("game.reset", []byte(`{"action":"reset"}`)))
	waitFor(t, func() bool { return got.Load() == 1 }, "broadcast not delivered")

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, b.Broadcast("game.reset", []byte(`{"action":"reset"}`)))
	time.Sleep(20 * time.Millisecond)

	// Assert
	assert.Equal(t, int32(1), got.Load())
}

func TestMemoryBus_RequestReply(t *testing.T) {
	// Arrange
	b := newTestBus(t)
	_, err := b.Responder("game.state", func(data []byte) ([]byte, error) {
		return []byte(`{"resources":{}}`), nil
	})
	require.NoError(t, err)

	// Act
	reply, err := b.Request(context.Background(), "game.state", nil, time.Second)

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, `{"resources":{}}`, string(reply))
}

func TestMemoryBus_RequestTimesOutWithoutResponder(t *testing.T) {
	// Arrange
	b := newTestBus(t)

	// Act
	start := time.Now()
	_, err := b.Request(context.Background(), "game.state", nil, 50*time.Millisecond)
	elapsed := time.Since(start)

	// Assert: fails with ErrTimeout, never hangs
	assert.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestMemoryBus_RequestTimesOutOnSlowResponder(t *testing.T) {
	// Arrange
	b := newTestBus(t)
	_, err := b.Responder("game.state", func(data []byte) ([]byte, error) {
		time.Sleep(500 * time.Millisecond)
		return []byte("late"), nil
	})
	require.NoError(t, err)

	// Act
	_, err = b.Request(context.Background(), "game.state", nil, 50*time.Millisecond)

	// Assert
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestMemoryBus_PurgeDropsBacklog(t *testing.T) {
	// Arrange: no consumer attached, messages pile up
	b := newTestBus(t)
	require.NoError(t, b.Publish("MASTER.resources", []byte("stale-1")))
	require.NoError(t, b.Publish("MASTER.resources", []byte("stale-2")))

	// Act
	require.NoError(t, b.Purge(context.Background(), "MASTER"))

	var got atomic.Int32
	_, err := b.Subscribe("MASTER.resources", "c1", func(msg *Msg) error {
		got.Add(1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish("MASTER.resources", []byte("fresh")))

	// Assert: only the post-purge message arrives
	waitFor(t, func() bool { return got.Load() == 1 }, "fresh message not delivered")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), got.Load())
}

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    bool
	}{
		{"MASTER.>", "MASTER.resources", true},
		{"MASTER.>", "MASTER.a.b.c", true},
		{"MASTER.>", "MASTER", false},
		{"MASTER.>", "PLANETS.x", false},
		{"PLANETS.*.upgrades", "PLANETS.p1.upgrades", true},
		{"PLANETS.*.upgrades", "PLANETS.p1.other", false},
		{"game.state", "game.state", true},
		{"game.state", "game.state.extra", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, subjectMatches(tt.pattern, tt.subject),
			"pattern=%s subject=%s", tt.pattern, tt.subject)
	}
}
