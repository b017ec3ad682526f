package station

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/domain/shared"
	"github.com/dockernauts/dockernauts-go/internal/domain/station"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// fakeJournal is an in-memory station.JournalRepository.
type fakeJournal struct {
	mu      sync.Mutex
	entries []station.JournalEntry
	warmIDs []string
}

func (f *fakeJournal) Record(_ context.Context, entry *station.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeJournal) RecentMessageIDs(_ context.Context, limit int) ([]string, error) {
	if len(f.warmIDs) > limit {
		return f.warmIDs[:limit], nil
	}
	return f.warmIDs, nil
}

func (f *fakeJournal) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries)), nil
}

func (f *fakeJournal) recorded() []station.JournalEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]station.JournalEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

func testStationConfig() config.StationConfig {
	return config.StationConfig{
		BaseFoodRate:  1,
		DecayInterval: time.Hour, // keep the ticker out of the way
		DedupWindow:   16,
	}
}

func startStation(t *testing.T, journal station.JournalRepository, clock shared.Clock) *MasterStation {
	t.Helper()

	s := NewMasterStation(testStationConfig(), journal, clock, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, s.Start(ctx))
	return s
}

func TestMasterStation_ApplyDelta(t *testing.T) {
	// Arrange
	s := startStation(t, nil, nil)
	ctx := context.Background()

	// Act
	result, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Gold: 50, Food: -20})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, resource.Amounts{Gold: 50, Food: -20}, result.Applied)
	assert.Equal(t, resource.Amounts{Gold: 250, Food: 180, Metal: 200}, result.Balances)
}

func TestMasterStation_ApplyDelta_SkipsDuplicates(t *testing.T) {
	// Arrange
	s := startStation(t, nil, nil)
	ctx := context.Background()

	first, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Gold: 50})
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	// Act: same message ID again
	second, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Gold: 50})

	// Assert
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Balances, second.Balances)
}

func TestMasterStation_ApplyDelta_NoMessageIDAppliesUnconditionally(t *testing.T) {
	// Arrange
	s := startStation(t, nil, nil)
	ctx := context.Background()

	// Act: two identical deltas without IDs both land
	_, err := s.ApplyDelta(ctx, protocol.Delta{Gold: 10})
	require.NoError(t, err)
	result, err := s.ApplyDelta(ctx, protocol.Delta{Gold: 10})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, 220, result.Balances.Gold)
}

func TestMasterStation_ApplyDelta_ClampsAtZero(t *testing.T) {
	// Arrange
	s := startStation(t, nil, nil)
	ctx := context.Background()

	// Act
	result, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Metal: -500})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, -200, result.Applied.Metal)
	assert.Equal(t, 0, result.Balances.Metal)
}

func TestMasterStation_ApplyDelta_RecordsJournal(t *testing.T) {
	// Arrange
	journal := &fakeJournal{}
	s := startStation(t, journal, nil)
	ctx := context.Background()

	// Act
	_, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", PlanetID: "p1", Gold: -300})
	require.NoError(t, err)
	_, err = s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Gold: -300}) // duplicate
	require.NoError(t, err)

	// Assert: duplicates are not journaled
	entries := journal.recorded()
	require.Len(t, entries, 1)
	assert.Equal(t, "m1", entries[0].MessageID)
	assert.Equal(t, "p1", entries[0].PlanetID)
	assert.Equal(t, -300, entries[0].Requested.Gold)
	assert.Equal(t, -200, entries[0].Applied.Gold)
	assert.Equal(t, 0, entries[0].Balances.Gold)
}

func TestMasterStation_WarmsDedupFromJournal(t *testing.T) {
	// Arrange: the journal remembers an applied message from a previous run
	journal := &fakeJournal{warmIDs: []string{"old-1", "old-2"}}
	s := startStation(t, journal, nil)
	ctx := context.Background()

	// Act
	result, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "old-1", Gold: 999})

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, 200, result.Balances.Gold)
}

func TestMasterStation_ConsumeFood_ScalesWithSessionAge(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := startStation(t, nil, clock)
	ctx := context.Background()

	// Act: fresh session eats the base rate
	consumed, err := s.ConsumeFood(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, consumed)

	// 90 seconds in, scaling is 1 + 3*0.5 = 2.5
	clock.Advance(90 * time.Second)
	consumed, err = s.ConsumeFood(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, consumed)
}

func TestMasterStation_ResetState(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := startStation(t, nil, clock)
	ctx := context.Background()

	_, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Gold: 500, Food: -100})
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)

	// Act
	require.NoError(t, s.ResetState(ctx))

	// Assert: initial grant restored
	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, resource.Amounts{Gold: 200, Food: 200, Metal: 200}, snapshot)

	// Dedup window cleared: the old ID applies again
	result, err := s.ApplyDelta(ctx, protocol.Delta{MessageID: "m1", Gold: 10})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)

	// Decay session restarted: consumption is back to the base rate
	consumed, err := s.ConsumeFood(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, consumed)
}

func TestMasterStation_ResetState_IsIdempotent(t *testing.T) {
	// Arrange
	s := startStation(t, nil, nil)
	ctx := context.Background()

	// Act
	require.NoError(t, s.ResetState(ctx))
	require.NoError(t, s.ResetState(ctx))

	// Assert
	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, resource.Amounts{Gold: 200, Food: 200, Metal: 200}, snapshot)
}

func TestMasterStation_StopsWithContext(t *testing.T) {
	// Arrange
	s := NewMasterStation(testStationConfig(), nil, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	// Act
	cancel()

	// Assert
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("actor did not stop")
	}

	_, err := s.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}
