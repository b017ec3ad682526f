package persistence_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockernauts/dockernauts-go/internal/adapters/persistence"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/domain/station"
	"github.com/dockernauts/dockernauts-go/test/helpers"
)

func newJournalRepo(t *testing.T) *persistence.GormJournalRepository {
	t.Helper()
	return persistence.NewGormJournalRepository(helpers.NewTestDB(t))
}

func journalEntry(messageID string, amounts resource.Amounts) *station.JournalEntry {
	return &station.JournalEntry{
		MessageID: messageID,
		PlanetID:  "p1",
		Requested: amounts,
		Applied:   amounts,
		Balances:  resource.Amounts{Gold: 200, Food: 200, Metal: 200}.Add(amounts),
		AppliedAt: time.Now().UTC(),
	}
}

func TestGormJournalRepository_RecordAndCount(t *testing.T) {
	// Arrange
	repo := newJournalRepo(t)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Record(ctx, journalEntry("m1", resource.Amounts{Gold: 10})))
	require.NoError(t, repo.Record(ctx, journalEntry("m2", resource.Amounts{Food: -5})))

	// Assert
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormJournalRepository_RejectsDuplicateMessageID(t *testing.T) {
	// Arrange
	repo := newJournalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Record(ctx, journalEntry("m1", resource.Amounts{Gold: 10})))

	// Act: unique index on message_id refuses a second write
	err := repo.Record(ctx, journalEntry("m1", resource.Amounts{Gold: 10}))

	// Assert
	assert.Error(t, err)
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormJournalRepository_RecentMessageIDs(t *testing.T) {
	// Arrange
	repo := newJournalRepo(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		entry := journalEntry(fmt.Sprintf("m%d", i), resource.Amounts{Gold: i})
		require.NoError(t, repo.Record(ctx, entry))
	}

	// Act
	ids, err := repo.RecentMessageIDs(ctx, 3)

	// Assert: newest first, capped at the limit
	require.NoError(t, err)
	assert.Equal(t, []string{"m5", "m4", "m3"}, ids)
}

func TestGormJournalRepository_RecentMessageIDs_SkipsLegacyEntries(t *testing.T) {
	// Arrange: legacy producers journal without a dedup key, repeatedly
	repo := newJournalRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Record(ctx, journalEntry("m1", resource.Amounts{Gold: 1})))
	require.NoError(t, repo.Record(ctx, journalEntry("", resource.Amounts{Gold: 2})))
	require.NoError(t, repo.Record(ctx, journalEntry("", resource.Amounts{Gold: 2})))
	require.NoError(t, repo.Record(ctx, journalEntry("m3", resource.Amounts{Gold: 3})))

	// Act
	ids, err := repo.RecentMessageIDs(ctx, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m1"}, ids)
}

func TestGormJournalRepository_RecentMessageIDs_EmptyJournal(t *testing.T) {
	repo := newJournalRepo(t)

	ids, err := repo.RecentMessageIDs(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, ids)
}
