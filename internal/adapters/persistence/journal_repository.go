package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dockernauts/dockernauts-go/internal/domain/station"
)

// GormJournalRepository implements station.JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GORM journal repository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// Record persists one applied delta
func (r *GormJournalRepository) Record(ctx context.Context, entry *station.JournalEntry) error {
	model := r.entryToModel(entry)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to record journal entry: %w", result.Error)
	}

	return nil
}

// RecentMessageIDs returns the newest message IDs, up to limit. Entries
// recorded without a message ID are skipped.
func (r *GormJournalRepository) RecentMessageIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).
		Model(&DeltaJournalModel{}).
		Where("message_id IS NOT NULL").
		Order("id DESC").
		Limit(limit).
		Pluck("message_id", &ids)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to load recent message IDs: %w", result.Error)
	}

	return ids, nil
}

// Count returns the number of recorded entries
func (r *GormJournalRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&DeltaJournalModel{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", result.Error)
	}

	return count, nil
}

// entryToModel converts domain entry to database model
func (r *GormJournalRepository) entryToModel(entry *station.JournalEntry) *DeltaJournalModel {
	var messageID *string
	if entry.MessageID != "" {
		messageID = &entry.MessageID
	}

	return &DeltaJournalModel{
		MessageID: messageID,
		PlanetID:  entry.PlanetID,
		ReqGold:   entry.Requested.Gold,
		ReqFood:   entry.Requested.Food,
		ReqMetal:  entry.Requested.Metal,
		AppGold:   entry.Applied.Gold,
		AppFood:   entry.Applied.Food,
		AppMetal:  entry.Applied.Metal,
		BalGold:   entry.Balances.Gold,
		BalFood:   entry.Balances.Food,
		BalMetal:  entry.Balances.Metal,
		AppliedAt: entry.AppliedAt,
	}
}
