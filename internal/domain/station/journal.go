package station

import (
	"context"
	"time"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// JournalEntry records one delta applied to the ledger: the audit trail of
// the game economy and the durable tail of the dedup window. Entries are
// immutable once written.
type JournalEntry struct {
	// MessageID is the producer-assigned dedup key. Empty for legacy
	// producers that publish without one.
	MessageID string

	// PlanetID identifies the producing planet, empty for administrative
	// deltas.
	PlanetID string

	// Requested is the delta as published.
	Requested resource.Amounts

	// Applied is the delta after clamping at zero balances.
	Applied resource.Amounts

	// Balances are the ledger balances after application.
	Balances resource.Amounts

	AppliedAt time.Time
}

// JournalRepository defines persistence operations for the delta journal.
type JournalRepository interface {
	// Record persists a journal entry.
	Record(ctx context.Context, entry *JournalEntry) error

	// RecentMessageIDs returns the message IDs of the most recently applied
	// deltas, newest first, up to limit. Used to warm the dedup window on
	// startup.
	RecentMessageIDs(ctx context.Context, limit int) ([]string, error)

	// Count returns the number of recorded entries.
	Count(ctx context.Context) (int64, error)
}
