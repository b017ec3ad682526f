package planet

import "context"

// Repository defines persistence operations for the discovered-planet
// registry.
type Repository interface {
	// Save persists a planet, inserting or updating by ID.
	Save(ctx context.Context, p *Planet) error

	// FindByID retrieves a planet by its ID.
	FindByID(ctx context.Context, id ID) (*Planet, error)

	// MarkClaimed atomically flips the stored claimed flag, returning
	// ErrAlreadyClaimed when another claimer got there first. The store is
	// the arbiter between claimers holding independent copies of a planet.
	MarkClaimed(ctx context.Context, id ID) error

	// FindClaimed retrieves every claimed planet.
	FindClaimed(ctx context.Context) ([]*Planet, error)

	// FindBySector retrieves the planets discovered within a sector.
	FindBySector(ctx context.Context, sectorX, sectorY int) ([]*Planet, error)
}
