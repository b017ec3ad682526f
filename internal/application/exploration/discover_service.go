// Package exploration reveals the galaxy lazily: a sector's planet is rolled
// deterministically on first visit and persisted, so later visits and other
// observers see the same world.
package exploration

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/galaxy"
	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
)

// DiscoverService resolves world positions to planets.
type DiscoverService struct {
	planets planet.Repository
	logger  zerolog.Logger
}

// NewDiscoverService creates a new DiscoverService
func NewDiscoverService(planets planet.Repository, logger zerolog.Logger) *DiscoverService {
	return &DiscoverService{
		planets: planets,
		logger:  logger,
	}
}

// Discover reveals the sector containing the given world position. It
// returns the sector's planet, or nil for empty space. The first discovery
// persists the planet; subsequent calls return the stored one, preserving
// its ID and any claim.
func (s *DiscoverService) Discover(ctx context.Context, x, y int) (*planet.Planet, error) {
	sx, sy := galaxy.SectorOf(x, y)
	return s.DiscoverSector(ctx, sx, sy)
}

// DiscoverSector reveals one sector by its sector coordinates.
func (s *DiscoverService) DiscoverSector(ctx context.Context, sx, sy int) (*planet.Planet, error) {
	existing, err := s.planets.FindBySector(ctx, sx, sy)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	p := galaxy.Generate(sx, sy)
	if p == nil {
		return nil, nil
	}

	if err := s.planets.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("planet_id", p.ID().String()).
		Str("planet", p.Name()).
		Int("sector_x", sx).
		Int("sector_y", sy).
		Msg("Planet discovered")
	return p, nil
}
