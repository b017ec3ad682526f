// Package claiming implements the purchase flows of the economy: claiming
// planets and buying production upgrades. Both are multi-step sagas over the
// bus with no distributed transaction; each step's outcome is reported
// explicitly so callers can surface partial failures.
package claiming

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/orchestrator"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// ClaimResult reports how far the claim saga progressed. Claimed planets are
// never unclaimed: a failed deduction or provisioning step leaves the claim
// standing and is surfaced here instead of rolled back.
type ClaimResult struct {
	Claimed            bool
	Cost               int
	DeductionPublished bool
	Provisioned        bool
	Handle             orchestrator.Handle
	ProvisionErr       error
}

// ClaimService executes the claim saga.
type ClaimService struct {
	planets planet.Repository
	msgBus  bus.Bus
	orch    orchestrator.Orchestrator
	logger  zerolog.Logger
}

// NewClaimService creates a new ClaimService. The orchestrator may be nil
// when claiming without worker provisioning.
func NewClaimService(
	planets planet.Repository,
	msgBus bus.Bus,
	orch orchestrator.Orchestrator,
	logger zerolog.Logger,
) *ClaimService {
	return &ClaimService{
		planets: planets,
		msgBus:  msgBus,
		orch:    orch,
		logger:  logger,
	}
}

// Claim takes ownership of a planet. payment is the gold the caller can
// spend; the claim succeeds iff it covers the planet's claim cost and the
// planet is unclaimed. On success the gold deduction is published to the
// ledger and a worker is provisioned for the planet.
func (s *ClaimService) Claim(ctx context.Context, id planet.ID, payment int) (*ClaimResult, error) {
	p, err := s.planets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &ClaimResult{Cost: p.ClaimCost()}

	if err := p.Claim(payment); err != nil {
		return result, err
	}

	// The in-memory flip above only validated the payment against this copy.
	// The stored row decides ownership between concurrent claimers.
	if err := s.planets.MarkClaimed(ctx, id); err != nil {
		return result, err
	}
	result.Claimed = true

	if err := s.planets.Save(ctx, p); err != nil {
		// Ownership is already decided at the store; a failed save costs
		// the speed and upgrade columns, not the claim itself.
		s.logger.Error().Err(err).Str("planet_id", id.String()).Msg("Failed to persist claim")
	}

	if err := s.publishDeduction(p, result.Cost); err != nil {
		s.logger.Error().Err(err).Str("planet_id", id.String()).Msg("Failed to publish claim deduction")
	} else {
		result.DeductionPublished = true
	}

	if s.orch != nil {
		handle, err := s.orch.Provision(ctx, p)
		if err != nil {
			result.ProvisionErr = err
			s.logger.Warn().Err(err).Str("planet_id", id.String()).
				Msg("Planet claimed but worker provisioning failed")
		} else {
			result.Provisioned = true
			result.Handle = handle
		}
	}

	s.logger.Info().
		Str("planet_id", id.String()).
		Str("planet", p.Name()).
		Int("cost", result.Cost).
		Bool("provisioned", result.Provisioned).
		Msg("Planet claimed")

	return result, nil
}

func (s *ClaimService) publishDeduction(p *planet.Planet, cost int) error {
	delta := protocol.NewDelta(p.ID().String(), resource.Amounts{Gold: -cost})
	data, err := protocol.Encode(delta)
	if err != nil {
		return fmt.Errorf("failed to encode deduction: %w", err)
	}
	return s.msgBus.PublishWithID(protocol.SubjectResources, delta.MessageID, data)
}
