package claiming

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/domain/shared"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// Flat upgrade prices per resource type, paid from that resource's balance.
const (
	UpgradeCostFood  = 100
	UpgradeCostGold  = 150
	UpgradeCostMetal = 200
)

// UpgradeCost returns the price of one upgrade level for a resource type.
func UpgradeCost(t resource.Type) int {
	switch t {
	case resource.Gold:
		return UpgradeCostGold
	case resource.Metal:
		return UpgradeCostMetal
	default:
		return UpgradeCostFood
	}
}

// ErrInsufficientFunds is returned when the ledger cannot cover an upgrade.
type ErrInsufficientFunds struct {
	Type    resource.Type
	Cost    int
	Balance int
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient %s for upgrade: need %d, have %d", e.Type, e.Cost, e.Balance)
}

// UpgradeService purchases production upgrades for claimed planets. Funds
// are checked against a snapshot and deducted via the ledger's normal delta
// path, then the upgrade command is addressed to the planet's worker.
type UpgradeService struct {
	msgBus         bus.Bus
	requestTimeout time.Duration
	clock          shared.Clock
	logger         zerolog.Logger
}

// NewUpgradeService creates a new UpgradeService. A nil clock defaults to
// the real clock.
func NewUpgradeService(
	msgBus bus.Bus,
	requestTimeout time.Duration,
	clock shared.Clock,
	logger zerolog.Logger,
) *UpgradeService {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &UpgradeService{
		msgBus:         msgBus,
		requestTimeout: requestTimeout,
		clock:          clock,
		logger:         logger,
	}
}

// Purchase buys one upgrade level of the given resource type for a planet.
// The snapshot funds check and the deduction are not atomic: concurrent
// purchases can overspend, which the ledger absorbs by clamping at zero.
func (s *UpgradeService) Purchase(ctx context.Context, planetID string, t resource.Type) error {
	if !t.IsValid() {
		return &resource.ErrUnknownType{Value: t.String()}
	}
	cost := UpgradeCost(t)

	reply, err := s.msgBus.Request(ctx, protocol.SubjectGameState, nil, s.requestTimeout)
	if err != nil {
		return fmt.Errorf("failed to check funds: %w", err)
	}

	state, err := protocol.DecodeStateReply(reply)
	if err != nil {
		return err
	}

	balance := state.Amounts().Get(t)
	if balance < cost {
		return &ErrInsufficientFunds{Type: t, Cost: cost, Balance: balance}
	}

	deduction := protocol.NewDelta("", resource.Amounts{}.Set(t, -cost))
	data, err := protocol.Encode(deduction)
	if err != nil {
		return fmt.Errorf("failed to encode deduction: %w", err)
	}
	if err := s.msgBus.PublishWithID(protocol.SubjectResources, deduction.MessageID, data); err != nil {
		return fmt.Errorf("failed to publish deduction: %w", err)
	}

	unixSeconds := float64(s.clock.Now().UnixNano()) / float64(time.Second)
	cmd := protocol.NewUpgrade(t, cost, unixSeconds)
	cmdData, err := protocol.Encode(cmd)
	if err != nil {
		return fmt.Errorf("failed to encode upgrade command: %w", err)
	}
	if err := s.msgBus.PublishWithID(protocol.UpgradeSubject(planetID), cmd.MessageID, cmdData); err != nil {
		// The deduction already went through; there is no compensating
		// credit, so the caller learns the upgrade was paid but not sent.
		return fmt.Errorf("deducted %d %s but failed to publish upgrade: %w", cost, t, err)
	}

	s.logger.Info().
		Str("planet_id", planetID).
		Str("resource", t.String()).
		Int("cost", cost).
		Msg("Upgrade purchased")
	return nil
}
