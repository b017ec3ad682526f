package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/application/common"
	appstation "github.com/dockernauts/dockernauts-go/internal/application/station"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/orchestrator"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// ResetGameCommand represents a command to reset the game to its initial
// state
type ResetGameCommand struct{}

// ResetGameResponse represents the result of a game reset
type ResetGameResponse struct{}

// ResetGameHandler handles the ResetGame command. The order matters: the
// streams are purged before the ledger resets so no pre-reset delta can land
// on the fresh grant, then every planet worker except the home planet is
// torn down.
type ResetGameHandler struct {
	station *appstation.MasterStation
	msgBus  bus.Bus
	orch    orchestrator.Orchestrator
	logger  zerolog.Logger
}

// NewResetGameHandler creates a new ResetGameHandler
func NewResetGameHandler(
	station *appstation.MasterStation,
	msgBus bus.Bus,
	orch orchestrator.Orchestrator,
	logger zerolog.Logger,
) *ResetGameHandler {
	return &ResetGameHandler{
		station: station,
		msgBus:  msgBus,
		orch:    orch,
		logger:  logger,
	}
}

// Handle executes the ResetGame command
func (h *ResetGameHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ResetGameCommand); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResetGameCommand")
	}

	for _, stream := range []string{protocol.StreamMaster, protocol.StreamPlanets} {
		if err := h.msgBus.Purge(ctx, stream); err != nil {
			return nil, fmt.Errorf("failed to purge stream %s: %w", stream, err)
		}
	}

	if err := h.station.ResetState(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset ledger: %w", err)
	}

	if h.orch != nil {
		if err := h.orch.TeardownAll(ctx); err != nil {
			// Workers that survive teardown publish into purged streams with
			// fresh message IDs; the game state itself is already reset.
			h.logger.Error().Err(err).Msg("Failed to tear down planet workers on reset")
		}
	}

	h.logger.Info().Msg("Game reset complete")
	return &ResetGameResponse{}, nil
}
