package commands

import (
	"context"
	"fmt"

	"github.com/dockernauts/dockernauts-go/internal/application/common"
	appstation "github.com/dockernauts/dockernauts-go/internal/application/station"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// ApplyDeltaCommand represents a command to apply one resource delta to the
// station ledger
type ApplyDeltaCommand struct {
	Delta protocol.Delta
}

// ApplyDeltaResponse represents the result of applying a delta
type ApplyDeltaResponse struct {
	Applied   resource.Amounts
	Balances  resource.Amounts
	Duplicate bool
}

// ApplyDeltaHandler handles the ApplyDelta command
type ApplyDeltaHandler struct {
	station *appstation.MasterStation
}

// NewApplyDeltaHandler creates a new ApplyDeltaHandler
func NewApplyDeltaHandler(station *appstation.MasterStation) *ApplyDeltaHandler {
	return &ApplyDeltaHandler{station: station}
}

// Handle executes the ApplyDelta command
func (h *ApplyDeltaHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ApplyDeltaCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ApplyDeltaCommand")
	}

	result, err := h.station.ApplyDelta(ctx, cmd.Delta)
	if err != nil {
		return nil, fmt.Errorf("failed to apply delta: %w", err)
	}

	return &ApplyDeltaResponse{
		Applied:   result.Applied,
		Balances:  result.Balances,
		Duplicate: result.Duplicate,
	}, nil
}
