package queries

import (
	"context"
	"fmt"

	"github.com/dockernauts/dockernauts-go/internal/application/common"
	appstation "github.com/dockernauts/dockernauts-go/internal/application/station"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
)

// GetSnapshotQuery represents a query for the current ledger balances
type GetSnapshotQuery struct{}

// GetSnapshotResponse represents the ledger balances at one point in time
type GetSnapshotResponse struct {
	Balances resource.Amounts
}

// GetSnapshotHandler handles the GetSnapshot query
type GetSnapshotHandler struct {
	station *appstation.MasterStation
}

// NewGetSnapshotHandler creates a new GetSnapshotHandler
func NewGetSnapshotHandler(station *appstation.MasterStation) *GetSnapshotHandler {
	return &GetSnapshotHandler{station: station}
}

// Handle executes the GetSnapshot query
func (h *GetSnapshotHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetSnapshotQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetSnapshotQuery")
	}

	snapshot, err := h.station.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return &GetSnapshotResponse{Balances: snapshot}, nil
}
