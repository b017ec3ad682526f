package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dockernauts/dockernauts-go/internal/adapters/persistence"
	"github.com/dockernauts/dockernauts-go/internal/application/claiming"
	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/database"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/orchestrator"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// NewClaimCommand creates the claim command
func NewClaimCommand() *cobra.Command {
	var planetID string

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim a discovered planet",
		Long: `Claim a discovered planet, paying its gold cost from the station
ledger and provisioning a worker for it.

Examples:
  dockernauts claim --planet 6f1c03a4-8e86-4f0e-9c1e-2d51d4f7a9b0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClaim(planetID)
		},
	}

	cmd.Flags().StringVar(&planetID, "planet", "", "Planet ID (required)")
	cmd.MarkFlagRequired("planet")

	return cmd
}

func runClaim(planetID string) error {
	id, err := planet.NewIDFromString(planetID)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		return err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	b, err := connectBus()
	if err != nil {
		return err
	}
	defer b.Drain()

	ctx := context.Background()
	logger := cliLogger()

	// The claim is paid from the station's gold balance.
	reply, err := b.Request(ctx, protocol.SubjectGameState, nil, cliRequestTimeout)
	if err != nil {
		if errors.Is(err, bus.ErrTimeout) {
			return fmt.Errorf("no reply from master station (is it running?)")
		}
		return err
	}
	state, err := protocol.DecodeStateReply(reply)
	if err != nil {
		return err
	}

	var orch orchestrator.Orchestrator
	if cfg.Orchestrator.Mode == "docker" {
		dockerOrch, err := orchestrator.NewDockerOrchestrator(cfg.Orchestrator, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Docker unavailable, claiming without a worker")
		} else {
			defer dockerOrch.Close()
			orch = dockerOrch
		}
	}

	svc := claiming.NewClaimService(persistence.NewGormPlanetRepository(db), b, orch, logger)
	result, err := svc.Claim(ctx, id, state.Resources.Gold)
	if err != nil {
		return err
	}

	fmt.Printf("Claimed planet %s for %d gold\n", planetID, result.Cost)
	if result.Provisioned {
		fmt.Printf("Worker provisioned: %s\n", result.Handle)
	} else if result.ProvisionErr != nil {
		fmt.Printf("Warning: worker provisioning failed: %v\n", result.ProvisionErr)
	}
	return nil
}
