// The master station daemon: owns the authoritative resource ledger,
// consumes deltas from planet agents, serves snapshot requests and handles
// game resets.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/adapters/messaging"
	"github.com/dockernauts/dockernauts-go/internal/adapters/persistence"
	agentapp "github.com/dockernauts/dockernauts-go/internal/application/agent"
	"github.com/dockernauts/dockernauts-go/internal/application/common"
	stationapp "github.com/dockernauts/dockernauts-go/internal/application/station"
	"github.com/dockernauts/dockernauts-go/internal/application/station/commands"
	"github.com/dockernauts/dockernauts-go/internal/application/station/queries"
	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/database"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/logging"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/orchestrator"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/pidfile"
)

func main() {
	cfg := config.MustLoadConfig("")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := logging.Init(cfg.Logging, "master-station")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Station.PIDFile != "" {
		pf := pidfile.New(cfg.Station.PIDFile)
		if err := pf.Acquire(); err != nil {
			return err
		}
		defer pf.Release()
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info().Str("type", cfg.Database.Type).Msg("Database connected")

	msgBus, err := bus.ConnectNats(bus.NatsOptions{
		URL:            cfg.Bus.URL,
		ConnectTimeout: cfg.Bus.ConnectTimeout,
		MaxReconnects:  cfg.Bus.MaxReconnects,
		ReconnectWait:  cfg.Bus.ReconnectWait,
		PublishRate:    cfg.Bus.PublishRate,
		PublishBurst:   cfg.Bus.PublishBurst,
	}, logger)
	if err != nil {
		return err
	}
	defer msgBus.Drain()

	journal := persistence.NewGormJournalRepository(db)
	station := stationapp.NewMasterStation(cfg.Station, journal, nil, logger)
	if err := station.Start(ctx); err != nil {
		return fmt.Errorf("failed to start station actor: %w", err)
	}

	orch, err := buildOrchestrator(cfg, msgBus, logger)
	if err != nil {
		return err
	}

	mediator := common.NewMediator()
	if err := registerHandlers(mediator, station, msgBus, orch, logger); err != nil {
		return err
	}

	subscriber := messaging.NewStationSubscriber(msgBus, mediator, logger)
	if err := subscriber.Start(ctx); err != nil {
		return err
	}
	defer subscriber.Stop()

	logger.Info().Msg("Master station running")
	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	return nil
}

func buildOrchestrator(cfg *config.Config, msgBus bus.Bus, logger zerolog.Logger) (orchestrator.Orchestrator, error) {
	switch cfg.Orchestrator.Mode {
	case "docker":
		return orchestrator.NewDockerOrchestrator(cfg.Orchestrator, logger)
	default:
		runner := func(ctx context.Context, p *planet.Planet) error {
			a := agentapp.NewPlanetAgent(p, cfg.Agent, msgBus, nil, logger)
			return a.Run(ctx)
		}
		return orchestrator.NewLocalOrchestrator(cfg.Orchestrator, runner, logger), nil
	}
}

func registerHandlers(
	mediator common.Mediator,
	station *stationapp.MasterStation,
	msgBus bus.Bus,
	orch orchestrator.Orchestrator,
	logger zerolog.Logger,
) error {
	if err := common.RegisterHandler[*commands.ApplyDeltaCommand](
		mediator, commands.NewApplyDeltaHandler(station)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*commands.ResetGameCommand](
		mediator, commands.NewResetGameHandler(station, msgBus, orch, logger)); err != nil {
		return err
	}
	return common.RegisterHandler[*queries.GetSnapshotQuery](
		mediator, queries.NewGetSnapshotHandler(station))
}
