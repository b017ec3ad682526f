// The planet agent worker: runs inside one container per claimed planet,
// harvesting the planet's pool and publishing deltas to the master station.
//
// Identity arrives through the environment set by the orchestrator:
// PLANET_ID, PLANET_NAME, PLANET_X, PLANET_Y and NATS_ADDRESS. The planet's
// pools are regenerated deterministically from its sector, so a restarted
// container resumes with the same world data.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	agentapp "github.com/dockernauts/dockernauts-go/internal/application/agent"
	"github.com/dockernauts/dockernauts-go/internal/domain/galaxy"
	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/logging"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

func main() {
	cfg := config.MustLoadConfig("")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := logging.Init(cfg.Logging, "planet-agent")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := planetFromEnv()
	if err != nil {
		return err
	}

	busURL := cfg.Bus.URL
	if addr := os.Getenv("NATS_ADDRESS"); addr != "" {
		busURL = natsURL(addr)
	}

	msgBus, err := bus.ConnectNats(bus.NatsOptions{
		URL:            busURL,
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

	for stream, subjects := range protocol.StreamSubjects {
		if err := msgBus.EnsureStream(ctx, stream, subjects...); err != nil {
			return fmt.Errorf("failed to ensure stream %s: %w", stream, err)
		}
	}

	agent := agentapp.NewPlanetAgent(p, cfg.Agent, msgBus, nil, logger)
	return agent.Run(ctx)
}

// planetFromEnv rebuilds this worker's planet. The sector roll supplies the
// canonical size and pools; the identity comes from the environment so the
// agent publishes under the ID the claim recorded.
func planetFromEnv() (*planet.Planet, error) {
	id, err := planet.NewIDFromString(os.Getenv("PLANET_ID"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLANET_ID: %w", err)
	}

	x, err := strconv.Atoi(os.Getenv("PLANET_X"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLANET_X: %w", err)
	}
	y, err := strconv.Atoi(os.Getenv("PLANET_Y"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLANET_Y: %w", err)
	}

	sx, sy := galaxy.SectorOf(x, y)
	rolled := galaxy.Generate(sx, sy)
	if rolled == nil {
		return nil, fmt.Errorf("sector (%d,%d) holds no planet", sx, sy)
	}

	name := os.Getenv("PLANET_NAME")
	if name == "" {
		name = rolled.Name()
	}

	return planet.Reconstruct(
		id,
		name,
		rolled.X(),
		rolled.Y(),
		rolled.Size(),
		rolled.Available(),
		rolled.CollectionSpeed(),
		rolled.UpgradeLevels(),
		true,
		true,
	), nil
}

// natsURL normalizes a bare host into a nats:// URL.
func natsURL(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	if !strings.Contains(addr, ":") {
		addr += ":4222"
	}
	return "nats://" + addr
}
