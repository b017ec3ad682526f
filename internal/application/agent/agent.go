// Package agent implements the autonomous per-planet worker. Each agent owns
// exactly one planet: it harvests the local pool on a fixed tick, publishes
// non-empty deltas to the master station, and applies upgrade commands
// addressed to its planet.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/domain/shared"
	"github.com/dockernauts/dockernauts-go/internal/domain/station"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// PlanetAgent drives one planet's harvest loop and consumes its upgrade
// commands.
type PlanetAgent struct {
	planet *planet.Planet
	cfg    config.AgentConfig
	msgBus bus.Bus
	clock  shared.Clock
	logger zerolog.Logger

	lifecycle *shared.LifecycleStateMachine
	dedup     *station.DedupWindow

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlanetAgent creates an agent for the given planet. A nil clock defaults
// to the real clock.
func NewPlanetAgent(
	p *planet.Planet,
	cfg config.AgentConfig,
	msgBus bus.Bus,
	clock shared.Clock,
	logger zerolog.Logger,
) *PlanetAgent {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &PlanetAgent{
		planet:    p,
		cfg:       cfg,
		msgBus:    msgBus,
		clock:     clock,
		logger:    logger.With().Str("planet_id", p.ID().String()).Logger(),
		lifecycle: shared.NewLifecycleStateMachine(clock),
		dedup:     station.NewDedupWindow(cfg.DedupWindow),
		done:      make(chan struct{}),
	}
}

// Status returns the agent's lifecycle status.
func (a *PlanetAgent) Status() shared.LifecycleStatus {
	return a.lifecycle.Status()
}

// Run executes the agent until ctx is cancelled or a reset arrives. It
// blocks; callers wanting a background agent use Start.
func (a *PlanetAgent) Run(ctx context.Context) error {
	defer close(a.done)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	upgradeSub, err := a.msgBus.Subscribe(
		protocol.UpgradeSubject(a.planet.ID().String()),
		"planet-"+a.planet.ID().String(),
		a.handleUpgrade,
	)
	if err != nil {
		a.failLifecycle(err)
		return fmt.Errorf("failed to subscribe to upgrades: %w", err)
	}
	defer upgradeSub.Unsubscribe()

	resetSub, err := a.msgBus.SubscribeEphemeral(protocol.SubjectGameReset, func(msg *bus.Msg) error {
		if _, err := protocol.DecodeReset(msg.Data); err != nil {
			a.logger.Warn().Err(err).Msg("Dropping malformed reset command")
			return nil
		}
		a.logger.Info().Msg("Reset received, halting agent")
		cancel()
		return nil
	})
	if err != nil {
		a.failLifecycle(err)
		return fmt.Errorf("failed to subscribe to reset: %w", err)
	}
	defer resetSub.Unsubscribe()

	if err := a.lifecycle.Start(); err != nil {
		return err
	}
	a.logger.Info().
		Str("planet", a.planet.Name()).
		Msg("Planet agent running")

	a.harvestLoop(runCtx)

	if err := a.lifecycle.Terminate(); err != nil {
		a.logger.Warn().Err(err).Msg("Lifecycle terminate")
	}
	a.logger.Info().
		Dur("runtime", a.lifecycle.RuntimeDuration()).
		Msg("Planet agent stopped")
	return nil
}

// Start launches Run in a goroutine.
func (a *PlanetAgent) Start(ctx context.Context) {
	agentCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	go func() {
		if err := a.Run(agentCtx); err != nil {
			a.logger.Error().Err(err).Msg("Planet agent exited with error")
		}
	}()
}

// Stop cancels a started agent and waits for it to exit. The agent reacts
// within one harvest tick.
func (a *PlanetAgent) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	<-a.done
}

// harvestLoop ticks until the context is cancelled. Elapsed time between
// ticks is measured with the clock so yields stay correct under scheduling
// jitter.
func (a *PlanetAgent) harvestLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.HarvestInterval)
	defer ticker.Stop()

	last := a.clock.Now()
	for {
		select {
		case <-ticker.C:
			now := a.clock.Now()
			a.harvestOnce(now.Sub(last))
			last = now
		case <-ctx.Done():
			return
		}
	}
}

// harvestOnce collects one interval's yield and publishes it when non-empty.
// Every publish carries a fresh message ID, so a redelivered or replayed
// delta is detectable downstream.
func (a *PlanetAgent) harvestOnce(dt time.Duration) {
	collected := a.planet.Harvest(dt)
	if collected.IsZero() {
		return
	}

	delta := protocol.NewDelta(a.planet.ID().String(), collected)
	data, err := protocol.Encode(delta)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to encode delta")
		return
	}

	if err := a.msgBus.PublishWithID(protocol.SubjectResources, delta.MessageID, data); err != nil {
		// The pool was already drained; the yield is lost, matching the
		// fire-and-forget publish contract.
		a.logger.Error().Err(err).Msg("Failed to publish delta")
		return
	}

	a.logger.Debug().
		Int("gold", collected.Gold).
		Int("food", collected.Food).
		Int("metal", collected.Metal).
		Msg("Harvest published")
}

// handleUpgrade applies one upgrade command to the planet. Malformed
// payloads are acked and dropped; duplicates within the dedup window are
// acked without effect.
func (a *PlanetAgent) handleUpgrade(msg *bus.Msg) error {
	upgrade, err := protocol.DecodeUpgrade(msg.Data)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Dropping malformed upgrade command")
		return nil
	}

	if upgrade.MessageID != "" && a.dedup.Seen(upgrade.MessageID) {
		a.logger.Debug().Str("message_id", upgrade.MessageID).Msg("Duplicate upgrade acked")
		return nil
	}

	t, err := resource.ParseType(upgrade.ResourceType)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Dropping upgrade with unknown resource type")
		return nil
	}

	if err := a.planet.ApplyUpgrade(t); err != nil {
		return err
	}
	a.dedup.Remember(upgrade.MessageID)

	a.logger.Info().
		Str("resource", t.String()).
		Int("level", a.planet.UpgradeLevels().Get(t)).
		Msg("Upgrade applied")
	return nil
}

func (a *PlanetAgent) failLifecycle(err error) {
	if lerr := a.lifecycle.Fail(err); lerr != nil {
		a.logger.Warn().Err(lerr).Msg("Lifecycle fail")
	}
}
