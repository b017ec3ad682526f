// Package messaging adapts the bus wire contract to application commands and
// queries. Payloads are schema-validated at this boundary; malformed messages
// are logged and dropped so a bad producer can never wedge a consumer.
package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/application/common"
	"github.com/dockernauts/dockernauts-go/internal/application/station/commands"
	"github.com/dockernauts/dockernauts-go/internal/application/station/queries"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/bus"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// stationDurable names the station's durable consumer on the resource
// subject. The cursor lives under this name, so restarts resume where the
// previous process stopped.
const stationDurable = "master-station"

// StationSubscriber binds the master station to the bus.
type StationSubscriber struct {
	msgBus   bus.Bus
	mediator common.Mediator
	logger   zerolog.Logger
	subs     []bus.Subscription
}

// NewStationSubscriber creates a new StationSubscriber
func NewStationSubscriber(msgBus bus.Bus, mediator common.Mediator, logger zerolog.Logger) *StationSubscriber {
	return &StationSubscriber{
		msgBus:   msgBus,
		mediator: mediator,
		logger:   logger,
	}
}

// Start provisions the durable streams and attaches every subscription. A
// failure here is fatal: the station cannot run without its streams.
func (s *StationSubscriber) Start(ctx context.Context) error {
	for stream, subjects := range protocol.StreamSubjects {
		if err := s.msgBus.EnsureStream(ctx, stream, subjects...); err != nil {
			return fmt.Errorf("failed to ensure stream %s: %w", stream, err)
		}
	}

	deltaSub, err := s.msgBus.Subscribe(protocol.SubjectResources, stationDurable, s.handleDelta)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", protocol.SubjectResources, err)
	}
	s.subs = append(s.subs, deltaSub)

	stateSub, err := s.msgBus.Responder(protocol.SubjectGameState, s.handleStateRequest)
	if err != nil {
		return fmt.Errorf("failed to serve %s: %w", protocol.SubjectGameState, err)
	}
	s.subs = append(s.subs, stateSub)

	resetSub, err := s.msgBus.SubscribeEphemeral(protocol.SubjectGameReset, s.handleReset)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", protocol.SubjectGameReset, err)
	}
	s.subs = append(s.subs, resetSub)

	s.logger.Info().Msg("Station subscriptions active")
	return nil
}

// Stop detaches every subscription.
func (s *StationSubscriber) Stop() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to unsubscribe")
		}
	}
	s.subs = nil
}

// handleDelta applies one resource delta. Malformed payloads are acked and
// dropped; application failures leave the message un-acked for redelivery.
func (s *StationSubscriber) handleDelta(msg *bus.Msg) error {
	delta, err := protocol.DecodeDelta(msg.Data)
	if err != nil {
		var malformed *protocol.ErrMalformed
		if errors.As(err, &malformed) {
			s.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping malformed delta")
			return nil
		}
		return err
	}

	resp, err := s.mediator.Send(context.Background(), &commands.ApplyDeltaCommand{Delta: delta})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to apply delta")
		return err
	}

	result := resp.(*commands.ApplyDeltaResponse)
	if result.Duplicate {
		s.logger.Debug().Str("message_id", delta.MessageID).Msg("Duplicate delta acked")
		return nil
	}

	s.logger.Info().
		Str("planet_id", delta.PlanetID).
		Int("gold", result.Balances.Gold).
		Int("food", result.Balances.Food).
		Int("metal", result.Balances.Metal).
		Msg("Delta applied")
	return nil
}

// handleStateRequest serves a ledger snapshot.
func (s *StationSubscriber) handleStateRequest(_ []byte) ([]byte, error) {
	resp, err := s.mediator.Send(context.Background(), &queries.GetSnapshotQuery{})
	if err != nil {
		return nil, err
	}

	snapshot := resp.(*queries.GetSnapshotResponse)
	return protocol.Encode(protocol.NewStateReply(snapshot.Balances))
}

// handleReset performs a full game reset.
func (s *StationSubscriber) handleReset(msg *bus.Msg) error {
	if _, err := protocol.DecodeReset(msg.Data); err != nil {
		s.logger.Warn().Err(err).Msg("Dropping malformed reset command")
		return nil
	}

	if _, err := s.mediator.Send(context.Background(), &commands.ResetGameCommand{}); err != nil {
		s.logger.Error().Err(err).Msg("Game reset failed")
		return err
	}

	return nil
}
