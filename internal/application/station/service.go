// Package station hosts the master station actor: the single writer of the
// aggregate resource ledger. Every mutation and every read funnels through
// one goroutine over an operation channel, so the ledger itself needs no
// locking and observers always see a consistent snapshot.
package station

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/domain/shared"
	"github.com/dockernauts/dockernauts-go/internal/domain/station"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
	"github.com/dockernauts/dockernauts-go/internal/protocol"
)

// ErrStopped is returned by operations submitted after the actor has shut
// down.
var ErrStopped = errors.New("master station stopped")

// ApplyResult reports the outcome of applying one delta.
type ApplyResult struct {
	// Applied is the delta actually absorbed after clamping at zero.
	Applied resource.Amounts

	// Balances are the ledger balances after application.
	Balances resource.Amounts

	// Duplicate is true when the delta's message ID was already applied and
	// the ledger was left untouched.
	Duplicate bool
}

type op func()

// MasterStation owns the game's aggregate resource state. Start launches the
// actor goroutine; ApplyDelta, Snapshot, ConsumeFood and ResetState are safe
// to call from any goroutine and serialize through the actor.
type MasterStation struct {
	cfg     config.StationConfig
	journal station.JournalRepository
	clock   shared.Clock
	logger  zerolog.Logger

	ledger       *station.Ledger
	dedup        *station.DedupWindow
	sessionStart time.Time

	ops  chan op
	done chan struct{}
}

// NewMasterStation creates the station actor. A nil clock defaults to the
// real clock.
func NewMasterStation(
	cfg config.StationConfig,
	journal station.JournalRepository,
	clock shared.Clock,
	logger zerolog.Logger,
) *MasterStation {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &MasterStation{
		cfg:     cfg,
		journal: journal,
		clock:   clock,
		logger:  logger,
		ledger:  station.NewLedger(),
		dedup:   station.NewDedupWindow(cfg.DedupWindow),
		ops:     make(chan op),
		done:    make(chan struct{}),
	}
}

// Start warms the dedup window from the journal and launches the actor
// goroutine. The actor runs until ctx is cancelled.
func (s *MasterStation) Start(ctx context.Context) error {
	if s.journal != nil {
		ids, err := s.journal.RecentMessageIDs(ctx, s.cfg.DedupWindow)
		if err != nil {
			return err
		}
		s.dedup.Warm(ids)
		s.logger.Info().Int("ids", s.dedup.Len()).Msg("Dedup window warmed from journal")
	}

	s.sessionStart = s.clock.Now()
	go s.run(ctx)
	return nil
}

func (s *MasterStation) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.DecayInterval)
	defer ticker.Stop()

	for {
		select {
		case fn := <-s.ops:
			fn()
		case <-ticker.C:
			s.decayTick()
		case <-ctx.Done():
			return
		}
	}
}

// submit runs fn on the actor goroutine and waits for it to complete.
func (s *MasterStation) submit(ctx context.Context, fn op) error {
	doneFn := make(chan struct{})
	wrapped := func() {
		fn()
		close(doneFn)
	}

	select {
	case s.ops <- wrapped:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-doneFn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplyDelta applies one resource delta to the ledger. Deltas carrying a
// message ID already inside the dedup window are reported as duplicates and
// leave the ledger untouched. Deltas without a message ID are applied
// unconditionally.
func (s *MasterStation) ApplyDelta(ctx context.Context, d protocol.Delta) (ApplyResult, error) {
	var result ApplyResult

	err := s.submit(ctx, func() {
		if d.MessageID != "" && s.dedup.Seen(d.MessageID) {
			result = ApplyResult{
				Balances:  s.ledger.Snapshot(),
				Duplicate: true,
			}
			s.logger.Debug().
				Str("message_id", d.MessageID).
				Msg("Duplicate delta skipped")
			return
		}

		requested := d.Amounts()
		applied := s.ledger.Apply(requested)
		balances := s.ledger.Snapshot()
		s.dedup.Remember(d.MessageID)

		if s.journal != nil {
			entry := &station.JournalEntry{
				MessageID: d.MessageID,
				PlanetID:  d.PlanetID,
				Requested: requested,
				Applied:   applied,
				Balances:  balances,
				AppliedAt: s.clock.Now(),
			}
			if err := s.journal.Record(ctx, entry); err != nil {
				// The ledger is already updated; losing a journal row costs
				// audit detail and restart dedup depth, not correctness.
				s.logger.Error().Err(err).Msg("Failed to record journal entry")
			}
		}

		result = ApplyResult{Applied: applied, Balances: balances}
	})
	if err != nil {
		return ApplyResult{}, err
	}

	return result, nil
}

// Snapshot returns a consistent copy of the current balances.
func (s *MasterStation) Snapshot(ctx context.Context) (resource.Amounts, error) {
	var snapshot resource.Amounts
	err := s.submit(ctx, func() {
		snapshot = s.ledger.Snapshot()
	})
	return snapshot, err
}

// ConsumeFood applies one decay tick immediately. Exposed for tests; the
// actor normally ticks itself every DecayInterval.
func (s *MasterStation) ConsumeFood(ctx context.Context) (int, error) {
	var consumed int
	err := s.submit(ctx, func() {
		consumed = s.applyDecay()
	})
	return consumed, err
}

// ResetState restores the initial resource grant and starts a fresh decay
// session. Idempotent.
func (s *MasterStation) ResetState(ctx context.Context) error {
	return s.submit(ctx, func() {
		s.ledger.Reset()
		s.dedup.Clear()
		s.sessionStart = s.clock.Now()
		s.logger.Info().Msg("Ledger reset to initial grant")
	})
}

func (s *MasterStation) decayTick() {
	consumed := s.applyDecay()
	s.logger.Debug().
		Int("consumed", consumed).
		Int("food", s.ledger.Snapshot().Food).
		Msg("Food decay tick")
}

func (s *MasterStation) applyDecay() int {
	elapsed := s.clock.Now().Sub(s.sessionStart)
	return s.ledger.ConsumeFood(s.cfg.BaseFoodRate, elapsed)
}

// Done is closed when the actor goroutine has exited.
func (s *MasterStation) Done() <-chan struct{} {
	return s.done
}
