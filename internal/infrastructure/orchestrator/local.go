package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
)

// Runner executes one planet worker until its context is cancelled.
type Runner func(ctx context.Context, p *planet.Planet) error

// LocalOrchestrator runs planet workers as goroutines inside the calling
// process. Used in tests and single-binary deployments where Docker is not
// available.
type LocalOrchestrator struct {
	mu      sync.Mutex
	workers map[Handle]*localWorker

	runner      Runner
	homeHandle  Handle
	stopTimeout time.Duration
	logger      zerolog.Logger
}

type localWorker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLocalOrchestrator creates an in-process orchestrator that starts each
// worker through runner.
func NewLocalOrchestrator(cfg config.OrchestratorConfig, runner Runner, logger zerolog.Logger) *LocalOrchestrator {
	return &LocalOrchestrator{
		workers:     make(map[Handle]*localWorker),
		runner:      runner,
		homeHandle:  Handle(cfg.HomeContainer),
		stopTimeout: cfg.StopTimeout,
		logger:      logger,
	}
}

// Provision starts a worker goroutine for the planet.
func (o *LocalOrchestrator) Provision(ctx context.Context, p *planet.Planet) (Handle, error) {
	h := Handle(containerName(p.ID()))

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.workers[h]; exists {
		return "", fmt.Errorf("worker %s already provisioned", h)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	w := &localWorker{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	o.workers[h] = w

	go func() {
		defer close(w.done)
		if err := o.runner(workerCtx, p); err != nil && workerCtx.Err() == nil {
			o.logger.Error().Err(err).Str("worker", string(h)).Msg("Planet worker exited with error")
		}
	}()

	o.logger.Info().
		Str("worker", string(h)).
		Str("planet_id", p.ID().String()).
		Msg("Planet worker started in-process")

	return h, nil
}

// Teardown cancels one worker and waits for it to exit, up to the stop
// timeout.
func (o *LocalOrchestrator) Teardown(ctx context.Context, h Handle) error {
	o.mu.Lock()
	w, ok := o.workers[h]
	if ok {
		delete(o.workers, h)
	}
	o.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown worker: %s", h)
	}

	w.cancel()
	select {
	case <-w.done:
		return nil
	case <-time.After(o.stopTimeout):
		return fmt.Errorf("worker %s did not stop within %s", h, o.stopTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TeardownAll cancels every worker except the home planet's.
func (o *LocalOrchestrator) TeardownAll(ctx context.Context) error {
	o.mu.Lock()
	handles := make([]Handle, 0, len(o.workers))
	for h := range o.workers {
		if h == o.homeHandle {
			continue
		}
		handles = append(handles, h)
	}
	o.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := o.Teardown(ctx, h); err != nil {
			o.logger.Error().Err(err).Str("worker", string(h)).Msg("Failed to stop planet worker")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
