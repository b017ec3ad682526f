// Package orchestrator provisions and tears down planet workers. The game
// core treats workers as opaque handles; whether a worker is a Docker
// container or an in-process goroutine is an infrastructure concern.
package orchestrator

import (
	"context"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
)

// Handle identifies one provisioned worker.
type Handle string

// Orchestrator manages the lifecycle of planet workers.
type Orchestrator interface {
	// Provision starts a worker for a claimed planet and returns its handle.
	Provision(ctx context.Context, p *planet.Planet) (Handle, error)

	// Teardown stops and removes one worker.
	Teardown(ctx context.Context, h Handle) error

	// TeardownAll stops and removes every worker except the home planet's,
	// which survives game resets.
	TeardownAll(ctx context.Context) error
}
