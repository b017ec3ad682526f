package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/domain/resource"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
)

func testPlanet() *planet.Planet {
	return planet.New(planet.NewID(), "Talos Secundus", 0, 0, planet.SizeSmall,
		resource.Amounts{Gold: 500, Food: 500, Metal: 500})
}

func blockUntilCancelled(ctx context.Context, _ *planet.Planet) error {
	<-ctx.Done()
	return nil
}

func newLocal(runner Runner) *LocalOrchestrator {
	cfg := config.OrchestratorConfig{
		HomeContainer: "dockernauts-planet-home",
		StopTimeout:   time.Second,
	}
	return NewLocalOrchestrator(cfg, runner, zerolog.Nop())
}

func TestLocalOrchestrator_ProvisionRunsWorker(t *testing.T) {
	// Arrange
	var started atomic.Int32
	o := newLocal(func(ctx context.Context, p *planet.Planet) error {
		started.Add(1)
		<-ctx.Done()
		return nil
	})
	p := testPlanet()

	// Act
	h, err := o.Provision(context.Background(), p)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, h)

	deadline := time.Now().Add(2 * time.Second)
	for started.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int32(1), started.Load())

	require.NoError(t, o.Teardown(context.Background(), h))
}

func TestLocalOrchestrator_ProvisionTwiceFails(t *testing.T) {
	// Arrange
	o := newLocal(blockUntilCancelled)
	p := testPlanet()
	h, err := o.Provision(context.Background(), p)
	require.NoError(t, err)

	// Act
	_, err = o.Provision(context.Background(), p)

	// Assert
	assert.Error(t, err)
	require.NoError(t, o.Teardown(context.Background(), h))
}

func TestLocalOrchestrator_TeardownUnknownWorker(t *testing.T) {
	o := newLocal(blockUntilCancelled)

	err := o.Teardown(context.Background(), Handle("no-such-worker"))

	assert.Error(t, err)
}

func TestLocalOrchestrator_TeardownTimesOutOnStuckWorker(t *testing.T) {
	// Arrange: a worker that ignores cancellation
	cfg := config.OrchestratorConfig{StopTimeout: 50 * time.Millisecond}
	release := make(chan struct{})
	o := NewLocalOrchestrator(cfg, func(ctx context.Context, p *planet.Planet) error {
		<-release
		return nil
	}, zerolog.Nop())
	t.Cleanup(func() { close(release) })

	h, err := o.Provision(context.Background(), testPlanet())
	require.NoError(t, err)

	// Act
	err = o.Teardown(context.Background(), h)

	// Assert
	assert.Error(t, err)
}

func TestLocalOrchestrator_TeardownAllSparesHome(t *testing.T) {
	// Arrange: two ordinary workers plus the home worker
	o := newLocal(blockUntilCancelled)
	ctx := context.Background()

	h1, err := o.Provision(ctx, testPlanet())
	require.NoError(t, err)
	h2, err := o.Provision(ctx, testPlanet())
	require.NoError(t, err)

	homePlanet := testPlanet()
	o.homeHandle = Handle(containerName(homePlanet.ID()))
	home, err := o.Provision(ctx, homePlanet)
	require.NoError(t, err)
	require.Equal(t, o.homeHandle, home)

	// Act
	require.NoError(t, o.TeardownAll(ctx))

	// Assert: ordinary workers are gone, home still runs
	assert.Error(t, o.Teardown(ctx, h1), "worker should already be removed")
	assert.Error(t, o.Teardown(ctx, h2), "worker should already be removed")
	assert.NoError(t, o.Teardown(ctx, home))
}
