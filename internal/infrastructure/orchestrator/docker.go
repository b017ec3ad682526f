package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog"

	"github.com/dockernauts/dockernauts-go/internal/domain/planet"
	"github.com/dockernauts/dockernauts-go/internal/infrastructure/config"
)

// planetLabel marks containers managed by this orchestrator so TeardownAll
// never touches unrelated containers on the same host.
const planetLabel = "dockernauts.planet"

// DockerOrchestrator runs one container per claimed planet.
type DockerOrchestrator struct {
	cli    *client.Client
	cfg    config.OrchestratorConfig
	logger zerolog.Logger
}

// NewDockerOrchestrator creates an orchestrator backed by the local Docker
// daemon.
func NewDockerOrchestrator(cfg config.OrchestratorConfig, logger zerolog.Logger) (*DockerOrchestrator, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &DockerOrchestrator{
		cli:    cli,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Provision starts a planet worker container. The container shares the host
// network so it can reach the message bus at the configured address, and
// restarts automatically unless explicitly stopped.
func (o *DockerOrchestrator) Provision(ctx context.Context, p *planet.Planet) (Handle, error) {
	name := containerName(p.ID())

	resp, err := o.cli.ContainerCreate(ctx,
		&container.Config{
			Image: o.cfg.Image,
			Env: []string{
				"NATS_ADDRESS=" + o.cfg.BusAddress,
				"PLANET_ID=" + p.ID().String(),
				"PLANET_NAME=" + p.Name(),
				fmt.Sprintf("PLANET_X=%d", p.X()),
				fmt.Sprintf("PLANET_Y=%d", p.Y()),
			},
			Labels: map[string]string{
				planetLabel: p.ID().String(),
			},
		},
		&container.HostConfig{
			NetworkMode: network.NetworkHost,
			RestartPolicy: container.RestartPolicy{
				Name: container.RestartPolicyUnlessStopped,
			},
		},
		nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create container %s: %w", name, err)
	}

	if err := o.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container %s: %w", name, err)
	}

	o.logger.Info().
		Str("container", name).
		Str("planet_id", p.ID().String()).
		Msg("Planet worker provisioned")

	return Handle(name), nil
}

// Teardown stops and removes one worker container.
func (o *DockerOrchestrator) Teardown(ctx context.Context, h Handle) error {
	timeout := int(o.cfg.StopTimeout.Seconds())
	if err := o.cli.ContainerStop(ctx, string(h), container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", h, err)
	}

	if err := o.cli.ContainerRemove(ctx, string(h), container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", h, err)
	}

	o.logger.Info().Str("container", string(h)).Msg("Planet worker torn down")
	return nil
}

// TeardownAll removes every labeled worker container except the home
// planet's.
func (o *DockerOrchestrator) TeardownAll(ctx context.Context) error {
	containers, err := o.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", planetLabel)),
	})
	if err != nil {
		return fmt.Errorf("failed to list planet containers: %w", err)
	}

	var firstErr error
	for _, c := range containers {
		name := containerListName(c.Names)
		if name == o.cfg.HomeContainer {
			continue
		}

		if err := o.Teardown(ctx, Handle(name)); err != nil {
			o.logger.Error().Err(err).Str("container", name).Msg("Failed to tear down planet worker")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// Close releases the Docker client.
func (o *DockerOrchestrator) Close() error {
	return o.cli.Close()
}

func containerName(id planet.ID) string {
	return "planet-" + id.String()
}

// containerListName extracts the primary name; the daemon reports names with
// a leading slash.
func containerListName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}
