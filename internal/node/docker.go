package node

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// DockerInspector implements Inspector against the Docker Engine API.
type DockerInspector struct {
	cli client.APIClient
}

// NewDockerInspector connects to the local Docker daemon using the standard
// environment (DOCKER_HOST etc.).
func NewDockerInspector() (*DockerInspector, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &DockerInspector{cli: cli}, nil
}

// NewDockerInspectorWithClient wraps an existing API client, used by tests.
func NewDockerInspectorWithClient(cli client.APIClient) *DockerInspector {
	return &DockerInspector{cli: cli}
}

// Role lists running containers and classifies the node from their names
// and images.
func (d *DockerInspector) Role(ctx context.Context) (Role, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return RoleNone, fmt.Errorf("listing containers: %w", err)
	}

	var ids []string
	for _, c := range containers {
		ids = append(ids, c.Names...)
		ids = append(ids, c.Image)
	}
	return Classify(ids), nil
}

// ServerVersion returns the Docker daemon version, empty when unreachable.
func (d *DockerInspector) ServerVersion(ctx context.Context) string {
	v, err := d.cli.ServerVersion(ctx)
	if err != nil {
		return ""
	}
	return v.Version
}
